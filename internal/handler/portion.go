package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/service"
)

// PortionHandler exposes portion CRUD.  Create and list are nested
// under the owning product; get, update and delete address the
// portion directly.
type PortionHandler struct {
	portions *service.Portions
}

// NewPortionHandler builds the handler.
func NewPortionHandler(portions *service.Portions) *PortionHandler {
	return &PortionHandler{portions: portions}
}

type createPortionRequest struct {
	ID         uuid.UUID           `json:"id"` // optional, client-generated
	Label      string              `json:"label"`
	BaseAmount decimal.Decimal     `json:"base_amount"`
	BaseUnit   model.Unit          `json:"base_unit"`
	Calories   decimal.Decimal     `json:"calories"`
	Protein    decimal.NullDecimal `json:"protein"`
	Carbs      decimal.NullDecimal `json:"carbs"`
	Fat        decimal.NullDecimal `json:"fat"`
	IsDefault  bool                `json:"is_default"`
}

// Create adds a portion to a product.
func (h *PortionHandler) Create(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req createPortionRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	p, err := h.portions.Create(c.Request().Context(), middleware.DeviceID(c), productID, service.CreatePortionInput{
		ID:         req.ID,
		Label:      req.Label,
		BaseAmount: req.BaseAmount,
		BaseUnit:   req.BaseUnit,
		Calories:   req.Calories,
		Protein:    req.Protein,
		Carbs:      req.Carbs,
		Fat:        req.Fat,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns the live portions of a product, default first.
func (h *PortionHandler) List(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.portions.List(c.Request().Context(), middleware.DeviceID(c), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one portion.
func (h *PortionHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.portions.Get(c.Request().Context(), middleware.DeviceID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Update applies a partial patch to a portion.  Default-flag changes
// go through the single-default rules.
func (h *PortionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch model.PortionPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	p, err := h.portions.Update(c.Request().Context(), middleware.DeviceID(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete tombstones a portion, promoting a sibling when the default
// goes away.
func (h *PortionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.portions.SoftDelete(c.Request().Context(), middleware.DeviceID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
