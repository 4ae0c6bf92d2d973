package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/service"
)

// ProductHandler exposes product CRUD.
type ProductHandler struct {
	products *service.Products
}

// NewProductHandler builds the handler.
func NewProductHandler(products *service.Products) *ProductHandler {
	return &ProductHandler{products: products}
}

type createProductRequest struct {
	ID   uuid.UUID `json:"id"` // optional, client-generated
	Name string    `json:"name"`
}

// Create stores a new product for the device.
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	p, err := h.products.Create(c.Request().Context(), middleware.DeviceID(c), req.ID, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns the device's live products.
func (h *ProductHandler) List(c echo.Context) error {
	out, err := h.products.List(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one product.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.products.Get(c.Request().Context(), middleware.DeviceID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Update applies a partial patch to a product.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch model.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	p, err := h.products.Update(c.Request().Context(), middleware.DeviceID(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete tombstones a product.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.products.SoftDelete(c.Request().Context(), middleware.DeviceID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
