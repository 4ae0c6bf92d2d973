package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/service"
)

// BodyWeightHandler exposes weigh-ins.
type BodyWeightHandler struct {
	weights *service.BodyWeights
}

// NewBodyWeightHandler builds the handler.
func NewBodyWeightHandler(weights *service.BodyWeights) *BodyWeightHandler {
	return &BodyWeightHandler{weights: weights}
}

type createBodyWeightRequest struct {
	Day      model.Day       `json:"day"`
	WeightKG decimal.Decimal `json:"weight_kg"`
}

// Create records a weigh-in; a second one for the same day is a 409.
func (h *BodyWeightHandler) Create(c echo.Context) error {
	var req createBodyWeightRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	w, err := h.weights.Create(c.Request().Context(), middleware.DeviceID(c), req.Day, req.WeightKG)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, w)
}

// List returns weigh-ins, optionally bounded by ?from=&to=.
func (h *BodyWeightHandler) List(c echo.Context) error {
	out, err := h.weights.List(c.Request().Context(), middleware.DeviceID(c),
		model.Day(c.QueryParam("from")), model.Day(c.QueryParam("to")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type updateBodyWeightRequest struct {
	WeightKG decimal.Decimal `json:"weight_kg"`
}

// Update changes the weight of a weigh-in.
func (h *BodyWeightHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateBodyWeightRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	w, err := h.weights.Update(c.Request().Context(), middleware.DeviceID(c), id, req.WeightKG)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

// Delete tombstones a weigh-in.
func (h *BodyWeightHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.weights.SoftDelete(c.Request().Context(), middleware.DeviceID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
