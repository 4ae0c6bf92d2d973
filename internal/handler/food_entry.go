package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/service"
	"github.com/Konstantin212/countOnMe/internal/store"
)

// FoodEntryHandler exposes the food diary.
type FoodEntryHandler struct {
	entries *service.FoodEntries
}

// NewFoodEntryHandler builds the handler.
func NewFoodEntryHandler(entries *service.FoodEntries) *FoodEntryHandler {
	return &FoodEntryHandler{entries: entries}
}

type createFoodEntryRequest struct {
	ID        uuid.UUID       `json:"id"` // optional, client-generated
	ProductID uuid.UUID       `json:"product_id"`
	PortionID uuid.UUID       `json:"portion_id"`
	Day       model.Day       `json:"day"`
	MealType  model.MealType  `json:"meal_type"`
	Amount    decimal.Decimal `json:"amount"`
	Unit      model.Unit      `json:"unit"`
}

// Create adds a diary entry.
func (h *FoodEntryHandler) Create(c echo.Context) error {
	var req createFoodEntryRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	e, err := h.entries.Create(c.Request().Context(), middleware.DeviceID(c), service.CreateFoodEntryInput{
		ID:        req.ID,
		ProductID: req.ProductID,
		PortionID: req.PortionID,
		Day:       req.Day,
		MealType:  req.MealType,
		Amount:    req.Amount,
		Unit:      req.Unit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

// List returns diary entries filtered by ?day= or ?from=&to=.
func (h *FoodEntryHandler) List(c echo.Context) error {
	f := store.FoodEntryFilter{
		Day:     model.Day(c.QueryParam("day")),
		FromDay: model.Day(c.QueryParam("from")),
		ToDay:   model.Day(c.QueryParam("to")),
	}
	out, err := h.entries.List(c.Request().Context(), middleware.DeviceID(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one diary entry.
func (h *FoodEntryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.entries.Get(c.Request().Context(), middleware.DeviceID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Update applies a partial patch to a diary entry.
func (h *FoodEntryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch model.FoodEntryPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	e, err := h.entries.Update(c.Request().Context(), middleware.DeviceID(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Delete tombstones a diary entry.
func (h *FoodEntryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.entries.SoftDelete(c.Request().Context(), middleware.DeviceID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
