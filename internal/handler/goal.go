package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/service"
)

// GoalHandler exposes nutrition goals.
type GoalHandler struct {
	goals *service.Goals
}

// NewGoalHandler builds the handler.
func NewGoalHandler(goals *service.Goals) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type calculateGoalRequest struct {
	Gender           model.Gender            `json:"gender"`
	BirthDate        model.Day               `json:"birth_date"`
	HeightCM         decimal.Decimal         `json:"height_cm"`
	CurrentWeightKG  decimal.Decimal         `json:"current_weight_kg"`
	ActivityLevel    model.ActivityLevel     `json:"activity_level"`
	WeightGoalType   model.WeightGoalType    `json:"weight_goal_type"`
	TargetWeightKG   decimal.NullDecimal     `json:"target_weight_kg"`
	WeightChangePace *model.WeightChangePace `json:"weight_change_pace"`
	ProteinPercent   *int                    `json:"protein_percent"`
	CarbsPercent     *int                    `json:"carbs_percent"`
	FatPercent       *int                    `json:"fat_percent"`
	WaterML          *int                    `json:"water_ml"`
}

// Calculate derives a full goal from body metrics and stores it as
// the device's current goal.
func (h *GoalHandler) Calculate(c echo.Context) error {
	var req calculateGoalRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	g, err := h.goals.CreateCalculated(c.Request().Context(), middleware.DeviceID(c), service.CreateCalculatedInput{
		Gender:           req.Gender,
		BirthDate:        req.BirthDate,
		HeightCM:         req.HeightCM,
		CurrentWeightKG:  req.CurrentWeightKG,
		ActivityLevel:    req.ActivityLevel,
		WeightGoalType:   req.WeightGoalType,
		TargetWeightKG:   req.TargetWeightKG,
		WeightChangePace: req.WeightChangePace,
		ProteinPercent:   req.ProteinPercent,
		CarbsPercent:     req.CarbsPercent,
		FatPercent:       req.FatPercent,
		WaterML:          req.WaterML,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

type manualGoalRequest struct {
	DailyCaloriesKcal int  `json:"daily_calories_kcal"`
	ProteinPercent    int  `json:"protein_percent"`
	CarbsPercent      int  `json:"carbs_percent"`
	FatPercent        int  `json:"fat_percent"`
	WaterML           *int `json:"water_ml"`
}

// Manual stores explicit targets as the device's current goal.
func (h *GoalHandler) Manual(c echo.Context) error {
	var req manualGoalRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	g, err := h.goals.CreateManual(c.Request().Context(), middleware.DeviceID(c), service.CreateManualInput{
		DailyCaloriesKcal: req.DailyCaloriesKcal,
		ProteinPercent:    req.ProteinPercent,
		CarbsPercent:      req.CarbsPercent,
		FatPercent:        req.FatPercent,
		WaterML:           req.WaterML,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// Current returns the device's live goal.
func (h *GoalHandler) Current(c echo.Context) error {
	g, err := h.goals.Current(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Update adjusts the daily targets of a goal.
func (h *GoalHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch model.GoalPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid request body")
	}
	g, err := h.goals.Update(c.Request().Context(), middleware.DeviceID(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete tombstones a goal.
func (h *GoalHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.goals.SoftDelete(c.Request().Context(), middleware.DeviceID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
