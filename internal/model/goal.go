package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a device's nutrition target set.  A calculated goal is
// derived from body metrics (Mifflin-St Jeor BMR, activity-scaled
// TDEE, pace-adjusted calorie target); a manual goal takes calories
// and macro percentages directly.  Creating a goal of either kind
// soft-deletes any previous goal, so at most one live goal exists
// per device.
type Goal struct {
	ID       uuid.UUID `json:"id"`
	DeviceID uuid.UUID `json:"-"`
	GoalType GoalType  `json:"goal_type"`

	// Body metrics, present on calculated goals only.
	Gender           *Gender             `json:"gender"`
	BirthDate        *Day                `json:"birth_date"`
	HeightCM         decimal.NullDecimal `json:"height_cm"`
	CurrentWeightKG  decimal.NullDecimal `json:"current_weight_kg"`
	ActivityLevel    *ActivityLevel      `json:"activity_level"`
	WeightGoalType   *WeightGoalType     `json:"weight_goal_type"`
	TargetWeightKG   decimal.NullDecimal `json:"target_weight_kg"`
	WeightChangePace *WeightChangePace   `json:"weight_change_pace"`

	// Derived energy values, present on calculated goals only.
	BMRKcal  *int `json:"bmr_kcal"`
	TDEEKcal *int `json:"tdee_kcal"`

	// Daily targets, present on every goal.
	DailyCaloriesKcal int  `json:"daily_calories_kcal"`
	ProteinPercent    int  `json:"protein_percent"`
	CarbsPercent      int  `json:"carbs_percent"`
	FatPercent        int  `json:"fat_percent"`
	ProteinGrams      int  `json:"protein_grams"`
	CarbsGrams        int  `json:"carbs_grams"`
	FatGrams          int  `json:"fat_grams"`
	WaterML           *int `json:"water_ml"`

	// Healthy range snapshot, present on calculated goals only.
	HealthyWeightMinKG decimal.NullDecimal `json:"healthy_weight_min_kg"`
	HealthyWeightMaxKG decimal.NullDecimal `json:"healthy_weight_max_kg"`
	CurrentBMI         decimal.NullDecimal `json:"current_bmi"`
	BMICategory        *string             `json:"bmi_category"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Deleted reports whether the row is a tombstone.
func (g *Goal) Deleted() bool { return g.DeletedAt != nil }

// GoalPatch adjusts the daily targets of an existing goal.  Macro
// grams are recomputed by the service whenever calories or any
// percentage changes.
type GoalPatch struct {
	DailyCaloriesKcal *int `json:"daily_calories_kcal"`
	ProteinPercent    *int `json:"protein_percent"`
	CarbsPercent      *int `json:"carbs_percent"`
	FatPercent        *int `json:"fat_percent"`
	WaterML           *int `json:"water_ml"`
}
