package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/model"
)

func calculatedInput() CreateCalculatedInput {
	pace := model.PaceModerate
	return CreateCalculatedInput{
		Gender:           model.GenderMale,
		BirthDate:        "1996-03-01",
		HeightCM:         decimal.NewFromInt(180),
		CurrentWeightKG:  decimal.NewFromInt(80),
		ActivityLevel:    model.ActivityModerate,
		WeightGoalType:   model.WeightGoalLose,
		WeightChangePace: &pace,
	}
}

func TestCreateCalculatedGoal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	g, err := e.goals.CreateCalculated(ctx, dev, calculatedInput())
	require.NoError(t, err)

	assert.Equal(t, model.GoalCalculated, g.GoalType)
	require.NotNil(t, g.BMRKcal)
	assert.Equal(t, 1780, *g.BMRKcal)
	require.NotNil(t, g.TDEEKcal)
	assert.Equal(t, 2759, *g.TDEEKcal)
	assert.Equal(t, 2259, g.DailyCaloriesKcal)

	// Default lose split 30/35/35.
	assert.Equal(t, 30, g.ProteinPercent)
	assert.Equal(t, 35, g.CarbsPercent)
	assert.Equal(t, 35, g.FatPercent)
	assert.Equal(t, 169, g.ProteinGrams)
	assert.Equal(t, 197, g.CarbsGrams)
	assert.Equal(t, 87, g.FatGrams)

	require.NotNil(t, g.WaterML)
	assert.Equal(t, 2640, *g.WaterML)
	require.NotNil(t, g.BMICategory)
	assert.Equal(t, "normal", *g.BMICategory)
	assert.Equal(t, "24.7", g.CurrentBMI.Decimal.String())
}

func TestCreateGoalReplacesPrevious(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	first, err := e.goals.CreateCalculated(ctx, dev, calculatedInput())
	require.NoError(t, err)

	e.clock.Advance(1)
	manual, err := e.goals.CreateManual(ctx, dev, CreateManualInput{
		DailyCaloriesKcal: 2100,
		ProteinPercent:    30,
		CarbsPercent:      40,
		FatPercent:        30,
	})
	require.NoError(t, err)

	current, err := e.goals.Current(ctx, dev)
	require.NoError(t, err)
	assert.Equal(t, manual.ID, current.ID)
	assert.Equal(t, model.GoalManual, current.GoalType)

	_, err = e.goals.Update(ctx, dev, first.ID, model.GoalPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateManualGoalGrams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	g, err := e.goals.CreateManual(ctx, dev, CreateManualInput{
		DailyCaloriesKcal: 2000,
		ProteinPercent:    30,
		CarbsPercent:      35,
		FatPercent:        35,
	})
	require.NoError(t, err)
	assert.Equal(t, 150, g.ProteinGrams)
	assert.Equal(t, 175, g.CarbsGrams)
	assert.Equal(t, 77, g.FatGrams)
	assert.Nil(t, g.BMRKcal)
	assert.Nil(t, g.Gender)
}

func TestCreateManualGoalValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	_, err := e.goals.CreateManual(ctx, dev, CreateManualInput{
		DailyCaloriesKcal: 2000,
		ProteinPercent:    50,
		CarbsPercent:      40,
		FatPercent:        30,
	})
	assert.ErrorIs(t, err, ErrValidation, "percentages must sum to 100")

	_, err = e.goals.CreateManual(ctx, dev, CreateManualInput{
		ProteinPercent: 30, CarbsPercent: 40, FatPercent: 30,
	})
	assert.ErrorIs(t, err, ErrValidation, "calories must be positive")
}

func TestUpdateGoalRecomputesGrams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	g, err := e.goals.CreateManual(ctx, dev, CreateManualInput{
		DailyCaloriesKcal: 2000,
		ProteinPercent:    30,
		CarbsPercent:      35,
		FatPercent:        35,
	})
	require.NoError(t, err)

	e.clock.Advance(1)
	updated, err := e.goals.Update(ctx, dev, g.ID, model.GoalPatch{DailyCaloriesKcal: intPtr(1600)})
	require.NoError(t, err)
	assert.Equal(t, 1600, updated.DailyCaloriesKcal)
	assert.Equal(t, 120, updated.ProteinGrams)
	assert.Equal(t, 140, updated.CarbsGrams)
	assert.Equal(t, 62, updated.FatGrams)
}

func TestCurrentGoalNone(t *testing.T) {
	e := newEnv(t)
	dev, _ := e.registerDevice(t)

	_, err := e.goals.Current(context.Background(), dev)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteGoal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	g, err := e.goals.CreateManual(ctx, dev, CreateManualInput{
		DailyCaloriesKcal: 1800,
		ProteinPercent:    25,
		CarbsPercent:      45,
		FatPercent:        30,
	})
	require.NoError(t, err)

	require.NoError(t, e.goals.SoftDelete(ctx, dev, g.ID))
	_, err = e.goals.Current(ctx, dev)
	assert.ErrorIs(t, err, ErrNotFound)
}
