package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

func TestCreateFoodEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Oatmeal")
	portion := e.createPortion(t, dev, prod.ID, "1 cup", false)

	entry, err := e.entries.Create(ctx, dev, CreateFoodEntryInput{
		ProductID: prod.ID,
		PortionID: portion.ID,
		Day:       "2026-03-01",
		MealType:  model.MealBreakfast,
		Amount:    decimal.NewFromInt(1),
		Unit:      model.UnitCup,
	})
	require.NoError(t, err)
	assert.Equal(t, prod.ID, entry.ProductID)
	assert.Equal(t, portion.ID, entry.PortionID)
}

func TestCreateFoodEntryPortionMismatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prodA := e.createProduct(t, dev, "Oatmeal")
	prodB := e.createProduct(t, dev, "Yogurt")
	e.createPortion(t, dev, prodA.ID, "1 cup", false)
	portionB := e.createPortion(t, dev, prodB.ID, "small", false)

	_, err := e.entries.Create(ctx, dev, CreateFoodEntryInput{
		ProductID: prodA.ID,
		PortionID: portionB.ID,
		Day:       "2026-03-01",
		MealType:  model.MealLunch,
		Amount:    decimal.NewFromInt(1),
		Unit:      model.UnitCup,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateFoodEntrySwapPortionRevalidates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prodA := e.createProduct(t, dev, "Oatmeal")
	prodB := e.createProduct(t, dev, "Yogurt")
	pA1 := e.createPortion(t, dev, prodA.ID, "1 cup", false)
	pA2 := e.createPortion(t, dev, prodA.ID, "half cup", false)
	pB := e.createPortion(t, dev, prodB.ID, "small", false)

	entry, err := e.entries.Create(ctx, dev, CreateFoodEntryInput{
		ProductID: prodA.ID,
		PortionID: pA1.ID,
		Day:       "2026-03-01",
		MealType:  model.MealDinner,
		Amount:    decimal.NewFromInt(1),
		Unit:      model.UnitCup,
	})
	require.NoError(t, err)

	// Swapping to a sibling portion of the same product is fine.
	updated, err := e.entries.Update(ctx, dev, entry.ID, model.FoodEntryPatch{PortionID: &pA2.ID})
	require.NoError(t, err)
	assert.Equal(t, pA2.ID, updated.PortionID)

	// Swapping to another product's portion is not.
	_, err = e.entries.Update(ctx, dev, entry.ID, model.FoodEntryPatch{PortionID: &pB.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListFoodEntriesDayFilter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Oatmeal")
	portion := e.createPortion(t, dev, prod.ID, "1 cup", false)

	for _, day := range []model.Day{"2026-03-01", "2026-03-02", "2026-03-03"} {
		_, err := e.entries.Create(ctx, dev, CreateFoodEntryInput{
			ProductID: prod.ID,
			PortionID: portion.ID,
			Day:       day,
			MealType:  model.MealSnacks,
			Amount:    decimal.NewFromInt(1),
			Unit:      model.UnitCup,
		})
		require.NoError(t, err)
	}

	byDay, err := e.entries.List(ctx, dev, store.FoodEntryFilter{Day: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, byDay, 1)
	assert.Equal(t, model.Day("2026-03-02"), byDay[0].Day)

	ranged, err := e.entries.List(ctx, dev, store.FoodEntryFilter{FromDay: "2026-03-02", ToDay: "2026-03-03"})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	// Day descending.
	assert.Equal(t, model.Day("2026-03-03"), ranged[0].Day)
	assert.Equal(t, model.Day("2026-03-02"), ranged[1].Day)
}

func TestSoftDeleteFoodEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Oatmeal")
	portion := e.createPortion(t, dev, prod.ID, "1 cup", false)

	entry, err := e.entries.Create(ctx, dev, CreateFoodEntryInput{
		ProductID: prod.ID,
		PortionID: portion.ID,
		Day:       "2026-03-01",
		MealType:  model.MealWater,
		Amount:    decimal.NewFromInt(250),
		Unit:      model.UnitML,
	})
	require.NoError(t, err)

	require.NoError(t, e.entries.SoftDelete(ctx, dev, entry.ID))
	_, err = e.entries.Get(ctx, dev, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
