package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/model"
)

// countDefaults returns how many live portions of the product carry
// the default flag.
func countDefaults(t *testing.T, e *env, deviceID, productID uuid.UUID) int {
	t.Helper()
	list, err := e.portions.List(context.Background(), deviceID, productID)
	require.NoError(t, err)
	n := 0
	for _, p := range list {
		if p.IsDefault {
			n++
		}
	}
	return n
}

func TestFirstPortionForcedDefault(t *testing.T) {
	e := newEnv(t)
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Oatmeal")

	a := e.createPortion(t, dev, prod.ID, "1 cup", false)
	assert.True(t, a.IsDefault, "first portion must be default even when not requested")

	b := e.createPortion(t, dev, prod.ID, "small bowl", true)
	assert.True(t, b.IsDefault)

	got, err := e.portions.Get(context.Background(), dev, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault, "previous default must be cleared")
	assert.Equal(t, 1, countDefaults(t, e, dev, prod.ID))
}

func TestUnsetDefaultRejected(t *testing.T) {
	e := newEnv(t)
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Rice")
	e.createPortion(t, dev, prod.ID, "1 cup", false)
	b := e.createPortion(t, dev, prod.ID, "half cup", true)

	_, err := e.portions.Update(context.Background(), dev, b.ID, model.PortionPatch{IsDefault: boolPtr(false)})
	assert.ErrorIs(t, err, ErrDefaultConflict)
	assert.Equal(t, 1, countDefaults(t, e, dev, prod.ID))
}

func TestDeleteDefaultPromotesOldestSibling(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Yogurt")

	a := e.createPortion(t, dev, prod.ID, "small", false) // oldest, initially default
	b := e.createPortion(t, dev, prod.ID, "large", true)  // takes over the flag

	require.NoError(t, e.portions.SoftDelete(ctx, dev, b.ID))

	got, err := e.portions.Get(ctx, dev, a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault, "oldest live sibling must be promoted")

	_, err = e.portions.Get(ctx, dev, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLastPortionRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Eggs")
	only := e.createPortion(t, dev, prod.ID, "one egg", false)

	err := e.portions.SoftDelete(ctx, dev, only.ID)
	assert.ErrorIs(t, err, ErrDefaultConflict)

	got, err := e.portions.Get(ctx, dev, only.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault, "failed delete must leave state unchanged")
}

func TestSetDefaultClearsSiblings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Pasta")
	a := e.createPortion(t, dev, prod.ID, "100g", false)
	b := e.createPortion(t, dev, prod.ID, "200g", false)

	updated, err := e.portions.Update(ctx, dev, b.ID, model.PortionPatch{IsDefault: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	got, err := e.portions.Get(ctx, dev, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
	assert.Equal(t, 1, countDefaults(t, e, dev, prod.ID))
}

func TestConcurrentFirstPortionSingleDefault(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Granola")

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.portions.Create(ctx, dev, prod.ID, CreatePortionInput{
				Label:      "portion " + string(rune('a'+i)),
				BaseAmount: decimal.NewFromInt(50),
				BaseUnit:   model.UnitG,
				Calories:   decimal.NewFromInt(200),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := e.portions.List(ctx, dev, prod.ID)
	require.NoError(t, err)
	require.Len(t, list, callers)
	assert.Equal(t, 1, countDefaults(t, e, dev, prod.ID))
}

func TestPortionOwnershipScoping(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, _ := e.registerDevice(t)
	other, _ := e.registerDevice(t)
	prod := e.createProduct(t, owner, "Milk")
	p := e.createPortion(t, owner, prod.ID, "glass", false)

	_, err := e.portions.Get(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.portions.Create(ctx, other, prod.ID, CreatePortionInput{
		Label:      "stolen",
		BaseAmount: decimal.NewFromInt(1),
		BaseUnit:   model.UnitCup,
		Calories:   decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePortionValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	prod := e.createProduct(t, dev, "Butter")

	cases := []struct {
		name string
		in   CreatePortionInput
	}{
		{"empty label", CreatePortionInput{BaseAmount: decimal.NewFromInt(1), BaseUnit: model.UnitG, Calories: decimal.NewFromInt(1)}},
		{"zero amount", CreatePortionInput{Label: "x", BaseUnit: model.UnitG, Calories: decimal.NewFromInt(1)}},
		{"bad unit", CreatePortionInput{Label: "x", BaseAmount: decimal.NewFromInt(1), BaseUnit: "stone", Calories: decimal.NewFromInt(1)}},
		{"negative calories", CreatePortionInput{Label: "x", BaseAmount: decimal.NewFromInt(1), BaseUnit: model.UnitG, Calories: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.portions.Create(ctx, dev, prod.ID, tc.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
