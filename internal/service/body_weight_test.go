package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/model"
)

func TestBodyWeightOnePerDay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	w, err := e.weights.Create(ctx, dev, "2026-03-01", decimal.NewFromFloat(80.5))
	require.NoError(t, err)

	_, err = e.weights.Create(ctx, dev, "2026-03-01", decimal.NewFromFloat(80.6))
	assert.ErrorIs(t, err, ErrConflict)

	// Deleting the row frees the day again.
	require.NoError(t, e.weights.SoftDelete(ctx, dev, w.ID))
	_, err = e.weights.Create(ctx, dev, "2026-03-01", decimal.NewFromFloat(80.6))
	assert.NoError(t, err)
}

func TestBodyWeightListRange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	for _, day := range []model.Day{"2026-03-01", "2026-03-03", "2026-03-05"} {
		_, err := e.weights.Create(ctx, dev, day, decimal.NewFromInt(80))
		require.NoError(t, err)
	}

	out, err := e.weights.List(ctx, dev, "2026-03-02", "2026-03-05")
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Day ascending.
	assert.Equal(t, model.Day("2026-03-03"), out[0].Day)
	assert.Equal(t, model.Day("2026-03-05"), out[1].Day)
}

func TestBodyWeightUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	w, err := e.weights.Create(ctx, dev, "2026-03-01", decimal.NewFromInt(80))
	require.NoError(t, err)

	updated, err := e.weights.Update(ctx, dev, w.ID, decimal.NewFromFloat(79.4))
	require.NoError(t, err)
	assert.True(t, updated.WeightKG.Equal(decimal.NewFromFloat(79.4)))

	_, err = e.weights.Update(ctx, dev, w.ID, decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBodyWeightValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	_, err := e.weights.Create(ctx, dev, "not-a-day", decimal.NewFromInt(80))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.weights.Create(ctx, dev, "2026-03-01", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrValidation)
}
