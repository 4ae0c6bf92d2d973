package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/model"
)

func TestProductCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	p := e.createProduct(t, dev, "Oatmeal")

	e.clock.Advance(1)
	renamed, err := e.products.Update(ctx, dev, p.ID, model.ProductPatch{Name: strPtr("Steel-cut oats")})
	require.NoError(t, err)
	assert.Equal(t, "Steel-cut oats", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(p.UpdatedAt))

	list, err := e.products.List(ctx, dev)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, e.products.SoftDelete(ctx, dev, p.ID))
	_, err = e.products.Get(ctx, dev, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = e.products.List(ctx, dev)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductClientSuppliedID(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	id := uuid.New()
	p, err := e.products.Create(ctx, dev, id, "Rice")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	// Replaying the same id is a conflict, not a silent overwrite.
	_, err = e.products.Create(ctx, dev, id, "Rice again")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProductOwnershipScoping(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, _ := e.registerDevice(t)
	other, _ := e.registerDevice(t)
	p := e.createProduct(t, owner, "Milk")

	_, err := e.products.Get(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = e.products.SoftDelete(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductNameValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	_, err := e.products.Create(ctx, dev, uuid.Nil, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	p := e.createProduct(t, dev, "Rice")
	_, err = e.products.Update(ctx, dev, p.ID, model.ProductPatch{Name: strPtr("")})
	assert.ErrorIs(t, err, ErrValidation)
}
