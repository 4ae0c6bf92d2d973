package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/cursor"
)

// drain polls Since until convergence, returning every product id
// delivered along the way and the final cursor.
func drain(t *testing.T, e *env, dev uuid.UUID, rawCursor string, limit int) (map[uuid.UUID]bool, string) {
	t.Helper()
	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 20; i++ {
		page, err := e.sync.Since(context.Background(), dev, rawCursor, limit)
		require.NoError(t, err)
		for _, p := range page.Products {
			seen[p.ID] = true
		}
		if page.Done() {
			return seen, page.NextCursor
		}
		rawCursor = page.NextCursor
	}
	t.Fatal("sync did not converge in 20 polls")
	return nil, ""
}

func TestSyncPagination(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)

	p1 := e.createProduct(t, dev, "A")
	p2 := e.createProduct(t, dev, "B")
	p3 := e.createProduct(t, dev, "C")

	page, err := e.sync.Since(ctx, dev, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, p1.ID, page.Products[0].ID)
	assert.Equal(t, p2.ID, page.Products[1].ID)
	want := cursor.Cursor{UpdatedAt: p2.UpdatedAt, ID: p2.ID}
	assert.Equal(t, want.String(), page.NextCursor)

	page, err = e.sync.Since(ctx, dev, page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, p3.ID, page.Products[0].ID)
	assert.Empty(t, page.Portions)
	assert.Empty(t, page.FoodEntries)
}

func TestSyncEchoesCursorWhenEmpty(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	e.createProduct(t, dev, "A")

	_, converged := drain(t, e, dev, "", 100)

	page, err := e.sync.Since(ctx, dev, converged, 100)
	require.NoError(t, err)
	assert.True(t, page.Done())
	assert.Equal(t, converged, page.NextCursor)
}

func TestSyncAscendingPairOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		e.createProduct(t, dev, name)
	}

	page, err := e.sync.Since(ctx, dev, "", 100)
	require.NoError(t, err)
	require.Len(t, page.Products, 5)
	for i := 1; i < len(page.Products); i++ {
		prev := cursor.Cursor{UpdatedAt: page.Products[i-1].UpdatedAt, ID: page.Products[i-1].ID}
		cur := cursor.Cursor{UpdatedAt: page.Products[i].UpdatedAt, ID: page.Products[i].ID}
		assert.True(t, prev.Less(cur), "rows must arrive in ascending (updated_at, id) order")
	}
}

func TestSyncTombstonePropagation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	p := e.createProduct(t, dev, "Doomed")

	_, converged := drain(t, e, dev, "", 100)

	e.clock.Advance(time.Second)
	require.NoError(t, e.products.SoftDelete(ctx, dev, p.ID))

	page, err := e.sync.Since(ctx, dev, converged, 100)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, p.ID, page.Products[0].ID)
	assert.NotNil(t, page.Products[0].DeletedAt, "deletion must replicate as a tombstone")
}

func TestSyncLaggingFamilyNotSkipped(t *testing.T) {
	e := newEnv(t)
	dev, _ := e.registerDevice(t)

	// Three product changes, then one newer portion change.  With a
	// per-family limit of 2 the first poll fills the product page
	// while the portion row carries the globally largest pair; a
	// cursor taken as the global max would jump past product three.
	p1 := e.createProduct(t, dev, "A")
	e.createProduct(t, dev, "B")
	p3 := e.createProduct(t, dev, "C")
	e.createPortion(t, dev, p1.ID, "1 cup", false)

	seen, _ := drain(t, e, dev, "", 2)
	assert.True(t, seen[p3.ID], "lagging family rows must not be skipped by the advancing cursor")
	assert.Len(t, seen, 3)
}

func TestSyncInvalidCursorFullResync(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	e.createProduct(t, dev, "A")
	e.createProduct(t, dev, "B")

	page, err := e.sync.Since(ctx, dev, "garbage-cursor", 100)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
}

func TestSyncScopedToDevice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dev, _ := e.registerDevice(t)
	other, _ := e.registerDevice(t)
	e.createProduct(t, dev, "Mine")

	page, err := e.sync.Since(ctx, other, "", 100)
	require.NoError(t, err)
	assert.True(t, page.Done())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultSyncLimit, clampLimit(0))
	assert.Equal(t, DefaultSyncLimit, clampLimit(-5))
	assert.Equal(t, 1, clampLimit(1))
	assert.Equal(t, MaxSyncLimit, clampLimit(9999))
}
