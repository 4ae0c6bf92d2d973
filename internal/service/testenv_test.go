package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store/memstore"
)

// fakeClock is a manually advanced clock so tests control updated_at
// ordering precisely.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

const testPepper = "test-pepper"

type env struct {
	store    *memstore.Store
	clock    *fakeClock
	identity *Identity
	products *Products
	portions *Portions
	entries  *FoodEntries
	weights  *BodyWeights
	goals    *Goals
	sync     *Sync
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := memstore.New()
	clock := newFakeClock()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := &env{
		store:    st,
		clock:    clock,
		identity: NewIdentity(st, testPepper, log),
		products: NewProducts(st),
		portions: NewPortions(st),
		entries:  NewFoodEntries(st),
		weights:  NewBodyWeights(st),
		goals:    NewGoals(st),
		sync:     NewSync(st),
	}
	e.identity.now = clock.Now
	e.products.now = clock.Now
	e.portions.now = clock.Now
	e.entries.now = clock.Now
	e.weights.now = clock.Now
	e.goals.now = clock.Now
	return e
}

// registerDevice registers a fresh device and returns its id and
// credential.
func (e *env) registerDevice(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	token, err := e.identity.Register(context.Background(), id)
	require.NoError(t, err)
	return id, token
}

// createProduct creates a product, advancing the clock so timestamps
// stay distinct.
func (e *env) createProduct(t *testing.T, deviceID uuid.UUID, name string) *model.Product {
	t.Helper()
	e.clock.Advance(time.Second)
	p, err := e.products.Create(context.Background(), deviceID, uuid.Nil, name)
	require.NoError(t, err)
	return p
}

// createPortion creates a portion with sane nutrition values.
func (e *env) createPortion(t *testing.T, deviceID, productID uuid.UUID, label string, isDefault bool) *model.Portion {
	t.Helper()
	e.clock.Advance(time.Second)
	p, err := e.portions.Create(context.Background(), deviceID, productID, CreatePortionInput{
		Label:      label,
		BaseAmount: decimal.NewFromInt(100),
		BaseUnit:   model.UnitG,
		Calories:   decimal.NewFromInt(250),
		IsDefault:  isDefault,
	})
	require.NoError(t, err)
	return p
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
