package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

// rowLockStore models the relational contract more loosely than the
// snapshot store used elsewhere in this package: every statement
// reads and writes the shared row set directly, and only
// GetProductForUpdate holds a lock (one per product) until the
// transaction ends.  Under read committed a plain SELECT sees
// whatever committed after an earlier statement of the same
// transaction ran, so two service calls on the same product can be
// interleaved between a statement and the product lock.
type rowLockStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
	portions map[uuid.UUID]model.Portion
	rowLocks map[uuid.UUID]*sync.Mutex

	hookMu            sync.Mutex
	beforeProductLock func()
}

func newRowLockStore() *rowLockStore {
	return &rowLockStore{
		products: make(map[uuid.UUID]model.Product),
		portions: make(map[uuid.UUID]model.Portion),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// takeHook pops the hook so the call it triggers does not fire it
// again.
func (s *rowLockStore) takeHook() func() {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	h := s.beforeProductLock
	s.beforeProductLock = nil
	return h
}

func (s *rowLockStore) liveDefaults(productID uuid.UUID) []model.Portion {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Portion
	for _, p := range s.portions {
		if p.ProductID == productID && p.DeletedAt == nil && p.IsDefault {
			out = append(out, p)
		}
	}
	return out
}

func (s *rowLockStore) Begin(ctx context.Context) (store.Tx, error) {
	return &rowLockTx{s: s}, nil
}

// rowLockTx implements only what the portion paths touch; anything
// else panics via the embedded nil interface.
type rowLockTx struct {
	store.Tx
	s    *rowLockStore
	held []*sync.Mutex
}

func (t *rowLockTx) Commit() error   { t.release(); return nil }
func (t *rowLockTx) Rollback() error { t.release(); return nil }

func (t *rowLockTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

func (t *rowLockTx) GetProductForUpdate(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error) {
	if hook := t.s.takeHook(); hook != nil {
		hook()
	}
	t.s.mu.Lock()
	l, ok := t.s.rowLocks[productID]
	if !ok {
		l = &sync.Mutex{}
		t.s.rowLocks[productID] = l
	}
	t.s.mu.Unlock()
	l.Lock()
	t.held = append(t.held, l)

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	p, ok := t.s.products[productID]
	if !ok || p.DeviceID != deviceID || p.DeletedAt != nil {
		return nil, store.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (t *rowLockTx) GetPortion(ctx context.Context, deviceID, portionID uuid.UUID) (*model.Portion, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	p, ok := t.s.portions[portionID]
	if !ok || p.DeviceID != deviceID || p.DeletedAt != nil {
		return nil, store.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (t *rowLockTx) ListPortions(ctx context.Context, deviceID, productID uuid.UUID) ([]model.Portion, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var out []model.Portion
	for _, p := range t.s.portions {
		if p.DeviceID == deviceID && p.ProductID == productID && p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (t *rowLockTx) InsertPortion(ctx context.Context, p *model.Portion) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, exists := t.s.portions[p.ID]; exists {
		return store.ErrDuplicate
	}
	t.s.portions[p.ID] = *p
	return nil
}

func (t *rowLockTx) UpdatePortion(ctx context.Context, p *model.Portion) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.portions[p.ID] = *p
	return nil
}

func (t *rowLockTx) ClearOtherDefaults(ctx context.Context, deviceID, productID, exceptID uuid.UUID, now time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, p := range t.s.portions {
		if id == exceptID || p.DeviceID != deviceID || p.ProductID != productID || p.DeletedAt != nil || !p.IsDefault {
			continue
		}
		p.IsDefault = false
		p.UpdatedAt = now
		t.s.portions[id] = p
	}
	return nil
}

func (t *rowLockTx) EarliestPortionExcept(ctx context.Context, deviceID, productID, exceptID uuid.UUID) (*model.Portion, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var best *model.Portion
	for id, p := range t.s.portions {
		if id == exceptID || p.DeviceID != deviceID || p.ProductID != productID || p.DeletedAt != nil {
			continue
		}
		cp := p
		if best == nil || cp.CreatedAt.Before(best.CreatedAt) ||
			(cp.CreatedAt.Equal(best.CreatedAt) && cp.ID.String() < best.ID.String()) {
			best = &cp
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	return best, nil
}

func seedProductWithPortion(st *rowLockStore, dev uuid.UUID, at time.Time) (productID uuid.UUID, def model.Portion) {
	productID = uuid.New()
	st.products[productID] = model.Product{ID: productID, DeviceID: dev, Name: "oats", CreatedAt: at, UpdatedAt: at}
	def = model.Portion{
		ID:         uuid.New(),
		DeviceID:   dev,
		ProductID:  productID,
		Label:      "bowl",
		BaseAmount: decimal.NewFromInt(100),
		BaseUnit:   model.UnitG,
		Calories:   decimal.NewFromInt(250),
		IsDefault:  true,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	st.portions[def.ID] = def
	return productID, def
}

// A label-only update reads its portion before taking the product
// lock.  If another call commits a default handover in that window,
// the update must not write the pre-handover flag back.
func TestUpdateSeesHandoverCommittedBeforeLock(t *testing.T) {
	st := newRowLockStore()
	svc := NewPortions(st)
	dev := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prodID, a := seedProductWithPortion(st, dev, base)

	st.beforeProductLock = func() {
		_, err := svc.Create(context.Background(), dev, prodID, CreatePortionInput{
			Label:      "cup",
			BaseAmount: decimal.NewFromInt(80),
			BaseUnit:   model.UnitG,
			Calories:   decimal.NewFromInt(200),
			IsDefault:  true,
		})
		require.NoError(t, err)
	}

	updated, err := svc.Update(context.Background(), dev, a.ID, model.PortionPatch{Label: strPtr("small bowl")})
	require.NoError(t, err)
	assert.False(t, updated.IsDefault)
	assert.Equal(t, "small bowl", updated.Label)

	defaults := st.liveDefaults(prodID)
	require.Len(t, defaults, 1)
	assert.Equal(t, "cup", defaults[0].Label)
}

// Deleting a portion that became the default after the unlocked read
// must still promote a sibling instead of tombstoning the flag away.
func TestSoftDeleteSeesHandoverCommittedBeforeLock(t *testing.T) {
	st := newRowLockStore()
	svc := NewPortions(st)
	dev := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prodID, a := seedProductWithPortion(st, dev, base)
	b := model.Portion{
		ID:         uuid.New(),
		DeviceID:   dev,
		ProductID:  prodID,
		Label:      "cup",
		BaseAmount: decimal.NewFromInt(80),
		BaseUnit:   model.UnitG,
		Calories:   decimal.NewFromInt(200),
		CreatedAt:  base.Add(time.Second),
		UpdatedAt:  base.Add(time.Second),
	}
	st.portions[b.ID] = b

	st.beforeProductLock = func() {
		_, err := svc.Update(context.Background(), dev, b.ID, model.PortionPatch{IsDefault: boolPtr(true)})
		require.NoError(t, err)
	}

	require.NoError(t, svc.SoftDelete(context.Background(), dev, b.ID))

	defaults := st.liveDefaults(prodID)
	require.Len(t, defaults, 1)
	assert.Equal(t, a.ID, defaults[0].ID)

	_, err := svc.Get(context.Background(), dev, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
