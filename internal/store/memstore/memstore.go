// Package memstore is an in-memory store.Store used by the service
// tests.  A single mutex serializes transactions, which gives every
// transaction a consistent snapshot and makes commit atomic; rollback
// restores the snapshot taken at Begin.  Coarser than InnoDB row
// locking, but it preserves the visibility guarantees the services
// rely on.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/cursor"
	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

type tables struct {
	devices     map[uuid.UUID]model.Device
	products    map[uuid.UUID]model.Product
	portions    map[uuid.UUID]model.Portion
	foodEntries map[uuid.UUID]model.FoodEntry
	bodyWeights map[uuid.UUID]model.BodyWeight
	goals       map[uuid.UUID]model.Goal
}

func newTables() *tables {
	return &tables{
		devices:     make(map[uuid.UUID]model.Device),
		products:    make(map[uuid.UUID]model.Product),
		portions:    make(map[uuid.UUID]model.Portion),
		foodEntries: make(map[uuid.UUID]model.FoodEntry),
		bodyWeights: make(map[uuid.UUID]model.BodyWeight),
		goals:       make(map[uuid.UUID]model.Goal),
	}
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t *tables) clone() *tables {
	return &tables{
		devices:     cloneMap(t.devices),
		products:    cloneMap(t.products),
		portions:    cloneMap(t.portions),
		foodEntries: cloneMap(t.foodEntries),
		bodyWeights: cloneMap(t.bodyWeights),
		goals:       cloneMap(t.goals),
	}
}

// Store is the in-memory store.
type Store struct {
	mu   sync.Mutex
	data *tables
}

// New returns an empty store.
func New() *Store {
	return &Store{data: newTables()}
}

// Begin blocks until the store is free, then opens a transaction over
// the live tables with a snapshot held for rollback.
func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &Tx{s: s, undo: s.data.clone()}, nil
}

// Tx mutates the store's live tables directly; Rollback swaps the
// Begin-time snapshot back in.
type Tx struct {
	s    *Store
	undo *tables
	done bool
}

func (t *Tx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

// Rollback after Commit is a no-op, matching database/sql.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.data = t.undo
	t.s.mu.Unlock()
	return nil
}

// --- devices ---

func (t *Tx) GetDevice(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	d, ok := t.s.data.devices[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (t *Tx) GetDeviceForUpdate(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	return t.GetDevice(ctx, id)
}

func (t *Tx) InsertDevice(ctx context.Context, d *model.Device) error {
	if _, ok := t.s.data.devices[d.ID]; ok {
		return store.ErrDuplicate
	}
	t.s.data.devices[d.ID] = *d
	return nil
}

func (t *Tx) UpdateDeviceDigest(ctx context.Context, id uuid.UUID, digest string) error {
	d, ok := t.s.data.devices[id]
	if !ok {
		return store.ErrNotFound
	}
	d.TokenDigest = digest
	t.s.data.devices[id] = d
	return nil
}

func (t *Tx) TouchDevice(ctx context.Context, id uuid.UUID, seenAt time.Time) error {
	d, ok := t.s.data.devices[id]
	if !ok {
		return store.ErrNotFound
	}
	d.LastSeenAt = seenAt.UTC()
	t.s.data.devices[id] = d
	return nil
}

// --- products ---

func (t *Tx) InsertProduct(ctx context.Context, p *model.Product) error {
	if _, ok := t.s.data.products[p.ID]; ok {
		return store.ErrDuplicate
	}
	t.s.data.products[p.ID] = *p
	return nil
}

func (t *Tx) GetProduct(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error) {
	p, ok := t.s.data.products[productID]
	if !ok || p.DeviceID != deviceID || p.Deleted() {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (t *Tx) GetProductForUpdate(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error) {
	return t.GetProduct(ctx, deviceID, productID)
}

func (t *Tx) ListProducts(ctx context.Context, deviceID uuid.UUID) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range t.s.data.products {
		if p.DeviceID == deviceID && !p.Deleted() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t *Tx) UpdateProduct(ctx context.Context, p *model.Product) error {
	if _, ok := t.s.data.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	t.s.data.products[p.ID] = *p
	return nil
}

// --- portions ---

func (t *Tx) InsertPortion(ctx context.Context, p *model.Portion) error {
	if _, ok := t.s.data.portions[p.ID]; ok {
		return store.ErrDuplicate
	}
	t.s.data.portions[p.ID] = *p
	return nil
}

func (t *Tx) GetPortion(ctx context.Context, deviceID, portionID uuid.UUID) (*model.Portion, error) {
	p, ok := t.s.data.portions[portionID]
	if !ok || p.DeviceID != deviceID || p.Deleted() {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (t *Tx) livePortions(deviceID, productID uuid.UUID) []model.Portion {
	out := make([]model.Portion, 0)
	for _, p := range t.s.data.portions {
		if p.DeviceID == deviceID && p.ProductID == productID && !p.Deleted() {
			out = append(out, p)
		}
	}
	return out
}

func (t *Tx) ListPortions(ctx context.Context, deviceID, productID uuid.UUID) ([]model.Portion, error) {
	out := t.livePortions(deviceID, productID)
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func (t *Tx) ClearOtherDefaults(ctx context.Context, deviceID, productID, exceptID uuid.UUID, now time.Time) error {
	for id, p := range t.s.data.portions {
		if p.DeviceID == deviceID && p.ProductID == productID && id != exceptID && !p.Deleted() && p.IsDefault {
			p.IsDefault = false
			p.UpdatedAt = now.UTC()
			t.s.data.portions[id] = p
		}
	}
	return nil
}

func (t *Tx) EarliestPortionExcept(ctx context.Context, deviceID, productID, exceptID uuid.UUID) (*model.Portion, error) {
	candidates := t.livePortions(deviceID, productID)
	var best *model.Portion
	for i := range candidates {
		p := &candidates[i]
		if p.ID == exceptID {
			continue
		}
		if best == nil {
			best = p
			continue
		}
		if p.CreatedAt.Before(best.CreatedAt) ||
			(p.CreatedAt.Equal(best.CreatedAt) && p.ID.String() < best.ID.String()) {
			best = p
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	out := *best
	return &out, nil
}

func (t *Tx) UpdatePortion(ctx context.Context, p *model.Portion) error {
	if _, ok := t.s.data.portions[p.ID]; !ok {
		return store.ErrNotFound
	}
	t.s.data.portions[p.ID] = *p
	return nil
}

// --- food entries ---

func (t *Tx) InsertFoodEntry(ctx context.Context, e *model.FoodEntry) error {
	if _, ok := t.s.data.foodEntries[e.ID]; ok {
		return store.ErrDuplicate
	}
	t.s.data.foodEntries[e.ID] = *e
	return nil
}

func (t *Tx) GetFoodEntry(ctx context.Context, deviceID, entryID uuid.UUID) (*model.FoodEntry, error) {
	e, ok := t.s.data.foodEntries[entryID]
	if !ok || e.DeviceID != deviceID || e.Deleted() {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (t *Tx) ListFoodEntries(ctx context.Context, deviceID uuid.UUID, f store.FoodEntryFilter) ([]model.FoodEntry, error) {
	out := make([]model.FoodEntry, 0)
	for _, e := range t.s.data.foodEntries {
		if e.DeviceID != deviceID || e.Deleted() {
			continue
		}
		switch {
		case f.Day != "":
			if e.Day != f.Day {
				continue
			}
		default:
			if f.FromDay != "" && e.Day < f.FromDay {
				continue
			}
			if f.ToDay != "" && e.Day > f.ToDay {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day > out[j].Day
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (t *Tx) UpdateFoodEntry(ctx context.Context, e *model.FoodEntry) error {
	if _, ok := t.s.data.foodEntries[e.ID]; !ok {
		return store.ErrNotFound
	}
	t.s.data.foodEntries[e.ID] = *e
	return nil
}

// --- body weights ---

func (t *Tx) InsertBodyWeight(ctx context.Context, w *model.BodyWeight) error {
	if _, ok := t.s.data.bodyWeights[w.ID]; ok {
		return store.ErrDuplicate
	}
	t.s.data.bodyWeights[w.ID] = *w
	return nil
}

func (t *Tx) GetBodyWeight(ctx context.Context, deviceID, weightID uuid.UUID) (*model.BodyWeight, error) {
	w, ok := t.s.data.bodyWeights[weightID]
	if !ok || w.DeviceID != deviceID || w.Deleted() {
		return nil, store.ErrNotFound
	}
	return &w, nil
}

func (t *Tx) GetBodyWeightByDay(ctx context.Context, deviceID uuid.UUID, day model.Day) (*model.BodyWeight, error) {
	for _, w := range t.s.data.bodyWeights {
		if w.DeviceID == deviceID && w.Day == day && !w.Deleted() {
			out := w
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *Tx) ListBodyWeights(ctx context.Context, deviceID uuid.UUID, fromDay, toDay model.Day) ([]model.BodyWeight, error) {
	out := make([]model.BodyWeight, 0)
	for _, w := range t.s.data.bodyWeights {
		if w.DeviceID != deviceID || w.Deleted() {
			continue
		}
		if fromDay != "" && w.Day < fromDay {
			continue
		}
		if toDay != "" && w.Day > toDay {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (t *Tx) UpdateBodyWeight(ctx context.Context, w *model.BodyWeight) error {
	if _, ok := t.s.data.bodyWeights[w.ID]; !ok {
		return store.ErrNotFound
	}
	t.s.data.bodyWeights[w.ID] = *w
	return nil
}

// --- goals ---

func (t *Tx) InsertGoal(ctx context.Context, g *model.Goal) error {
	if _, ok := t.s.data.goals[g.ID]; ok {
		return store.ErrDuplicate
	}
	t.s.data.goals[g.ID] = *g
	return nil
}

func (t *Tx) GetGoal(ctx context.Context, deviceID, goalID uuid.UUID) (*model.Goal, error) {
	g, ok := t.s.data.goals[goalID]
	if !ok || g.DeviceID != deviceID || g.Deleted() {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

func (t *Tx) CurrentGoal(ctx context.Context, deviceID uuid.UUID) (*model.Goal, error) {
	var best *model.Goal
	for _, g := range t.s.data.goals {
		if g.DeviceID != deviceID || g.Deleted() {
			continue
		}
		g := g
		if best == nil || g.CreatedAt.After(best.CreatedAt) ||
			(g.CreatedAt.Equal(best.CreatedAt) && g.ID.String() > best.ID.String()) {
			best = &g
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	return best, nil
}

func (t *Tx) SoftDeleteGoals(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	for id, g := range t.s.data.goals {
		if g.DeviceID == deviceID && !g.Deleted() {
			ts := at.UTC()
			g.DeletedAt = &ts
			g.UpdatedAt = ts
			t.s.data.goals[id] = g
		}
	}
	return nil
}

func (t *Tx) UpdateGoal(ctx context.Context, g *model.Goal) error {
	if _, ok := t.s.data.goals[g.ID]; !ok {
		return store.ErrNotFound
	}
	t.s.data.goals[g.ID] = *g
	return nil
}

// --- feed ---

func after(c *cursor.Cursor, updatedAt time.Time, id uuid.UUID) bool {
	if c == nil {
		return true
	}
	return c.After(updatedAt, id)
}

func sortFeed[T any](rows []T, key func(T) cursor.Cursor) {
	sort.Slice(rows, func(i, j int) bool {
		return key(rows[i]).Less(key(rows[j]))
	})
}

func (t *Tx) ProductsSince(ctx context.Context, deviceID uuid.UUID, c *cursor.Cursor, limit int) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range t.s.data.products {
		if p.DeviceID == deviceID && after(c, p.UpdatedAt, p.ID) {
			out = append(out, p)
		}
	}
	sortFeed(out, func(p model.Product) cursor.Cursor {
		return cursor.Cursor{UpdatedAt: p.UpdatedAt, ID: p.ID}
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *Tx) PortionsSince(ctx context.Context, deviceID uuid.UUID, c *cursor.Cursor, limit int) ([]model.Portion, error) {
	out := make([]model.Portion, 0)
	for _, p := range t.s.data.portions {
		if p.DeviceID == deviceID && after(c, p.UpdatedAt, p.ID) {
			out = append(out, p)
		}
	}
	sortFeed(out, func(p model.Portion) cursor.Cursor {
		return cursor.Cursor{UpdatedAt: p.UpdatedAt, ID: p.ID}
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *Tx) FoodEntriesSince(ctx context.Context, deviceID uuid.UUID, c *cursor.Cursor, limit int) ([]model.FoodEntry, error) {
	out := make([]model.FoodEntry, 0)
	for _, e := range t.s.data.foodEntries {
		if e.DeviceID == deviceID && after(c, e.UpdatedAt, e.ID) {
			out = append(out, e)
		}
	}
	sortFeed(out, func(e model.FoodEntry) cursor.Cursor {
		return cursor.Cursor{UpdatedAt: e.UpdatedAt, ID: e.ID}
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
