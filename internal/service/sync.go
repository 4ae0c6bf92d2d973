package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/cursor"
	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

// Sync serves the incremental change feed.  Each poll returns rows of
// three families (products, portions, diary entries) whose
// (updated_at, id) pair lies beyond the cursor, in ascending pair
// order, tombstones included.
type Sync struct {
	store store.Store
}

// NewSync builds the sync service.
func NewSync(st store.Store) *Sync {
	return &Sync{store: st}
}

const (
	// DefaultSyncLimit applies when the client sends no limit.
	DefaultSyncLimit = 200
	// MaxSyncLimit caps the per-family page size.
	MaxSyncLimit = 500
)

// SyncPage is one poll's worth of changes.
type SyncPage struct {
	NextCursor  string            `json:"next_cursor"`
	Products    []model.Product   `json:"products"`
	Portions    []model.Portion   `json:"portions"`
	FoodEntries []model.FoodEntry `json:"food_entries"`
}

// Done reports whether the poll returned no rows, signaling
// convergence.
func (p *SyncPage) Done() bool {
	return len(p.Products) == 0 && len(p.Portions) == 0 && len(p.FoodEntries) == 0
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSyncLimit
	case limit > MaxSyncLimit:
		return MaxSyncLimit
	}
	return limit
}

// Since returns the changes beyond rawCursor.  An empty or
// unparseable cursor scans from the beginning of time, which turns a
// corrupted client cursor into a full resync rather than an error;
// upserts on the client are idempotent so re-delivery is safe.
//
// The limit applies to each family independently, so the advancing
// cursor must not outrun a family that still has rows: next_cursor is
// capped to the smallest last-returned pair among families that
// filled their limit.  When no family filled its limit every family
// is drained and the cursor is the largest pair across all returned
// rows.  With no rows at all the input cursor is echoed back.
func (s *Sync) Since(ctx context.Context, deviceID uuid.UUID, rawCursor string, limit int) (*SyncPage, error) {
	c, err := cursor.Parse(rawCursor)
	if err != nil {
		c = nil
	}
	limit = clampLimit(limit)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	products, err := tx.ProductsSince(ctx, deviceID, c, limit)
	if err != nil {
		return nil, err
	}
	portions, err := tx.PortionsSince(ctx, deviceID, c, limit)
	if err != nil {
		return nil, err
	}
	entries, err := tx.FoodEntriesSince(ctx, deviceID, c, limit)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	page := &SyncPage{
		NextCursor:  rawCursor,
		Products:    products,
		Portions:    portions,
		FoodEntries: entries,
	}
	if next, ok := nextCursor(page, limit); ok {
		page.NextCursor = next.String()
	}
	return page, nil
}

// familyTail is the last returned pair of one family plus whether the
// family hit its limit and may have more rows.
type familyTail struct {
	last cursor.Cursor
	full bool
}

func tailOf[T any](rows []T, limit int, pair func(T) cursor.Cursor) (familyTail, bool) {
	if len(rows) == 0 {
		return familyTail{}, false
	}
	return familyTail{last: pair(rows[len(rows)-1]), full: len(rows) == limit}, true
}

func nextCursor(page *SyncPage, limit int) (cursor.Cursor, bool) {
	tails := make([]familyTail, 0, 3)
	if t, ok := tailOf(page.Products, limit, func(p model.Product) cursor.Cursor {
		return cursor.Cursor{UpdatedAt: p.UpdatedAt, ID: p.ID}
	}); ok {
		tails = append(tails, t)
	}
	if t, ok := tailOf(page.Portions, limit, func(p model.Portion) cursor.Cursor {
		return cursor.Cursor{UpdatedAt: p.UpdatedAt, ID: p.ID}
	}); ok {
		tails = append(tails, t)
	}
	if t, ok := tailOf(page.FoodEntries, limit, func(e model.FoodEntry) cursor.Cursor {
		return cursor.Cursor{UpdatedAt: e.UpdatedAt, ID: e.ID}
	}); ok {
		tails = append(tails, t)
	}
	if len(tails) == 0 {
		return cursor.Cursor{}, false
	}

	var (
		capped    cursor.Cursor
		hasCapped bool
		max       cursor.Cursor
	)
	for _, t := range tails {
		max = cursor.Max(max, t.last)
		if t.full {
			if !hasCapped {
				capped, hasCapped = t.last, true
			} else {
				capped = cursor.Min(capped, t.last)
			}
		}
	}
	if hasCapped {
		return capped, true
	}
	return max, true
}
