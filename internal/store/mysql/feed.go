package mysql

import (
	"context"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/cursor"
	"github.com/Konstantin212/countOnMe/internal/model"
)

// Feed queries page over the change stream of one record family in
// (updated_at, id) order.  Tombstoned rows are included so deletions
// replicate to other devices.

const feedPredicate = ` AND (updated_at > ? OR (updated_at = ? AND id > ?))`

func feedArgs(deviceID uuid.UUID, after *cursor.Cursor, limit int) (string, []any) {
	args := []any{deviceID.String()}
	clause := ""
	if after != nil {
		clause = feedPredicate
		ts := after.UpdatedAt.UTC()
		args = append(args, ts, ts, after.ID.String())
	}
	args = append(args, limit)
	return clause, args
}

// ProductsSince returns products changed after the cursor, oldest
// change first.
func (t *Tx) ProductsSince(ctx context.Context, deviceID uuid.UUID, after *cursor.Cursor, limit int) ([]model.Product, error) {
	clause, args := feedArgs(deviceID, after, limit)
	q := `SELECT ` + productColumns + ` FROM products
	      WHERE device_id = ?` + clause + `
	      ORDER BY updated_at ASC, id ASC
	      LIMIT ?`
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// PortionsSince returns portions changed after the cursor, oldest
// change first.
func (t *Tx) PortionsSince(ctx context.Context, deviceID uuid.UUID, after *cursor.Cursor, limit int) ([]model.Portion, error) {
	clause, args := feedArgs(deviceID, after, limit)
	q := `SELECT ` + portionColumns + ` FROM product_portions
	      WHERE device_id = ?` + clause + `
	      ORDER BY updated_at ASC, id ASC
	      LIMIT ?`
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Portion, 0)
	for rows.Next() {
		p, err := scanPortion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// FoodEntriesSince returns diary rows changed after the cursor, oldest
// change first.
func (t *Tx) FoodEntriesSince(ctx context.Context, deviceID uuid.UUID, after *cursor.Cursor, limit int) ([]model.FoodEntry, error) {
	clause, args := feedArgs(deviceID, after, limit)
	q := `SELECT ` + foodEntryColumns + ` FROM food_entries
	      WHERE device_id = ?` + clause + `
	      ORDER BY updated_at ASC, id ASC
	      LIMIT ?`
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.FoodEntry, 0)
	for rows.Next() {
		e, err := scanFoodEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
