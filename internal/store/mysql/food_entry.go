package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

const foodEntryColumns = `id, device_id, product_id, portion_id, day, meal_type,
	amount, unit, created_at, updated_at, deleted_at`

func scanFoodEntry(row rowScanner) (*model.FoodEntry, error) {
	var (
		e                               model.FoodEntry
		idRaw, devRaw, prodRaw, portRaw string
		day                             time.Time
		mealRaw, unitRaw                string
		deletedAt                       sql.NullTime
	)
	if err := row.Scan(
		&idRaw, &devRaw, &prodRaw, &portRaw, &day, &mealRaw,
		&e.Amount, &unitRaw, &e.CreatedAt, &e.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, noRows(err)
	}
	var err error
	if e.ID, err = uuid.Parse(idRaw); err != nil {
		return nil, err
	}
	if e.DeviceID, err = uuid.Parse(devRaw); err != nil {
		return nil, err
	}
	if e.ProductID, err = uuid.Parse(prodRaw); err != nil {
		return nil, err
	}
	if e.PortionID, err = uuid.Parse(portRaw); err != nil {
		return nil, err
	}
	e.Day = model.DayOf(day)
	e.MealType = model.MealType(mealRaw)
	e.Unit = model.Unit(unitRaw)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	e.DeletedAt = nullTime(deletedAt)
	return &e, nil
}

// InsertFoodEntry creates a diary row.
func (t *Tx) InsertFoodEntry(ctx context.Context, e *model.FoodEntry) error {
	const q = `INSERT INTO food_entries
	           (id, device_id, product_id, portion_id, day, meal_type,
	            amount, unit, created_at, updated_at, deleted_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		e.ID.String(), e.DeviceID.String(), e.ProductID.String(), e.PortionID.String(),
		string(e.Day), string(e.MealType), e.Amount, string(e.Unit),
		e.CreatedAt.UTC(), e.UpdatedAt.UTC(), timeArg(e.DeletedAt))
	if isDuplicateEntry(err) {
		return store.ErrDuplicate
	}
	return err
}

// GetFoodEntry loads a live diary row owned by the device.
func (t *Tx) GetFoodEntry(ctx context.Context, deviceID, entryID uuid.UUID) (*model.FoodEntry, error) {
	const q = `SELECT ` + foodEntryColumns + ` FROM food_entries
	           WHERE id = ? AND device_id = ? AND deleted_at IS NULL`
	return scanFoodEntry(t.tx.QueryRowContext(ctx, q, entryID.String(), deviceID.String()))
}

// ListFoodEntries returns live diary rows, day descending then
// created_at descending.  An exact day filter wins over range
// bounds.
func (t *Tx) ListFoodEntries(ctx context.Context, deviceID uuid.UUID, f store.FoodEntryFilter) ([]model.FoodEntry, error) {
	q := `SELECT ` + foodEntryColumns + ` FROM food_entries
	      WHERE device_id = ? AND deleted_at IS NULL`
	args := []any{deviceID.String()}
	switch {
	case f.Day != "":
		q += ` AND day = ?`
		args = append(args, string(f.Day))
	default:
		if f.FromDay != "" {
			q += ` AND day >= ?`
			args = append(args, string(f.FromDay))
		}
		if f.ToDay != "" {
			q += ` AND day <= ?`
			args = append(args, string(f.ToDay))
		}
	}
	q += ` ORDER BY day DESC, created_at DESC`
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

// UpdateFoodEntry persists the mutable columns of a diary row.
func (t *Tx) UpdateFoodEntry(ctx context.Context, e *model.FoodEntry) error {
	const q = `UPDATE food_entries
	           SET portion_id = ?, day = ?, meal_type = ?, amount = ?, unit = ?,
	               updated_at = ?, deleted_at = ?
	           WHERE id = ? AND device_id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		e.PortionID.String(), string(e.Day), string(e.MealType), e.Amount, string(e.Unit),
		e.UpdatedAt.UTC(), timeArg(e.DeletedAt),
		e.ID.String(), e.DeviceID.String())
	return err
}
