package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

const bodyWeightColumns = `id, device_id, day, weight_kg, created_at, updated_at, deleted_at`

func scanBodyWeight(row rowScanner) (*model.BodyWeight, error) {
	var (
		w             model.BodyWeight
		idRaw, devRaw string
		day           time.Time
		deletedAt     sql.NullTime
	)
	if err := row.Scan(&idRaw, &devRaw, &day, &w.WeightKG, &w.CreatedAt, &w.UpdatedAt, &deletedAt); err != nil {
		return nil, noRows(err)
	}
	var err error
	if w.ID, err = uuid.Parse(idRaw); err != nil {
		return nil, err
	}
	if w.DeviceID, err = uuid.Parse(devRaw); err != nil {
		return nil, err
	}
	w.Day = model.DayOf(day)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	w.DeletedAt = nullTime(deletedAt)
	return &w, nil
}

// InsertBodyWeight creates a weigh-in row.
func (t *Tx) InsertBodyWeight(ctx context.Context, w *model.BodyWeight) error {
	const q = `INSERT INTO body_weights (id, device_id, day, weight_kg, created_at, updated_at, deleted_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		w.ID.String(), w.DeviceID.String(), string(w.Day), w.WeightKG,
		w.CreatedAt.UTC(), w.UpdatedAt.UTC(), timeArg(w.DeletedAt))
	if isDuplicateEntry(err) {
		return store.ErrDuplicate
	}
	return err
}

// GetBodyWeight loads a live weigh-in owned by the device.
func (t *Tx) GetBodyWeight(ctx context.Context, deviceID, weightID uuid.UUID) (*model.BodyWeight, error) {
	const q = `SELECT ` + bodyWeightColumns + ` FROM body_weights
	           WHERE id = ? AND device_id = ? AND deleted_at IS NULL`
	return scanBodyWeight(t.tx.QueryRowContext(ctx, q, weightID.String(), deviceID.String()))
}

// GetBodyWeightByDay loads the live weigh-in for a calendar day.
func (t *Tx) GetBodyWeightByDay(ctx context.Context, deviceID uuid.UUID, day model.Day) (*model.BodyWeight, error) {
	const q = `SELECT ` + bodyWeightColumns + ` FROM body_weights
	           WHERE device_id = ? AND day = ? AND deleted_at IS NULL`
	return scanBodyWeight(t.tx.QueryRowContext(ctx, q, deviceID.String(), string(day)))
}

// ListBodyWeights returns live weigh-ins, day ascending, optionally
// bounded by an inclusive day range.
func (t *Tx) ListBodyWeights(ctx context.Context, deviceID uuid.UUID, fromDay, toDay model.Day) ([]model.BodyWeight, error) {
	q := `SELECT ` + bodyWeightColumns + ` FROM body_weights
	      WHERE device_id = ? AND deleted_at IS NULL`
	args := []any{deviceID.String()}
	if fromDay != "" {
		q += ` AND day >= ?`
		args = append(args, string(fromDay))
	}
	if toDay != "" {
		q += ` AND day <= ?`
		args = append(args, string(toDay))
	}
	q += ` ORDER BY day ASC`
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BodyWeight, 0)
	for rows.Next() {
		w, err := scanBodyWeight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// UpdateBodyWeight persists the mutable columns of a weigh-in.
func (t *Tx) UpdateBodyWeight(ctx context.Context, w *model.BodyWeight) error {
	const q = `UPDATE body_weights
	           SET weight_kg = ?, updated_at = ?, deleted_at = ?
	           WHERE id = ? AND device_id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		w.WeightKG, w.UpdatedAt.UTC(), timeArg(w.DeletedAt),
		w.ID.String(), w.DeviceID.String())
	return err
}
