package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

const portionColumns = `id, device_id, product_id, label, base_amount, base_unit,
	calories, protein, carbs, fat, is_default, created_at, updated_at, deleted_at`

func scanPortion(row rowScanner) (*model.Portion, error) {
	var (
		p                      model.Portion
		idRaw, devRaw, prodRaw string
		unitRaw                string
		deletedAt              sql.NullTime
	)
	if err := row.Scan(
		&idRaw, &devRaw, &prodRaw, &p.Label, &p.BaseAmount, &unitRaw,
		&p.Calories, &p.Protein, &p.Carbs, &p.Fat, &p.IsDefault,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, noRows(err)
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, err
	}
	dev, err := uuid.Parse(devRaw)
	if err != nil {
		return nil, err
	}
	prod, err := uuid.Parse(prodRaw)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.DeviceID = dev
	p.ProductID = prod
	p.BaseUnit = model.Unit(unitRaw)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.DeletedAt = nullTime(deletedAt)
	return &p, nil
}

// InsertPortion creates a portion row.
func (t *Tx) InsertPortion(ctx context.Context, p *model.Portion) error {
	const q = `INSERT INTO product_portions
	           (id, device_id, product_id, label, base_amount, base_unit,
	            calories, protein, carbs, fat, is_default, created_at, updated_at, deleted_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		p.ID.String(), p.DeviceID.String(), p.ProductID.String(),
		p.Label, p.BaseAmount, string(p.BaseUnit),
		p.Calories, p.Protein, p.Carbs, p.Fat, p.IsDefault,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(), timeArg(p.DeletedAt))
	if isDuplicateEntry(err) {
		return store.ErrDuplicate
	}
	return err
}

// GetPortion loads a live portion owned by the device.
func (t *Tx) GetPortion(ctx context.Context, deviceID, portionID uuid.UUID) (*model.Portion, error) {
	const q = `SELECT ` + portionColumns + ` FROM product_portions
	           WHERE id = ? AND device_id = ? AND deleted_at IS NULL`
	return scanPortion(t.tx.QueryRowContext(ctx, q, portionID.String(), deviceID.String()))
}

// ListPortions returns the live portions of a product, default
// first, then label ascending.
func (t *Tx) ListPortions(ctx context.Context, deviceID, productID uuid.UUID) ([]model.Portion, error) {
	const q = `SELECT ` + portionColumns + ` FROM product_portions
	           WHERE device_id = ? AND product_id = ? AND deleted_at IS NULL
	           ORDER BY is_default DESC, label ASC`
	rows, err := t.tx.QueryContext(ctx, q, deviceID.String(), productID.String())
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

// ClearOtherDefaults unsets is_default on the live siblings of a
// portion.  updated_at advances so the change replicates through the
// sync feed.
func (t *Tx) ClearOtherDefaults(ctx context.Context, deviceID, productID, exceptID uuid.UUID, now time.Time) error {
	const q = `UPDATE product_portions
	           SET is_default = FALSE, updated_at = ?
	           WHERE device_id = ? AND product_id = ? AND id <> ?
	             AND deleted_at IS NULL AND is_default = TRUE`
	_, err := t.tx.ExecContext(ctx, q, now.UTC(), deviceID.String(), productID.String(), exceptID.String())
	return err
}

// EarliestPortionExcept returns the replacement candidate when a
// default portion is deleted: the oldest live sibling, id ascending
// on identical creation times.
func (t *Tx) EarliestPortionExcept(ctx context.Context, deviceID, productID, exceptID uuid.UUID) (*model.Portion, error) {
	const q = `SELECT ` + portionColumns + ` FROM product_portions
	           WHERE device_id = ? AND product_id = ? AND id <> ? AND deleted_at IS NULL
	           ORDER BY created_at ASC, id ASC
	           LIMIT 1`
	return scanPortion(t.tx.QueryRowContext(ctx, q, deviceID.String(), productID.String(), exceptID.String()))
}

// UpdatePortion persists the mutable columns of a portion.
func (t *Tx) UpdatePortion(ctx context.Context, p *model.Portion) error {
	const q = `UPDATE product_portions
	           SET label = ?, base_amount = ?, base_unit = ?, calories = ?,
	               protein = ?, carbs = ?, fat = ?, is_default = ?,
	               updated_at = ?, deleted_at = ?
	           WHERE id = ? AND device_id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		p.Label, p.BaseAmount, string(p.BaseUnit), p.Calories,
		p.Protein, p.Carbs, p.Fat, p.IsDefault,
		p.UpdatedAt.UTC(), timeArg(p.DeletedAt),
		p.ID.String(), p.DeviceID.String())
	return err
}
