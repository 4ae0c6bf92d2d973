package mysql

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

const productColumns = `id, device_id, name, created_at, updated_at, deleted_at`

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		p             model.Product
		idRaw, devRaw string
		deletedAt     sql.NullTime
	)
	if err := row.Scan(&idRaw, &devRaw, &p.Name, &p.CreatedAt, &p.UpdatedAt, &deletedAt); err != nil {
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
	p.ID = id
	p.DeviceID = dev
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.DeletedAt = nullTime(deletedAt)
	return &p, nil
}

// InsertProduct creates a product row.
func (t *Tx) InsertProduct(ctx context.Context, p *model.Product) error {
	const q = `INSERT INTO products (id, device_id, name, created_at, updated_at, deleted_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		p.ID.String(), p.DeviceID.String(), p.Name,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(), timeArg(p.DeletedAt))
	if isDuplicateEntry(err) {
		return store.ErrDuplicate
	}
	return err
}

// GetProduct loads a live product owned by the device.
func (t *Tx) GetProduct(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
	           WHERE id = ? AND device_id = ? AND deleted_at IS NULL`
	return scanProduct(t.tx.QueryRowContext(ctx, q, productID.String(), deviceID.String()))
}

// GetProductForUpdate loads a live product under an exclusive row
// lock.  Every default-flag mutation of the product's portions takes
// this lock first, which serializes the "first portion becomes
// default" decision against concurrent inserts.
func (t *Tx) GetProductForUpdate(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
	           WHERE id = ? AND device_id = ? AND deleted_at IS NULL FOR UPDATE`
	return scanProduct(t.tx.QueryRowContext(ctx, q, productID.String(), deviceID.String()))
}

// ListProducts returns the device's live products, name ascending.
func (t *Tx) ListProducts(ctx context.Context, deviceID uuid.UUID) ([]model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
	           WHERE device_id = ? AND deleted_at IS NULL
	           ORDER BY name ASC`
	rows, err := t.tx.QueryContext(ctx, q, deviceID.String())
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

// UpdateProduct persists the mutable columns of a product.
func (t *Tx) UpdateProduct(ctx context.Context, p *model.Product) error {
	const q = `UPDATE products SET name = ?, updated_at = ?, deleted_at = ?
	           WHERE id = ? AND device_id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		p.Name, p.UpdatedAt.UTC(), timeArg(p.DeletedAt),
		p.ID.String(), p.DeviceID.String())
	return err
}
