package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

const deviceColumns = `id, token_digest, created_at, last_seen_at`

func scanDevice(row rowScanner) (*model.Device, error) {
	var (
		d     model.Device
		idRaw string
	)
	if err := row.Scan(&idRaw, &d.TokenDigest, &d.CreatedAt, &d.LastSeenAt); err != nil {
		return nil, noRows(err)
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, err
	}
	d.ID = id
	d.CreatedAt = d.CreatedAt.UTC()
	d.LastSeenAt = d.LastSeenAt.UTC()
	return &d, nil
}

// GetDevice loads a device row without locking.
func (t *Tx) GetDevice(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	const q = `SELECT ` + deviceColumns + ` FROM devices WHERE id = ?`
	return scanDevice(t.tx.QueryRowContext(ctx, q, id.String()))
}

// GetDeviceForUpdate loads a device row under an exclusive lock.
// When the row is absent the gap is locked instead, which is what
// closes the check-then-insert window during registration.
func (t *Tx) GetDeviceForUpdate(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	const q = `SELECT ` + deviceColumns + ` FROM devices WHERE id = ? FOR UPDATE`
	return scanDevice(t.tx.QueryRowContext(ctx, q, id.String()))
}

// InsertDevice creates a device row, translating a primary-key
// collision from a concurrent registrant into store.ErrDuplicate.
func (t *Tx) InsertDevice(ctx context.Context, d *model.Device) error {
	const q = `INSERT INTO devices (id, token_digest, created_at, last_seen_at) VALUES (?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q, d.ID.String(), d.TokenDigest, d.CreatedAt.UTC(), d.LastSeenAt.UTC())
	if isDuplicateEntry(err) {
		return store.ErrDuplicate
	}
	return err
}

// UpdateDeviceDigest rotates the stored credential digest.
func (t *Tx) UpdateDeviceDigest(ctx context.Context, id uuid.UUID, digest string) error {
	const q = `UPDATE devices SET token_digest = ? WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, digest, id.String())
	return err
}

// TouchDevice advances the liveness timestamp.
func (t *Tx) TouchDevice(ctx context.Context, id uuid.UUID, seenAt time.Time) error {
	const q = `UPDATE devices SET last_seen_at = ? WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, seenAt.UTC(), id.String())
	return err
}
