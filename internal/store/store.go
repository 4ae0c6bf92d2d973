// Package store defines the relational-store boundary the services
// depend on.  The contract is deliberately narrow: transactional
// begin/commit/rollback, point reads with optional exclusive row
// locking, inserts with duplicate-key detection, and ordered range
// scans over the composite (updated_at, id) key.  The MySQL
// implementation lives in store/mysql; store/memstore provides the
// in-memory implementation used by the service tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/cursor"
	"github.com/Konstantin212/countOnMe/internal/model"
)

var (
	// ErrNotFound is returned for point reads that match no row.
	// Soft-deleted rows and rows owned by another device are
	// reported identically.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned by inserts that violate a uniqueness
	// constraint.
	ErrDuplicate = errors.New("store: duplicate key")
)

// Store opens transactions against the relational store.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single atomic unit of work.  Statements run in program
// order and see earlier statements of the same transaction; nothing
// is visible to other transactions until Commit.  Rollback after
// Commit is a no-op, so callers can unconditionally defer it.
type Tx interface {
	Commit() error
	Rollback() error

	DeviceTx
	ProductTx
	PortionTx
	FoodEntryTx
	BodyWeightTx
	GoalTx
	FeedTx
}

// DeviceTx covers the device identity rows.
type DeviceTx interface {
	// GetDevice loads a device without locking.
	GetDevice(ctx context.Context, id uuid.UUID) (*model.Device, error)
	// GetDeviceForUpdate loads a device holding an exclusive row
	// lock (or a gap lock when the row is absent) until the
	// transaction ends.
	GetDeviceForUpdate(ctx context.Context, id uuid.UUID) (*model.Device, error)
	// InsertDevice creates a device row; ErrDuplicate when the id
	// already exists.
	InsertDevice(ctx context.Context, d *model.Device) error
	// UpdateDeviceDigest overwrites the stored credential digest,
	// invalidating previously issued credentials.
	UpdateDeviceDigest(ctx context.Context, id uuid.UUID, digest string) error
	// TouchDevice advances last_seen_at.
	TouchDevice(ctx context.Context, id uuid.UUID, seenAt time.Time) error
}

// ProductTx covers product rows.  All reads exclude tombstones and
// are scoped to the owning device.
type ProductTx interface {
	InsertProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error)
	// GetProductForUpdate additionally takes an exclusive lock on
	// the product row; this is the serialization point for all
	// portion default-flag mutations.
	GetProductForUpdate(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, deviceID uuid.UUID) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
}

// PortionTx covers portion rows.
type PortionTx interface {
	InsertPortion(ctx context.Context, p *model.Portion) error
	GetPortion(ctx context.Context, deviceID, portionID uuid.UUID) (*model.Portion, error)
	// ListPortions returns the live portions of a product, default
	// first, then label ascending.
	ListPortions(ctx context.Context, deviceID, productID uuid.UUID) ([]model.Portion, error)
	// ClearOtherDefaults unsets is_default on every live sibling of
	// the given portion, advancing their updated_at.
	ClearOtherDefaults(ctx context.Context, deviceID, productID, exceptID uuid.UUID, now time.Time) error
	// EarliestPortionExcept returns the live portion of the product
	// with the earliest created_at (id ascending tie-break),
	// skipping exceptID; ErrNotFound when none remains.
	EarliestPortionExcept(ctx context.Context, deviceID, productID, exceptID uuid.UUID) (*model.Portion, error)
	UpdatePortion(ctx context.Context, p *model.Portion) error
}

// FoodEntryFilter narrows a diary listing.  Zero values are
// ignored; Day wins over the range bounds when both are set.
type FoodEntryFilter struct {
	Day     model.Day
	FromDay model.Day
	ToDay   model.Day
}

// FoodEntryTx covers diary rows.
type FoodEntryTx interface {
	InsertFoodEntry(ctx context.Context, e *model.FoodEntry) error
	GetFoodEntry(ctx context.Context, deviceID, entryID uuid.UUID) (*model.FoodEntry, error)
	// ListFoodEntries returns live entries ordered day descending,
	// then created_at descending.
	ListFoodEntries(ctx context.Context, deviceID uuid.UUID, f FoodEntryFilter) ([]model.FoodEntry, error)
	UpdateFoodEntry(ctx context.Context, e *model.FoodEntry) error
}

// BodyWeightTx covers weigh-in rows.
type BodyWeightTx interface {
	InsertBodyWeight(ctx context.Context, w *model.BodyWeight) error
	GetBodyWeight(ctx context.Context, deviceID, weightID uuid.UUID) (*model.BodyWeight, error)
	GetBodyWeightByDay(ctx context.Context, deviceID uuid.UUID, day model.Day) (*model.BodyWeight, error)
	// ListBodyWeights returns live rows ordered day ascending,
	// optionally bounded by from/to (inclusive, empty = open).
	ListBodyWeights(ctx context.Context, deviceID uuid.UUID, fromDay, toDay model.Day) ([]model.BodyWeight, error)
	UpdateBodyWeight(ctx context.Context, w *model.BodyWeight) error
}

// GoalTx covers goal rows.
type GoalTx interface {
	InsertGoal(ctx context.Context, g *model.Goal) error
	GetGoal(ctx context.Context, deviceID, goalID uuid.UUID) (*model.Goal, error)
	// CurrentGoal returns the newest live goal; ErrNotFound when the
	// device has none.
	CurrentGoal(ctx context.Context, deviceID uuid.UUID) (*model.Goal, error)
	// SoftDeleteGoals tombstones every live goal of the device.
	SoftDeleteGoals(ctx context.Context, deviceID uuid.UUID, at time.Time) error
	UpdateGoal(ctx context.Context, g *model.Goal) error
}

// FeedTx covers the incremental feed scans.  Rows strictly beyond
// the cursor pair are returned in ascending (updated_at, id) order,
// tombstones included, truncated to limit.  A nil cursor scans from
// the beginning of time.
type FeedTx interface {
	ProductsSince(ctx context.Context, deviceID uuid.UUID, c *cursor.Cursor, limit int) ([]model.Product, error)
	PortionsSince(ctx context.Context, deviceID uuid.UUID, c *cursor.Cursor, limit int) ([]model.Portion, error)
	FoodEntriesSince(ctx context.Context, deviceID uuid.UUID, c *cursor.Cursor, limit int) ([]model.FoodEntry, error)
}
