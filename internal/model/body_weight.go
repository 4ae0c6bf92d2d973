package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BodyWeight is a single weigh-in.  At most one non-deleted row may
// exist per device and day.
type BodyWeight struct {
	ID        uuid.UUID       `json:"id"`
	DeviceID  uuid.UUID       `json:"-"`
	Day       Day             `json:"day"`
	WeightKG  decimal.Decimal `json:"weight_kg"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at"`
}

// Deleted reports whether the row is a tombstone.
func (w *BodyWeight) Deleted() bool { return w.DeletedAt != nil }
