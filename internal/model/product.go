package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a named food item owned by exactly one device.  Products
// are never hard-deleted: DeletedAt marks the tombstone so the
// deletion itself replicates through the sync feed.
type Product struct {
	ID        uuid.UUID  `json:"id"`
	DeviceID  uuid.UUID  `json:"-"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Deleted reports whether the row is a tombstone.
func (p *Product) Deleted() bool { return p.DeletedAt != nil }

// ProductPatch carries the optional mutable fields of a product.  A
// nil field leaves the column untouched.
type ProductPatch struct {
	Name *string `json:"name"`
}
