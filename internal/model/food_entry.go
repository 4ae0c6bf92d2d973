package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FoodEntry is a diary line: one portion of one product eaten on a
// calendar day.  The referenced portion must belong to the referenced
// product, enforced on create and on any update that swaps the
// portion.
type FoodEntry struct {
	ID        uuid.UUID       `json:"id"`
	DeviceID  uuid.UUID       `json:"-"`
	ProductID uuid.UUID       `json:"product_id"`
	PortionID uuid.UUID       `json:"portion_id"`
	Day       Day             `json:"day"`
	MealType  MealType        `json:"meal_type"`
	Amount    decimal.Decimal `json:"amount"`
	Unit      Unit            `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at"`
}

// Deleted reports whether the row is a tombstone.
func (e *FoodEntry) Deleted() bool { return e.DeletedAt != nil }

// FoodEntryPatch carries the optional mutable fields of a diary
// entry.  ProductID is deliberately absent: an entry never moves to
// another product, only its portion reference may change.
type FoodEntryPatch struct {
	PortionID *uuid.UUID       `json:"portion_id"`
	Day       *Day             `json:"day"`
	MealType  *MealType        `json:"meal_type"`
	Amount    *decimal.Decimal `json:"amount"`
	Unit      *Unit            `json:"unit"`
}
