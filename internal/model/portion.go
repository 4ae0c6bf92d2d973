package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portion is a serving definition belonging to one product (and
// transitively one device).  Among the non-deleted portions of a
// product at most one carries IsDefault, and exactly one must when
// the product has any live portion at all.  That invariant is owned
// by service.Portions; nothing else may flip the flag.
//
// Fields:
//
//	ID         – product_portions.id.
//	DeviceID   – owning device, immutable after creation.
//	ProductID  – owning product, immutable after creation.
//	Label      – display label ("1 cup", "small bowl").
//	BaseAmount – amount of BaseUnit this portion represents.
//	BaseUnit   – measurement unit of the base amount.
//	Calories   – calories for one portion, fixed-point.
//	Protein    – grams of protein, nullable.
//	Carbs      – grams of carbohydrates, nullable.
//	Fat        – grams of fat, nullable.
//	IsDefault  – whether this is the product's implicit serving.
type Portion struct {
	ID         uuid.UUID           `json:"id"`
	DeviceID   uuid.UUID           `json:"-"`
	ProductID  uuid.UUID           `json:"product_id"`
	Label      string              `json:"label"`
	BaseAmount decimal.Decimal     `json:"base_amount"`
	BaseUnit   Unit                `json:"base_unit"`
	Calories   decimal.Decimal     `json:"calories"`
	Protein    decimal.NullDecimal `json:"protein"`
	Carbs      decimal.NullDecimal `json:"carbs"`
	Fat        decimal.NullDecimal `json:"fat"`
	IsDefault  bool                `json:"is_default"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	DeletedAt  *time.Time          `json:"deleted_at"`
}

// Deleted reports whether the row is a tombstone.
func (p *Portion) Deleted() bool { return p.DeletedAt != nil }

// PortionPatch carries the optional mutable fields of a portion.
// Each pointer is applied field-by-field; IsDefault interacts with
// the single-default invariant (see service.Portions.Update).
type PortionPatch struct {
	Label      *string              `json:"label"`
	BaseAmount *decimal.Decimal     `json:"base_amount"`
	BaseUnit   *Unit                `json:"base_unit"`
	Calories   *decimal.Decimal     `json:"calories"`
	Protein    *decimal.NullDecimal `json:"protein"`
	Carbs      *decimal.NullDecimal `json:"carbs"`
	Fat        *decimal.NullDecimal `json:"fat"`
	IsDefault  *bool                `json:"is_default"`
}
