package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

// Portions owns the single-default invariant: among the live portions
// of a product, exactly one is default whenever any live portion
// exists, and never two after a commit.  Every mutation locks the
// owning product row before evaluating sibling state, which
// serializes the "is this the first portion" decision and the default
// handover against concurrent calls on the same product.
type Portions struct {
	store store.Store
	now   func() time.Time
}

// NewPortions builds the portion service.
func NewPortions(st store.Store) *Portions {
	return &Portions{store: st, now: time.Now}
}

// CreatePortionInput carries the fields of a new portion.  ID may be
// client-supplied; uuid.Nil means "generate one".
type CreatePortionInput struct {
	ID         uuid.UUID
	Label      string
	BaseAmount decimal.Decimal
	BaseUnit   model.Unit
	Calories   decimal.Decimal
	Protein    decimal.NullDecimal
	Carbs      decimal.NullDecimal
	Fat        decimal.NullDecimal
	IsDefault  bool
}

func (in *CreatePortionInput) validate() error {
	if strings.TrimSpace(in.Label) == "" {
		return validationf("portion label must not be empty")
	}
	if !in.BaseAmount.IsPositive() {
		return validationf("base amount must be positive")
	}
	if !in.BaseUnit.Valid() {
		return validationf("unknown unit %q", in.BaseUnit)
	}
	if in.Calories.IsNegative() {
		return validationf("calories must not be negative")
	}
	for _, m := range []decimal.NullDecimal{in.Protein, in.Carbs, in.Fat} {
		if m.Valid && m.Decimal.IsNegative() {
			return validationf("macros must not be negative")
		}
	}
	return nil
}

// Create adds a portion to a product the device owns.  The first live
// portion of a product is forced default regardless of the request;
// otherwise the requested flag is honored, clearing live siblings in
// the same transaction when it is true.
func (s *Portions) Create(ctx context.Context, deviceID, productID uuid.UUID, in CreatePortionInput) (*model.Portion, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.GetProductForUpdate(ctx, deviceID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	siblings, err := tx.ListPortions(ctx, deviceID, productID)
	if err != nil {
		return nil, err
	}

	isDefault := in.IsDefault
	if len(siblings) == 0 {
		isDefault = true
	}

	now := s.now().UTC()
	p := &model.Portion{
		ID:         id,
		DeviceID:   deviceID,
		ProductID:  productID,
		Label:      strings.TrimSpace(in.Label),
		BaseAmount: in.BaseAmount,
		BaseUnit:   in.BaseUnit,
		Calories:   in.Calories,
		Protein:    in.Protein,
		Carbs:      in.Carbs,
		Fat:        in.Fat,
		IsDefault:  isDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.InsertPortion(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if isDefault && len(siblings) > 0 {
		if err := tx.ClearOtherDefaults(ctx, deviceID, productID, p.ID, now); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a live portion owned by the device.
func (s *Portions) Get(ctx context.Context, deviceID, portionID uuid.UUID) (*model.Portion, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := tx.GetPortion(ctx, deviceID, portionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, tx.Commit()
}

// List returns the live portions of a product, default first, then
// label ascending.
func (s *Portions) List(ctx context.Context, deviceID, productID uuid.UUID) ([]model.Portion, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.GetProduct(ctx, deviceID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out, err := tx.ListPortions(ctx, deviceID, productID)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

// Update applies a patch to a live portion.  Unsetting the flag on
// the current default fails with ErrDefaultConflict: a replacement
// must be nominated by setting another portion default first.
// Setting the flag clears live siblings in the same transaction.
func (s *Portions) Update(ctx context.Context, deviceID, portionID uuid.UUID, patch model.PortionPatch) (*model.Portion, error) {
	if patch.Label != nil && strings.TrimSpace(*patch.Label) == "" {
		return nil, validationf("portion label must not be empty")
	}
	if patch.BaseAmount != nil && !patch.BaseAmount.IsPositive() {
		return nil, validationf("base amount must be positive")
	}
	if patch.BaseUnit != nil && !patch.BaseUnit.Valid() {
		return nil, validationf("unknown unit %q", *patch.BaseUnit)
	}
	if patch.Calories != nil && patch.Calories.IsNegative() {
		return nil, validationf("calories must not be negative")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := tx.GetPortion(ctx, deviceID, portionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := tx.GetProductForUpdate(ctx, deviceID, p.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The first read only located the product and ran before the
	// lock; a concurrent default handover may have committed in
	// between.  Flag decisions and the write-back must use the state
	// visible under the lock.
	p, err = tx.GetPortion(ctx, deviceID, portionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.IsDefault != nil && !*patch.IsDefault && p.IsDefault {
		return nil, ErrDefaultConflict
	}

	if patch.Label != nil {
		p.Label = strings.TrimSpace(*patch.Label)
	}
	if patch.BaseAmount != nil {
		p.BaseAmount = *patch.BaseAmount
	}
	if patch.BaseUnit != nil {
		p.BaseUnit = *patch.BaseUnit
	}
	if patch.Calories != nil {
		p.Calories = *patch.Calories
	}
	if patch.Protein != nil {
		p.Protein = *patch.Protein
	}
	if patch.Carbs != nil {
		p.Carbs = *patch.Carbs
	}
	if patch.Fat != nil {
		p.Fat = *patch.Fat
	}

	now := s.now().UTC()
	if patch.IsDefault != nil && *patch.IsDefault && !p.IsDefault {
		p.IsDefault = true
		if err := tx.ClearOtherDefaults(ctx, deviceID, p.ProductID, p.ID, now); err != nil {
			return nil, err
		}
	}
	p.UpdatedAt = now
	if err := tx.UpdatePortion(ctx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// SoftDelete tombstones a portion.  Deleting the default promotes the
// oldest live sibling in the same transaction; with no sibling the
// delete fails with ErrDefaultConflict, so a product that ever had a
// default never reaches zero live portions through this path.
func (s *Portions) SoftDelete(ctx context.Context, deviceID, portionID uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p, err := tx.GetPortion(ctx, deviceID, portionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.GetProductForUpdate(ctx, deviceID, p.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Re-read under the product lock; the unlocked read may predate a
	// concurrent handover that made this portion the default.
	p, err = tx.GetPortion(ctx, deviceID, portionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	now := s.now().UTC()
	if p.IsDefault {
		repl, err := tx.EarliestPortionExcept(ctx, deviceID, p.ProductID, p.ID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrDefaultConflict
		}
		if err != nil {
			return err
		}
		repl.IsDefault = true
		repl.UpdatedAt = now
		if err := tx.UpdatePortion(ctx, repl); err != nil {
			return err
		}
	}

	p.IsDefault = false
	p.DeletedAt = &now
	p.UpdatedAt = now
	if err := tx.UpdatePortion(ctx, p); err != nil {
		return err
	}
	return tx.Commit()
}
