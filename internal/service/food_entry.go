package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

// FoodEntries is the diary service.  Its single referential rule: the
// referenced portion must belong to the referenced product, checked
// on create and on every update that swaps the portion.
type FoodEntries struct {
	store store.Store
	now   func() time.Time
}

// NewFoodEntries builds the diary service.
func NewFoodEntries(st store.Store) *FoodEntries {
	return &FoodEntries{store: st, now: time.Now}
}

// CreateFoodEntryInput carries the fields of a new diary entry.
type CreateFoodEntryInput struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	PortionID uuid.UUID
	Day       model.Day
	MealType  model.MealType
	Amount    decimal.Decimal
	Unit      model.Unit
}

func (in *CreateFoodEntryInput) validate() error {
	if !in.Day.Valid() {
		return validationf("invalid day %q", in.Day)
	}
	if !in.MealType.Valid() {
		return validationf("unknown meal type %q", in.MealType)
	}
	if !in.Amount.IsPositive() {
		return validationf("amount must be positive")
	}
	if !in.Unit.Valid() {
		return validationf("unknown unit %q", in.Unit)
	}
	return nil
}

// Create adds a diary entry after checking product ownership and the
// portion-product match.
func (s *FoodEntries) Create(ctx context.Context, deviceID uuid.UUID, in CreateFoodEntryInput) (*model.FoodEntry, error) {
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

	if _, err := tx.GetProduct(ctx, deviceID, in.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	portion, err := tx.GetPortion(ctx, deviceID, in.PortionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if portion.ProductID != in.ProductID {
		return nil, validationf("portion %s does not belong to product %s", in.PortionID, in.ProductID)
	}

	now := s.now().UTC()
	e := &model.FoodEntry{
		ID:        id,
		DeviceID:  deviceID,
		ProductID: in.ProductID,
		PortionID: in.PortionID,
		Day:       in.Day,
		MealType:  in.MealType,
		Amount:    in.Amount,
		Unit:      in.Unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.InsertFoodEntry(ctx, e); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns a live diary entry owned by the device.
func (s *FoodEntries) Get(ctx context.Context, deviceID, entryID uuid.UUID) (*model.FoodEntry, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e, err := tx.GetFoodEntry(ctx, deviceID, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, tx.Commit()
}

// List returns live diary entries, day descending then created_at
// descending, optionally filtered by day or an inclusive range.
func (s *FoodEntries) List(ctx context.Context, deviceID uuid.UUID, f store.FoodEntryFilter) ([]model.FoodEntry, error) {
	if f.Day != "" && !f.Day.Valid() {
		return nil, validationf("invalid day %q", f.Day)
	}
	if f.FromDay != "" && !f.FromDay.Valid() {
		return nil, validationf("invalid day %q", f.FromDay)
	}
	if f.ToDay != "" && !f.ToDay.Valid() {
		return nil, validationf("invalid day %q", f.ToDay)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out, err := tx.ListFoodEntries(ctx, deviceID, f)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

// Update applies a patch to a live diary entry.  Swapping the portion
// re-checks the portion-product match against the entry's product.
func (s *FoodEntries) Update(ctx context.Context, deviceID, entryID uuid.UUID, patch model.FoodEntryPatch) (*model.FoodEntry, error) {
	if patch.Day != nil && !patch.Day.Valid() {
		return nil, validationf("invalid day %q", *patch.Day)
	}
	if patch.MealType != nil && !patch.MealType.Valid() {
		return nil, validationf("unknown meal type %q", *patch.MealType)
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, validationf("amount must be positive")
	}
	if patch.Unit != nil && !patch.Unit.Valid() {
		return nil, validationf("unknown unit %q", *patch.Unit)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e, err := tx.GetFoodEntry(ctx, deviceID, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.PortionID != nil && *patch.PortionID != e.PortionID {
		portion, err := tx.GetPortion(ctx, deviceID, *patch.PortionID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if portion.ProductID != e.ProductID {
			return nil, validationf("portion %s does not belong to product %s", portion.ID, e.ProductID)
		}
		e.PortionID = portion.ID
	}
	if patch.Day != nil {
		e.Day = *patch.Day
	}
	if patch.MealType != nil {
		e.MealType = *patch.MealType
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Unit != nil {
		e.Unit = *patch.Unit
	}
	e.UpdatedAt = s.now().UTC()
	if err := tx.UpdateFoodEntry(ctx, e); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

// SoftDelete tombstones a diary entry.
func (s *FoodEntries) SoftDelete(ctx context.Context, deviceID, entryID uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	e, err := tx.GetFoodEntry(ctx, deviceID, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	now := s.now().UTC()
	e.DeletedAt = &now
	e.UpdatedAt = now
	if err := tx.UpdateFoodEntry(ctx, e); err != nil {
		return err
	}
	return tx.Commit()
}
