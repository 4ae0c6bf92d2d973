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

// BodyWeights is the weigh-in service.  Its rule: at most one live
// row per device and calendar day.
type BodyWeights struct {
	store store.Store
	now   func() time.Time
}

// NewBodyWeights builds the weigh-in service.
func NewBodyWeights(st store.Store) *BodyWeights {
	return &BodyWeights{store: st, now: time.Now}
}

// Create records a weigh-in for a day.  A second live row for the
// same day fails with ErrConflict; the existing row must be updated
// or deleted instead.
func (s *BodyWeights) Create(ctx context.Context, deviceID uuid.UUID, day model.Day, weightKG decimal.Decimal) (*model.BodyWeight, error) {
	if !day.Valid() {
		return nil, validationf("invalid day %q", day)
	}
	if !weightKG.IsPositive() {
		return nil, validationf("weight must be positive")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.GetBodyWeightByDay(ctx, deviceID, day)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	w := &model.BodyWeight{
		ID:        uuid.New(),
		DeviceID:  deviceID,
		Day:       day,
		WeightKG:  weightKG,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.InsertBodyWeight(ctx, w); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// Get returns a live weigh-in owned by the device.
func (s *BodyWeights) Get(ctx context.Context, deviceID, weightID uuid.UUID) (*model.BodyWeight, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := tx.GetBodyWeight(ctx, deviceID, weightID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, tx.Commit()
}

// List returns live weigh-ins day ascending, optionally bounded by an
// inclusive day range.
func (s *BodyWeights) List(ctx context.Context, deviceID uuid.UUID, fromDay, toDay model.Day) ([]model.BodyWeight, error) {
	if fromDay != "" && !fromDay.Valid() {
		return nil, validationf("invalid day %q", fromDay)
	}
	if toDay != "" && !toDay.Valid() {
		return nil, validationf("invalid day %q", toDay)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out, err := tx.ListBodyWeights(ctx, deviceID, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

// Update changes the weight of an existing weigh-in.  The day is
// immutable; re-weighing another day is a separate row.
func (s *BodyWeights) Update(ctx context.Context, deviceID, weightID uuid.UUID, weightKG decimal.Decimal) (*model.BodyWeight, error) {
	if !weightKG.IsPositive() {
		return nil, validationf("weight must be positive")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := tx.GetBodyWeight(ctx, deviceID, weightID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	w.WeightKG = weightKG
	w.UpdatedAt = s.now().UTC()
	if err := tx.UpdateBodyWeight(ctx, w); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// SoftDelete tombstones a weigh-in, freeing its day for a new row.
func (s *BodyWeights) SoftDelete(ctx context.Context, deviceID, weightID uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	w, err := tx.GetBodyWeight(ctx, deviceID, weightID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	now := s.now().UTC()
	w.DeletedAt = &now
	w.UpdatedAt = now
	if err := tx.UpdateBodyWeight(ctx, w); err != nil {
		return err
	}
	return tx.Commit()
}
