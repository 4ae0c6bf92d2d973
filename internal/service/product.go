package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

// Products is the product CRUD service.  No invariant lives here
// beyond ownership scoping and the advancing updated_at.
type Products struct {
	store store.Store
	now   func() time.Time
}

// NewProducts builds the product service.
func NewProducts(st store.Store) *Products {
	return &Products{store: st, now: time.Now}
}

// Create stores a new product.  The id may be supplied by the client
// (devices generate ids offline); uuid.Nil means "generate one".
func (s *Products) Create(ctx context.Context, deviceID, id uuid.UUID, name string) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("product name must not be empty")
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := s.now().UTC()
	p := &model.Product{ID: id, DeviceID: deviceID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := tx.InsertProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a live product owned by the device.
func (s *Products) Get(ctx context.Context, deviceID, productID uuid.UUID) (*model.Product, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := tx.GetProduct(ctx, deviceID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, tx.Commit()
}

// List returns the device's live products, name ascending.
func (s *Products) List(ctx context.Context, deviceID uuid.UUID) ([]model.Product, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out, err := tx.ListProducts(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

// Update applies a patch to a live product.
func (s *Products) Update(ctx context.Context, deviceID, productID uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, validationf("product name must not be empty")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := tx.GetProduct(ctx, deviceID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	p.UpdatedAt = s.now().UTC()
	if err := tx.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// SoftDelete tombstones a product.  updated_at advances so the
// deletion replicates through the sync feed.
func (s *Products) SoftDelete(ctx context.Context, deviceID, productID uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p, err := tx.GetProduct(ctx, deviceID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	now := s.now().UTC()
	p.DeletedAt = &now
	p.UpdatedAt = now
	if err := tx.UpdateProduct(ctx, p); err != nil {
		return err
	}
	return tx.Commit()
}
