package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
	"github.com/Konstantin212/countOnMe/internal/utils"
)

// Identity issues, rotates and verifies device credentials.
type Identity struct {
	store  store.Store
	pepper string
	log    *slog.Logger
	now    func() time.Time
}

// NewIdentity builds the identity service.  The pepper is injected
// here and nowhere else.
func NewIdentity(st store.Store, pepper string, log *slog.Logger) *Identity {
	return &Identity{store: st, pepper: pepper, log: log, now: time.Now}
}

// Register creates the device row on first call and rotates the
// credential on every call.  Idempotent with respect to the row:
// registering the same id twice leaves one device, and only the most
// recently issued credential authenticates.
//
// A concurrent registrant can win the insert between our lock attempt
// and the INSERT; that surfaces as a duplicate-key violation, which
// aborts the transaction.  One retry re-reads the now-existing row
// and rotates its digest instead.
func (s *Identity) Register(ctx context.Context, deviceID uuid.UUID) (string, error) {
	secret, err := utils.NewSecret()
	if err != nil {
		return "", err
	}
	digest := utils.DigestSecret(secret, s.pepper)

	err = s.upsertDigest(ctx, deviceID, digest)
	if errors.Is(err, store.ErrDuplicate) {
		s.log.Debug("registration lost insert race, retrying", "device_id", deviceID)
		err = s.upsertDigest(ctx, deviceID, digest)
		if errors.Is(err, store.ErrDuplicate) {
			return "", ErrRegistrationConflict
		}
	}
	if err != nil {
		return "", err
	}
	return utils.FormatToken(deviceID, secret), nil
}

func (s *Identity) upsertDigest(ctx context.Context, deviceID uuid.UUID, digest string) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.GetDeviceForUpdate(ctx, deviceID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		now := s.now().UTC()
		d := &model.Device{ID: deviceID, TokenDigest: digest, CreatedAt: now, LastSeenAt: now}
		if err := tx.InsertDevice(ctx, d); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := tx.UpdateDeviceDigest(ctx, deviceID, digest); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Authenticate resolves a bearer credential to a device id.  Every
// failure collapses to ErrUnauthorized; only infrastructure errors
// surface with their own identity.  On success the device's last-seen
// timestamp advances, but a failure to persist the touch is logged
// and never fails the authentication.
func (s *Identity) Authenticate(ctx context.Context, credential string) (uuid.UUID, error) {
	deviceID, secret, err := utils.ParseToken(credential)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	d, err := tx.GetDevice(ctx, deviceID)
	if errors.Is(err, store.ErrNotFound) {
		// Burn a digest so an unknown id costs the same as a bad
		// secret.
		utils.DigestSecret(secret, s.pepper)
		return uuid.Nil, ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, err
	}
	if !utils.VerifySecret(secret, s.pepper, d.TokenDigest) {
		return uuid.Nil, ErrUnauthorized
	}

	if err := tx.TouchDevice(ctx, deviceID, s.now()); err != nil {
		s.log.Warn("device touch failed", "device_id", deviceID, "err", err)
		return d.ID, nil
	}
	if err := tx.Commit(); err != nil {
		s.log.Warn("device touch commit failed", "device_id", deviceID, "err", err)
	}
	return d.ID, nil
}
