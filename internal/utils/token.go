package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Device credentials are opaque bearer tokens of the form
// "<device-uuid>.<secret>".  The secret is 32 bytes of CSPRNG output
// and is stored server-side only as a peppered SHA-256 digest.  A
// slow hash is unnecessary here: the secret is already uniformly
// random, the pepper defends the digest table against offline
// guessing of short inputs.

// ErrMalformedToken is returned when a credential cannot be split
// into a device id and a secret.
var ErrMalformedToken = errors.New("malformed device token")

const secretBytes = 32

// NewSecret returns a fresh URL-safe random secret.
func NewSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DigestSecret computes the hex digest stored for a secret:
// SHA-256 over "<secret>.<pepper>".
func DigestSecret(secret, pepper string) string {
	sum := sha256.Sum256([]byte(secret + "." + pepper))
	return hex.EncodeToString(sum[:])
}

// VerifySecret reports whether secret matches the stored digest.
// The comparison is constant-time so verification leaks no timing
// information about the stored value.
func VerifySecret(secret, pepper, digest string) bool {
	computed := DigestSecret(secret, pepper)
	return hmac.Equal([]byte(computed), []byte(digest))
}

// FormatToken assembles the wire credential for a device and secret.
func FormatToken(deviceID uuid.UUID, secret string) string {
	return deviceID.String() + "." + secret
}

// ParseToken splits a wire credential into device id and secret.
// Any malformed input yields ErrMalformedToken; callers must not
// distinguish parse failures from verification failures externally.
func ParseToken(token string) (uuid.UUID, string, error) {
	idRaw, secret, ok := strings.Cut(token, ".")
	if !ok || secret == "" {
		return uuid.Nil, "", ErrMalformedToken
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return uuid.Nil, "", ErrMalformedToken
	}
	return id, secret, nil
}
