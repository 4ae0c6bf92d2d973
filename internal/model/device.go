package model

import (
	"time"

	"github.com/google/uuid"
)

// Device is the anonymous principal owning every other record in the
// system.  The id is generated by the client on first install and
// registered with the server; there is no account beyond it.  Only a
// keyed digest of the rotating credential secret is stored; the
// plaintext secret leaves the server exactly once, inside the issued
// token.
//
// Fields:
//
//	ID          – devices.id (client-generated UUID).
//	TokenDigest – devices.token_digest (hex SHA-256 of secret + pepper).
//	CreatedAt   – devices.created_at.
//	LastSeenAt  – devices.last_seen_at, advanced on every successful
//	              authentication.
type Device struct {
	ID          uuid.UUID `json:"id"`
	TokenDigest string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}
