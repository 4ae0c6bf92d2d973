// Package cursor implements the opaque position marker of the
// incremental sync feed.  A cursor is a (timestamp, id) pair encoded
// as "RFC3339Nano|uuid".  Pairs are totally ordered: the timestamp
// is compared first and equal timestamps fall back to byte order of
// the UUID, so rows written in the same instant still have a stable
// feed position.
package cursor

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cursor is a feed position: every row with a (updated_at, id) pair
// lexicographically greater than the cursor has not been seen yet.
type Cursor struct {
	UpdatedAt time.Time
	ID        uuid.UUID
}

// Parse decodes an encoded cursor.  The empty string decodes to nil,
// meaning "from the beginning of time".
func Parse(raw string) (*Cursor, error) {
	if raw == "" {
		return nil, nil
	}
	tsRaw, idRaw, ok := strings.Cut(raw, "|")
	if !ok {
		return nil, fmt.Errorf("cursor %q: missing separator", raw)
	}
	ts, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{UpdatedAt: ts.UTC(), ID: id}, nil
}

// String encodes the cursor in the wire format accepted by Parse.
func (c Cursor) String() string {
	return c.UpdatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
}

// Compare orders two pairs: -1 when c < other, 0 when equal, +1 when
// c > other.  Timestamp first, UUID bytes as tie-break.
func (c Cursor) Compare(other Cursor) int {
	if c.UpdatedAt.Before(other.UpdatedAt) {
		return -1
	}
	if c.UpdatedAt.After(other.UpdatedAt) {
		return 1
	}
	return bytes.Compare(c.ID[:], other.ID[:])
}

// Less reports whether c orders strictly before other.
func (c Cursor) Less(other Cursor) bool { return c.Compare(other) < 0 }

// After reports whether the row pair (updatedAt, id) lies strictly
// beyond the cursor, i.e. the row is unseen.
func (c Cursor) After(updatedAt time.Time, id uuid.UUID) bool {
	return c.Less(Cursor{UpdatedAt: updatedAt, ID: id})
}

// Max returns the greater of two cursors.
func Max(a, b Cursor) Cursor {
	if a.Less(b) {
		return b
	}
	return a
}

// Min returns the lesser of two cursors.
func Min(a, b Cursor) Cursor {
	if b.Less(a) {
		return b
	}
	return a
}
