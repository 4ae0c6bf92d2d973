// Package mysql implements the store boundary on MySQL via
// database/sql.  All queries use positional placeholders, all
// timestamps are written and read as UTC (the DSN must carry
// parseTime=true&loc=UTC), and uniqueness violations are translated
// to store.ErrDuplicate so callers never inspect driver errors.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/Konstantin212/countOnMe/internal/store"
)

// Store issues transactions against a MySQL database.
type Store struct {
	db *sql.DB
}

// New returns a Store bound to the given database handle.
func New(db *sql.DB) *Store { return &Store{db: db} }

// Begin opens a read-committed transaction.  Explicit FOR UPDATE
// locks on top of read committed are what the registration and
// default-portion races rely on.
func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a live *sql.Tx.  All store.Tx methods are defined on it
// across the per-family files of this package.
type Tx struct {
	tx   *sql.Tx
	done bool
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	t.done = true
	return t.tx.Commit()
}

// Rollback rolls the transaction back; after Commit it is a no-op so
// callers can defer it unconditionally.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// error (code 1062), however deeply wrapped.  Every insert in this
// package runs it so callers see store.ErrDuplicate instead of a
// driver error.
func isDuplicateEntry(err error) bool {
	var me *driver.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// nullTime converts a nullable column to the model's *time.Time.
func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

// timeArg converts a *time.Time back to a nullable column value.
func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// noRows maps sql.ErrNoRows to the store sentinel.
func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
