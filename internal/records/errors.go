package records

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrStoreUnavailable means the database could not be reached. It is never retried.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrForeignKey means a referenced player does not exist.
	ErrForeignKey = errors.New("referenced player does not exist")
	// ErrNoPlayers means an operation needed at least one registered player.
	ErrNoPlayers = errors.New("no players registered")
	// ErrEmptyResult means a query that must return a row returned none.
	ErrEmptyResult = errors.New("query returned no rows")
)

// translate maps driver failures onto the record store's error taxonomy,
// keeping the original error in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	case isConnectionFailure(err):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	// libsql reports constraint failures as plain text over the wire.
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrCantOpen || sqliteErr.Code == sqlite3.ErrNotADB
	}
	return strings.Contains(err.Error(), "sql: database is closed")
}
