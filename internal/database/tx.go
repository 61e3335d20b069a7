package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBusy is returned when a transaction could not acquire the write lock
// within the configured number of attempts.
var ErrBusy = errors.New("database busy")

const (
	defaultTxAttempts = 4
	baseRetryDelay    = 25 * time.Millisecond
)

// RunInTx executes fn inside a transaction, committing on a nil return and
// rolling back otherwise. Lock contention is retried with exponential
// backoff; once attempts are exhausted the caller sees ErrBusy. fn may run
// more than once and must not carry state across attempts.
func (d *DB) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < d.txAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrBusy, lastErr)
}

func (d *DB) runOnce(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isBusy reports whether err is a SQLite lock-contention error.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
