package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), 0)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsCreateSchema(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"weekly_plans", "ingredient_pool_entries", "meal_assignments", "engine_metrics"} {
		var name string
		err := db.SQL.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s after migrations: %v", table, err)
		}
	}
}

func TestRunInTxCommit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.RunInTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO engine_metrics (operation, outcome, latency_ms, recorded_at)
			 VALUES ('test_op', 'ok', 1, CURRENT_TIMESTAMP)`)
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx failed: %v", err)
	}

	var count int
	if err := db.SQL.QueryRow("SELECT COUNT(*) FROM engine_metrics").Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 committed row, got %d", count)
	}
}

func TestRunInTxRollback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.RunInTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT INTO engine_metrics (operation, outcome, latency_ms, recorded_at)
			 VALUES ('test_op', 'ok', 1, CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the callback error back, got %v", err)
	}

	var count int
	if err := db.SQL.QueryRow("SELECT COUNT(*) FROM engine_metrics").Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected rollback to discard the row, got %d rows", count)
	}
}

func TestRunInTxDoesNotRetryLogicErrors(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	calls := 0
	_ = db.RunInTx(ctx, func(tx *sql.Tx) error {
		calls++
		return errors.New("not a lock error")
	})
	if calls != 1 {
		t.Errorf("Expected exactly one attempt for a non-busy error, got %d", calls)
	}
}
