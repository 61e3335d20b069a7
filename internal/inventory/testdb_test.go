package inventory

import (
	"path/filepath"
	"testing"
	"time"

	"pantry-planner/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), 0)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// insertTestPlan seeds a plan row directly; the plan package is not imported
// here to keep the dependency direction plan -> inventory.
func insertTestPlan(t *testing.T, db *database.DB, userID string) int64 {
	t.Helper()
	now := time.Now().UTC()
	res, err := db.SQL.Exec(
		`INSERT INTO weekly_plans (public_id, user_id, week_start, cart_snapshot, status, created_at, updated_at)
		 VALUES (?, ?, ?, '{}', 'planning', ?, ?)`,
		"test-"+userID, userID, "2026-08-31", now, now,
	)
	if err != nil {
		t.Fatalf("Failed to insert test plan: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read plan id: %v", err)
	}
	return id
}
