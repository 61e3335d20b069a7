package metrics

import (
	"context"
	"database/sql"
	"time"

	"pantry-planner/internal/metrics/metrics_db"
)

// Outcomes recorded for engine operations.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// EngineMetric records metadata for a single engine operation.
type EngineMetric struct {
	Operation  string
	PlanID     int64 // 0 when the operation is not tied to a plan
	Outcome    string
	LatencyMS  int64
	RecordedAt time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(m EngineMetric) error {
	ts := m.RecordedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	planID := sql.NullInt64{}
	if m.PlanID != 0 {
		planID = sql.NullInt64{Int64: m.PlanID, Valid: true}
	}

	return s.queries.InsertEngineMetric(context.Background(), metricsdb.InsertEngineMetricParams{
		Operation:  m.Operation,
		PlanID:     planID,
		Outcome:    m.Outcome,
		LatencyMs:  m.LatencyMS,
		RecordedAt: ts,
	})
}

// RecordOutcome times and records a single operation. The error is passed
// through unchanged so call sites can wrap their work in one line.
func (s *Store) RecordOutcome(operation string, planID int64, started time.Time, opErr error) error {
	outcome := OutcomeOK
	if opErr != nil {
		outcome = OutcomeError
	}
	return s.Record(EngineMetric{
		Operation: operation,
		PlanID:    planID,
		Outcome:   outcome,
		LatencyMS: time.Since(started).Milliseconds(),
	})
}

// DailyOperations represents operation totals for a single day.
type DailyOperations struct {
	Date         string
	Operation    string
	Count        int
	AvgLatencyMS float64
}

// GetDailyOperations retrieves per-operation counts for the last N days.
func (s *Store) GetDailyOperations(days int) ([]DailyOperations, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyOperationCounts(context.Background(), since)
	if err != nil {
		return nil, err
	}

	var results []DailyOperations
	for _, r := range rows {
		d := DailyOperations{
			Operation: r.Operation,
			Count:     int(r.Count),
		}

		if day, ok := r.Day.(string); ok {
			d.Date = day
		} else {
			d.Date = "Unknown"
		}

		if r.AvgLatency.Valid {
			d.AvgLatencyMS = r.AvgLatency.Float64
		}

		results = append(results, d)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(olderThanDays int) error {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	return s.queries.CleanupEngineMetrics(context.Background(), threshold)
}
