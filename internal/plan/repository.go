package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pantry-planner/internal/plan/plan_db"
)

const weekStartLayout = "2006-01-02"

// Repository handles persistence of weekly plans.
type Repository struct {
	queries *plan_db.Queries
	db      *sql.DB
}

// NewRepository creates a new weekly plan repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: plan_db.New(d),
		db:      d,
	}
}

// WithTx returns a repository whose operations run on the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
	}
}

// Insert creates a new plan row and fills in its ID.
func (r *Repository) Insert(ctx context.Context, p *WeeklyPlan) error {
	now := time.Now().UTC()
	snapshot := string(p.CartSnapshot)
	if snapshot == "" {
		snapshot = "{}"
	}
	id, err := r.queries.InsertWeeklyPlan(ctx, plan_db.InsertWeeklyPlanParams{
		PublicID:     p.PublicID,
		UserID:       p.UserID,
		WeekStart:    p.WeekStart.Format(weekStartLayout),
		CartSnapshot: snapshot,
		Status:       string(p.Status),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("failed to insert weekly plan: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Get retrieves a plan by its internal ID. Returns nil when no plan exists.
func (r *Repository) Get(ctx context.Context, id int64) (*WeeklyPlan, error) {
	row, err := r.queries.GetWeeklyPlan(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan %d: %w", id, err)
	}
	return planFromRow(row)
}

// GetByPublicID retrieves a plan by its caller-facing identifier.
func (r *Repository) GetByPublicID(ctx context.Context, publicID string) (*WeeklyPlan, error) {
	row, err := r.queries.GetWeeklyPlanByPublicID(ctx, publicID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan %q: %w", publicID, err)
	}
	return planFromRow(row)
}

// GetByUserAndWeek retrieves the plan for a (user, week-start) pair.
func (r *Repository) GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*WeeklyPlan, error) {
	row, err := r.queries.GetWeeklyPlanByUserAndWeek(ctx, plan_db.GetWeeklyPlanByUserAndWeekParams{
		UserID:    userID,
		WeekStart: weekStart.Format(weekStartLayout),
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan for user %s: %w", userID, err)
	}
	return planFromRow(row)
}

// ListByUser retrieves every plan for a user, most recent week first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]WeeklyPlan, error) {
	rows, err := r.queries.ListWeeklyPlansByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans for user %s: %w", userID, err)
	}
	var plans []WeeklyPlan
	for _, row := range rows {
		p, err := planFromRow(row)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, nil
}

// UpdateStatus writes a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	err := r.queries.UpdateWeeklyPlanStatus(ctx, plan_db.UpdateWeeklyPlanStatusParams{
		Status:    string(status),
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("failed to update status of plan %d: %w", id, err)
	}
	return nil
}

// UpdateCartSnapshot stores the raw cart payload most recently ingested.
func (r *Repository) UpdateCartSnapshot(ctx context.Context, id int64, snapshot json.RawMessage) error {
	err := r.queries.UpdateWeeklyPlanCartSnapshot(ctx, plan_db.UpdateWeeklyPlanCartSnapshotParams{
		CartSnapshot: string(snapshot),
		UpdatedAt:    time.Now().UTC(),
		ID:           id,
	})
	if err != nil {
		return fmt.Errorf("failed to update cart snapshot of plan %d: %w", id, err)
	}
	return nil
}

// Delete removes a plan row. Dependent rows are the lifecycle manager's
// responsibility.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.queries.DeleteWeeklyPlan(ctx, id); err != nil {
		return fmt.Errorf("failed to delete plan %d: %w", id, err)
	}
	return nil
}

func planFromRow(row plan_db.WeeklyPlan) (*WeeklyPlan, error) {
	weekStart, err := time.Parse(weekStartLayout, row.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("corrupt week_start %q for plan %d: %w", row.WeekStart, row.ID, err)
	}
	return &WeeklyPlan{
		ID:           row.ID,
		PublicID:     row.PublicID,
		UserID:       row.UserID,
		WeekStart:    weekStart,
		CartSnapshot: json.RawMessage(row.CartSnapshot),
		Status:       Status(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
