package assignment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pantry-planner/internal/assignment/assignment_db"
)

// Repository handles persistence of meal assignments.
type Repository struct {
	queries *assignment_db.Queries
	db      *sql.DB
}

// NewRepository creates a new meal assignment repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: assignment_db.New(d),
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

// Get retrieves the assignment for (plan, day). Returns nil when the day is
// unassigned.
func (r *Repository) Get(ctx context.Context, planID int64, day string) (*MealAssignment, error) {
	row, err := r.queries.GetMealAssignment(ctx, assignment_db.GetMealAssignmentParams{
		PlanID:    planID,
		DayOfWeek: day,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment for %s: %w", day, err)
	}
	return assignmentFromRow(row)
}

// ListByPlan retrieves every assignment of a plan.
func (r *Repository) ListByPlan(ctx context.Context, planID int64) ([]MealAssignment, error) {
	rows, err := r.queries.ListMealAssignmentsByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for plan %d: %w", planID, err)
	}
	var assignments []MealAssignment
	for _, row := range rows {
		a, err := assignmentFromRow(row)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, nil
}

// Insert creates a new assignment row and fills in its ID.
func (r *Repository) Insert(ctx context.Context, a *MealAssignment) error {
	ingredientsJSON, err := json.Marshal(a.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal bound ingredients: %w", err)
	}
	meal := string(a.Meal)
	if meal == "" {
		meal = "{}"
	}

	now := time.Now().UTC()
	id, err := r.queries.InsertMealAssignment(ctx, assignment_db.InsertMealAssignmentParams{
		PlanID:      a.PlanID,
		DayOfWeek:   a.Day,
		MealPayload: meal,
		Ingredients: string(ingredientsJSON),
		Status:      string(a.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("failed to insert assignment for %s: %w", a.Day, err)
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// Update rewrites an assignment's meal, bound ingredients, and status.
func (r *Repository) Update(ctx context.Context, a *MealAssignment) error {
	ingredientsJSON, err := json.Marshal(a.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal bound ingredients: %w", err)
	}
	meal := string(a.Meal)
	if meal == "" {
		meal = "{}"
	}

	err = r.queries.UpdateMealAssignment(ctx, assignment_db.UpdateMealAssignmentParams{
		MealPayload: meal,
		Ingredients: string(ingredientsJSON),
		Status:      string(a.Status),
		UpdatedAt:   time.Now().UTC(),
		ID:          a.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to update assignment %d: %w", a.ID, err)
	}
	return nil
}

// UpdateStatus writes a new status without touching the meal or allocation.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	err := r.queries.UpdateMealAssignmentStatus(ctx, assignment_db.UpdateMealAssignmentStatusParams{
		Status:    string(status),
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("failed to update status of assignment %d: %w", id, err)
	}
	return nil
}

// Delete removes an assignment row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.queries.DeleteMealAssignment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assignment %d: %w", id, err)
	}
	return nil
}

// DeleteByPlan removes every assignment belonging to a plan.
func (r *Repository) DeleteByPlan(ctx context.Context, planID int64) error {
	if err := r.queries.DeleteMealAssignmentsByPlan(ctx, planID); err != nil {
		return fmt.Errorf("failed to delete assignments for plan %d: %w", planID, err)
	}
	return nil
}

func assignmentFromRow(row assignment_db.MealAssignment) (*MealAssignment, error) {
	var ingredients []BoundIngredient
	if err := json.Unmarshal([]byte(row.Ingredients), &ingredients); err != nil {
		return nil, fmt.Errorf("corrupt ingredients for assignment %d: %w", row.ID, err)
	}
	return &MealAssignment{
		ID:          row.ID,
		PlanID:      row.PlanID,
		Day:         row.DayOfWeek,
		Meal:        json.RawMessage(row.MealPayload),
		Ingredients: ingredients,
		Status:      Status(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
