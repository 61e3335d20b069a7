package plan

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"pantry-planner/internal/assignment"
	"pantry-planner/internal/cart"
	"pantry-planner/internal/database"
	"pantry-planner/internal/inventory"
)

// Lifecycle owns creation, status transitions, and deletion of weekly plans,
// including the cascading cleanup of pool entries and meal assignments.
type Lifecycle struct {
	db          *database.DB
	plans       *Repository
	pool        *inventory.Repository
	assignments *assignment.Repository
	aggregator  *inventory.Aggregator
}

// NewLifecycle creates a new Lifecycle manager.
func NewLifecycle(
	db *database.DB,
	plans *Repository,
	pool *inventory.Repository,
	assignments *assignment.Repository,
	aggregator *inventory.Aggregator,
) *Lifecycle {
	return &Lifecycle{
		db:          db,
		plans:       plans,
		pool:        pool,
		assignments: assignments,
		aggregator:  aggregator,
	}
}

// CreateResult carries the created plan together with the soft findings of
// the initial cart ingestion.
type CreateResult struct {
	Plan       *WeeklyPlan
	Warnings   []cart.RecordWarning
	PoolReport *inventory.Report
}

// Create starts planning a week: it inserts the plan in planning status and
// runs the aggregator in replace mode over the decomposed cart, all in one
// transaction. A plan already existing for (user, week) fails with
// ErrDuplicatePlan.
func (l *Lifecycle) Create(ctx context.Context, userID string, weekStart time.Time, cartJSON []byte) (*CreateResult, error) {
	decomposer, err := cart.NewDecomposer(cartJSON)
	if err != nil {
		return nil, err
	}
	refs, warnings := decomposer.Refs()
	for _, w := range warnings {
		log.Printf("Cart warning for user %s: %s", userID, w)
	}

	p := &WeeklyPlan{
		PublicID:     uuid.NewString(),
		UserID:       userID,
		WeekStart:    weekStart,
		CartSnapshot: cartJSON,
		Status:       StatusPlanning,
	}

	var report *inventory.Report
	err = l.db.RunInTx(ctx, func(tx *sql.Tx) error {
		plans := l.plans.WithTx(tx)

		existing, err := plans.GetByUserAndWeek(ctx, userID, weekStart)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicatePlan
		}

		if err := plans.Insert(ctx, p); err != nil {
			// The UNIQUE(user_id, week_start) constraint backstops the
			// read-then-insert race between two sessions.
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return ErrDuplicatePlan
			}
			return err
		}

		report, err = l.aggregator.WithTx(tx).Aggregate(ctx, p.ID, refs, inventory.ModeReplace)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CreateResult{Plan: p, Warnings: warnings, PoolReport: report}, nil
}

// IngestCart re-ingests cart data for an existing plan, storing the new
// snapshot and aggregating in the requested mode within one transaction.
func (l *Lifecycle) IngestCart(ctx context.Context, planID int64, cartJSON []byte, mode inventory.Mode) (*CreateResult, error) {
	decomposer, err := cart.NewDecomposer(cartJSON)
	if err != nil {
		return nil, err
	}
	refs, warnings := decomposer.Refs()

	var (
		p      *WeeklyPlan
		report *inventory.Report
	)
	err = l.db.RunInTx(ctx, func(tx *sql.Tx) error {
		plans := l.plans.WithTx(tx)

		p, err = plans.Get(ctx, planID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("plan %d: %w", planID, ErrPlanNotFound)
		}

		if err := plans.UpdateCartSnapshot(ctx, planID, cartJSON); err != nil {
			return err
		}

		report, err = l.aggregator.WithTx(tx).Aggregate(ctx, planID, refs, mode)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.CartSnapshot = cartJSON
	return &CreateResult{Plan: p, Warnings: warnings, PoolReport: report}, nil
}

// Transition advances a plan's status. Only the forward transitions
// planning -> complete -> archived are accepted.
func (l *Lifecycle) Transition(ctx context.Context, planID int64, next Status) error {
	return l.db.RunInTx(ctx, func(tx *sql.Tx) error {
		plans := l.plans.WithTx(tx)

		p, err := plans.Get(ctx, planID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("plan %d: %w", planID, ErrPlanNotFound)
		}
		if !canTransition(p.Status, next) {
			return &InvalidTransitionError{From: p.Status, To: next}
		}
		return plans.UpdateStatus(ctx, planID, next)
	})
}

// Delete removes a plan and everything it owns. Dependent rows go first so a
// committed delete can never leave orphaned inventory or assignments.
func (l *Lifecycle) Delete(ctx context.Context, planID int64) error {
	return l.db.RunInTx(ctx, func(tx *sql.Tx) error {
		plans := l.plans.WithTx(tx)

		p, err := plans.Get(ctx, planID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("plan %d: %w", planID, ErrPlanNotFound)
		}

		if err := l.assignments.WithTx(tx).DeleteByPlan(ctx, planID); err != nil {
			return err
		}
		if err := l.pool.WithTx(tx).DeleteByPlan(ctx, planID); err != nil {
			return err
		}
		return plans.Delete(ctx, planID)
	})
}
