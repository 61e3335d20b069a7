package app

import (
	"context"
	"errors"
	"log"
	"time"

	"pantry-planner/internal/assignment"
	"pantry-planner/internal/config"
	"pantry-planner/internal/database"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/plan"
	"pantry-planner/internal/suggest"
)

// Operation names recorded in the metrics store.
const (
	opCreatePlan    = "create_plan"
	opIngestCart    = "ingest_cart"
	opAssignDay     = "assign_day"
	opRegenerateDay = "regenerate_day"
	opDeletePlan    = "delete_plan"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	plans        *plan.Repository
	pool         *inventory.Repository
	assignments  *assignment.Repository
	ledger       *inventory.Ledger
	lifecycle    *plan.Lifecycle
	coordinator  *assignment.Coordinator
	metricsStore *metrics.Store
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	provider suggest.Provider,
	metricsStore *metrics.Store,
) *App {
	plans := plan.NewRepository(db.SQL)
	pool := inventory.NewRepository(db.SQL)
	assignments := assignment.NewRepository(db.SQL)
	ledger := inventory.NewLedger(db, pool)
	aggregator := inventory.NewAggregator(db, pool)

	return &App{
		cfg:          cfg,
		db:           db,
		plans:        plans,
		pool:         pool,
		assignments:  assignments,
		ledger:       ledger,
		lifecycle:    plan.NewLifecycle(db, plans, pool, assignments, aggregator),
		coordinator:  assignment.NewCoordinator(db, assignments, pool, ledger, provider),
		metricsStore: metricsStore,
	}
}

// record logs a metric, never failing the caller over a bookkeeping error.
func (a *App) record(operation string, planID int64, started time.Time, opErr error) {
	if err := a.metricsStore.RecordOutcome(operation, planID, started, opErr); err != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", operation, err)
	}
}

// CreatePlan starts a weekly plan from a cart payload.
func (a *App) CreatePlan(ctx context.Context, userID string, weekStart time.Time, cartJSON []byte) (*plan.CreateResult, error) {
	started := time.Now()
	res, err := a.lifecycle.Create(ctx, userID, weekStart, cartJSON)

	var planID int64
	if res != nil {
		planID = res.Plan.ID
	}
	a.record(opCreatePlan, planID, started, err)
	return res, err
}

// IngestCart re-ingests a cart payload into an existing plan.
func (a *App) IngestCart(ctx context.Context, planID int64, cartJSON []byte, mode inventory.Mode) (*plan.CreateResult, error) {
	started := time.Now()
	res, err := a.lifecycle.IngestCart(ctx, planID, cartJSON, mode)
	a.record(opIngestCart, planID, started, err)
	return res, err
}

// AssignDay generates and binds a meal for one day of a plan.
func (a *App) AssignDay(ctx context.Context, planID int64, day string, preferences string) (*assignment.MealAssignment, error) {
	started := time.Now()
	res, err := a.coordinator.Assign(ctx, planID, day, preferences)
	a.record(opAssignDay, planID, started, err)
	return res, err
}

// RegenerateDay replaces the meal assigned to one day of a plan.
func (a *App) RegenerateDay(ctx context.Context, planID int64, day string, preferences string) (*assignment.MealAssignment, error) {
	started := time.Now()
	res, err := a.coordinator.Regenerate(ctx, planID, day, preferences)
	a.record(opRegenerateDay, planID, started, err)
	return res, err
}

// DeletePlan removes a plan together with its pool and assignments.
func (a *App) DeletePlan(ctx context.Context, planID int64) error {
	started := time.Now()
	err := a.lifecycle.Delete(ctx, planID)
	a.record(opDeletePlan, planID, started, err)
	return err
}

// LockDay pins a day's meal so regeneration cannot touch it.
func (a *App) LockDay(ctx context.Context, planID int64, day string) error {
	return a.coordinator.Lock(ctx, planID, day)
}

// UnlockDay releases a previously locked day.
func (a *App) UnlockDay(ctx context.Context, planID int64, day string) error {
	return a.coordinator.Unlock(ctx, planID, day)
}

// UnassignDay releases a day's meal and its allocations.
func (a *App) UnassignDay(ctx context.Context, planID int64, day string) error {
	return a.coordinator.Unassign(ctx, planID, day)
}

// TransitionPlan advances a plan's lifecycle status.
func (a *App) TransitionPlan(ctx context.Context, planID int64, next plan.Status) error {
	return a.lifecycle.Transition(ctx, planID, next)
}

// DayOutcome reports the result of assigning one day during PlanWeek.
type DayOutcome struct {
	Day        string
	Assignment *assignment.MealAssignment
	Skipped    bool
	Err        error
}

// PlanWeek walks Monday through Sunday and assigns a meal to every day that
// does not already have one. Days that cannot be filled, typically because
// the pool ran out, are reported rather than aborting the rest of the week.
func (a *App) PlanWeek(ctx context.Context, planID int64, preferences string) ([]DayOutcome, error) {
	existing, err := a.assignments.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]bool, len(existing))
	for _, e := range existing {
		occupied[e.Day] = true
	}

	outcomes := make([]DayOutcome, 0, len(assignment.Days))
	for _, day := range assignment.Days {
		if occupied[day] {
			outcomes = append(outcomes, DayOutcome{Day: day, Skipped: true})
			continue
		}

		res, err := a.AssignDay(ctx, planID, day, preferences)
		if err != nil {
			var allocErr *assignment.AllocationFailedError
			if errors.As(err, &allocErr) {
				log.Printf("Could not fill %s: %v", day, err)
				outcomes = append(outcomes, DayOutcome{Day: day, Err: err})
				continue
			}
			return outcomes, err
		}
		outcomes = append(outcomes, DayOutcome{Day: day, Assignment: res})
	}
	return outcomes, nil
}

// Plans exposes read access to stored plans for command surfaces.
func (a *App) Plans() *plan.Repository {
	return a.plans
}

// PoolEntries lists the ingredient pool of a plan.
func (a *App) PoolEntries(ctx context.Context, planID int64) ([]inventory.PoolEntry, error) {
	return a.pool.ListByPlan(ctx, planID)
}

// Assignments lists the meal assignments of a plan.
func (a *App) Assignments(ctx context.Context, planID int64) ([]assignment.MealAssignment, error) {
	return a.assignments.ListByPlan(ctx, planID)
}

// ReconcilePool recomputes drifted remaining quantities for a plan.
func (a *App) ReconcilePool(ctx context.Context, planID int64) (int, error) {
	return a.ledger.Reconcile(ctx, planID)
}

// Close releases the underlying database connection.
func (a *App) Close() error {
	return a.db.Close()
}
