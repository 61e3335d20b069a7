package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pantry-planner/internal/cart"
	"pantry-planner/internal/database"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/suggest"
)

// mockProvider returns a fixed suggestion per call, in order.
type mockProvider struct {
	suggestions []*suggest.Suggestion
	err         error
	calls       int
}

func (m *mockProvider) Generate(ctx context.Context, day string, preferences string, pool []suggest.PoolItem) (*suggest.Suggestion, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	s := m.suggestions[0]
	if len(m.suggestions) > 1 {
		m.suggestions = m.suggestions[1:]
	}
	return s, nil
}

func mealOf(name string, ingredients ...suggest.Ingredient) *suggest.Suggestion {
	payload, _ := json.Marshal(map[string]string{"name": name})
	return &suggest.Suggestion{Meal: payload, Ingredients: ingredients}
}

func ing(name string, qty int64, unit string) suggest.Ingredient {
	return suggest.Ingredient{Name: name, Quantity: decimal.NewFromInt(qty), Unit: unit}
}

type fixture struct {
	db     *database.DB
	planID int64
	repo   *Repository
	pool   *inventory.Repository
	ledger *inventory.Ledger
}

func newFixture(t *testing.T) (*fixture, context.Context) {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), 0)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Now().UTC()
	res, err := db.SQL.Exec(
		`INSERT INTO weekly_plans (public_id, user_id, week_start, cart_snapshot, status, created_at, updated_at)
		 VALUES ('test-plan', 'alice', '2026-08-31', '{}', 'planning', ?, ?)`, now, now)
	if err != nil {
		t.Fatalf("Failed to insert test plan: %v", err)
	}
	planID, _ := res.LastInsertId()

	pool := inventory.NewRepository(db.SQL)
	agg := inventory.NewAggregator(db, pool)
	if _, err := agg.Aggregate(ctx, planID, []cart.Ref{
		{Name: "Kale", Quantity: decimal.NewFromInt(3), Unit: "bunch"},
		{Name: "Rice", Quantity: decimal.NewFromInt(2), Unit: "kg"},
	}, inventory.ModeReplace); err != nil {
		t.Fatalf("Seed aggregate failed: %v", err)
	}

	return &fixture{
		db:     db,
		planID: planID,
		repo:   NewRepository(db.SQL),
		pool:   pool,
		ledger: inventory.NewLedger(db, pool),
	}, ctx
}

func (f *fixture) coordinator(p suggest.Provider) *Coordinator {
	return NewCoordinator(f.db, f.repo, f.pool, f.ledger, p)
}

func (f *fixture) entry(t *testing.T, ctx context.Context, name string) *inventory.PoolEntry {
	t.Helper()
	e, err := f.pool.Get(ctx, f.planID, name)
	if err != nil {
		t.Fatalf("Get pool entry %s failed: %v", name, err)
	}
	if e == nil {
		t.Fatalf("Expected a pool entry for %s", name)
	}
	return e
}

func TestAssign(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Kale Bowl", ing("Kale", 2, "bunch"), ing("Rice", 1, "kg")),
	}}
	coord := f.coordinator(provider)

	a, err := coord.Assign(ctx, f.planID, "Monday", "")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if a.Status != StatusAssigned {
		t.Errorf("Expected status assigned, got %s", a.Status)
	}
	if len(a.Ingredients) != 2 {
		t.Errorf("Expected 2 bound ingredients, got %d", len(a.Ingredients))
	}

	kale := f.entry(t, ctx, "Kale")
	if !kale.Allocated.Equal(decimal.NewFromInt(2)) || !kale.Remaining.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected Kale allocated=2 remaining=1, got allocated=%s remaining=%s", kale.Allocated, kale.Remaining)
	}

	// The day is now occupied.
	if _, err := coord.Assign(ctx, f.planID, "Monday", ""); !errors.Is(err, ErrDayAlreadyAssigned) {
		t.Errorf("Expected ErrDayAlreadyAssigned, got %v", err)
	}
}

func TestAssignRollsBackOnShortfall(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Impossible Feast",
			ing("Kale", 2, "bunch"),
			ing("Rice", 1, "kg"),
			ing("Saffron", 1, "g"),
		),
	}}
	coord := f.coordinator(provider)

	_, err := coord.Assign(ctx, f.planID, "Monday", "")
	var allocErr *AllocationFailedError
	if !errors.As(err, &allocErr) {
		t.Fatalf("Expected AllocationFailedError, got %v", err)
	}
	if allocErr.Day != "Monday" {
		t.Errorf("Expected failure for Monday, got %s", allocErr.Day)
	}
	if len(allocErr.Missing) != 1 || allocErr.Missing[0].Name != "Saffron" {
		t.Errorf("Expected Saffron to be the missing ingredient, got %+v", allocErr.Missing)
	}

	// Nothing was allocated and no row was bound.
	for _, name := range []string{"Kale", "Rice"} {
		e := f.entry(t, ctx, name)
		if !e.Allocated.IsZero() {
			t.Errorf("Expected %s allocated unchanged at 0, got %s", name, e.Allocated)
		}
	}
	if a, _ := f.repo.Get(ctx, f.planID, "Monday"); a != nil {
		t.Error("Expected no assignment after a failed Assign")
	}
}

func TestAssignReportsAllShortfalls(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Greedy Meal", ing("Kale", 9, "bunch"), ing("Rice", 9, "kg")),
	}}
	coord := f.coordinator(provider)

	_, err := coord.Assign(ctx, f.planID, "Tuesday", "")
	var allocErr *AllocationFailedError
	if !errors.As(err, &allocErr) {
		t.Fatalf("Expected AllocationFailedError, got %v", err)
	}
	if len(allocErr.Missing) != 2 {
		t.Fatalf("Expected both shortfalls reported, got %+v", allocErr.Missing)
	}
	if !allocErr.Missing[0].Remaining.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected Kale remaining 3 in shortfall, got %s", allocErr.Missing[0].Remaining)
	}
}

func TestRegenerate(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Kale Bowl", ing("Kale", 3, "bunch")),
		mealOf("Rice Bowl", ing("Rice", 2, "kg")),
	}}
	coord := f.coordinator(provider)

	if _, err := coord.Assign(ctx, f.planID, "Monday", ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	a, err := coord.Regenerate(ctx, f.planID, "Monday", "")
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if a.Status != StatusAssigned {
		t.Errorf("Expected status assigned after regenerate, got %s", a.Status)
	}
	if len(a.Ingredients) != 1 || a.Ingredients[0].Name != "Rice" {
		t.Errorf("Expected the new meal to bind Rice, got %+v", a.Ingredients)
	}

	// Old allocation fully released, new one in place.
	kale := f.entry(t, ctx, "Kale")
	if !kale.Allocated.IsZero() {
		t.Errorf("Expected Kale released, got allocated=%s", kale.Allocated)
	}
	rice := f.entry(t, ctx, "Rice")
	if !rice.Allocated.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected Rice allocated=2, got %s", rice.Allocated)
	}
}

func TestRegenerateFailureLeavesDayUnassigned(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Kale Bowl", ing("Kale", 3, "bunch")),
		mealOf("Impossible", ing("Saffron", 1, "g")),
	}}
	coord := f.coordinator(provider)

	if _, err := coord.Assign(ctx, f.planID, "Monday", ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	_, err := coord.Regenerate(ctx, f.planID, "Monday", "")
	var allocErr *AllocationFailedError
	if !errors.As(err, &allocErr) {
		t.Fatalf("Expected AllocationFailedError, got %v", err)
	}

	// The previous meal is not restored; its allocation stays released.
	if a, _ := f.repo.Get(ctx, f.planID, "Monday"); a != nil {
		t.Errorf("Expected Monday unassigned after failed regenerate, got %+v", a)
	}
	kale := f.entry(t, ctx, "Kale")
	if !kale.Allocated.IsZero() {
		t.Errorf("Expected Kale allocation released, got %s", kale.Allocated)
	}
}

func TestRegenerateLocked(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Kale Bowl", ing("Kale", 2, "bunch")),
	}}
	coord := f.coordinator(provider)

	if _, err := coord.Assign(ctx, f.planID, "Monday", ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if err := coord.Lock(ctx, f.planID, "Monday"); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	generateCalls := provider.calls
	_, err := coord.Regenerate(ctx, f.planID, "Monday", "")
	if !errors.Is(err, ErrAssignmentLocked) {
		t.Fatalf("Expected ErrAssignmentLocked, got %v", err)
	}
	if provider.calls != generateCalls {
		t.Error("Expected no provider call for a locked day")
	}

	// Pool and assignment untouched.
	kale := f.entry(t, ctx, "Kale")
	if !kale.Allocated.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected Kale allocation untouched at 2, got %s", kale.Allocated)
	}
	a, _ := f.repo.Get(ctx, f.planID, "Monday")
	if a == nil || a.Status != StatusLocked {
		t.Errorf("Expected Monday still locked, got %+v", a)
	}

	// Unlock restores regeneration.
	if err := coord.Unlock(ctx, f.planID, "Monday"); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	a, _ = f.repo.Get(ctx, f.planID, "Monday")
	if a.Status != StatusAssigned {
		t.Errorf("Expected status assigned after unlock, got %s", a.Status)
	}
}

func TestUnassign(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Kale Bowl", ing("Kale", 2, "bunch")),
	}}
	coord := f.coordinator(provider)

	if _, err := coord.Assign(ctx, f.planID, "Monday", ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if err := coord.Unassign(ctx, f.planID, "Monday"); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}

	if a, _ := f.repo.Get(ctx, f.planID, "Monday"); a != nil {
		t.Error("Expected Monday unassigned")
	}
	kale := f.entry(t, ctx, "Kale")
	if !kale.Allocated.IsZero() || !kale.Remaining.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected Kale fully released, got allocated=%s remaining=%s", kale.Allocated, kale.Remaining)
	}

	if err := coord.Unassign(ctx, f.planID, "Monday"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("Expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestUnassignAfterPoolReplaced(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Kale Bowl", ing("Kale", 2, "bunch")),
	}}
	coord := f.coordinator(provider)

	if _, err := coord.Assign(ctx, f.planID, "Monday", ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	// A replace ingest drops Kale from the pool while Monday still binds it.
	agg := inventory.NewAggregator(f.db, f.pool)
	if _, err := agg.Aggregate(ctx, f.planID, []cart.Ref{
		{Name: "Beans", Quantity: decimal.NewFromInt(4), Unit: "can"},
	}, inventory.ModeReplace); err != nil {
		t.Fatalf("Replace aggregate failed: %v", err)
	}

	if err := coord.Unassign(ctx, f.planID, "Monday"); err != nil {
		t.Fatalf("Unassign after replace failed: %v", err)
	}
	if a, _ := f.repo.Get(ctx, f.planID, "Monday"); a != nil {
		t.Errorf("Expected Monday unassigned, got %+v", a)
	}

	// The vanished-entry release left the new pool alone.
	beans := f.entry(t, ctx, "Beans")
	if !beans.Allocated.IsZero() {
		t.Errorf("Expected Beans allocation untouched, got %s", beans.Allocated)
	}
}

func TestRegenerateAfterPoolReplaced(t *testing.T) {
	f, ctx := newFixture(t)
	provider := &mockProvider{suggestions: []*suggest.Suggestion{
		mealOf("Kale Bowl", ing("Kale", 2, "bunch")),
		mealOf("Bean Stew", ing("Beans", 3, "can")),
	}}
	coord := f.coordinator(provider)

	if _, err := coord.Assign(ctx, f.planID, "Monday", ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	agg := inventory.NewAggregator(f.db, f.pool)
	if _, err := agg.Aggregate(ctx, f.planID, []cart.Ref{
		{Name: "Beans", Quantity: decimal.NewFromInt(4), Unit: "can"},
	}, inventory.ModeReplace); err != nil {
		t.Fatalf("Replace aggregate failed: %v", err)
	}

	a, err := coord.Regenerate(ctx, f.planID, "Monday", "")
	if err != nil {
		t.Fatalf("Regenerate after replace failed: %v", err)
	}
	if len(a.Ingredients) != 1 || a.Ingredients[0].Name != "Beans" {
		t.Errorf("Expected the new meal to bind Beans, got %+v", a.Ingredients)
	}
	beans := f.entry(t, ctx, "Beans")
	if !beans.Allocated.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected Beans allocated=3, got %s", beans.Allocated)
	}
}

func TestRegenerateUnassignedDay(t *testing.T) {
	f, ctx := newFixture(t)
	coord := f.coordinator(&mockProvider{})

	if _, err := coord.Regenerate(ctx, f.planID, "Friday", ""); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("Expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestAssignUnknownDay(t *testing.T) {
	f, ctx := newFixture(t)
	coord := f.coordinator(&mockProvider{})

	if _, err := coord.Assign(ctx, f.planID, "Someday", ""); err == nil {
		t.Fatal("Expected an error for an unknown day, got nil")
	}
}
