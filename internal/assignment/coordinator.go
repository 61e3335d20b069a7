package assignment

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"pantry-planner/internal/database"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/suggest"
)

// Coordinator orchestrates, per day-of-week slot, the sequence "generate a
// meal, allocate its ingredients, bind the assignment" and the reverse on
// removal or regeneration. Every mutation of an assignment and its bound
// pool entries happens inside a single transaction: either the assignment
// row and every affected pool entry change together, or none do.
type Coordinator struct {
	db       *database.DB
	repo     *Repository
	pool     *inventory.Repository
	ledger   *inventory.Ledger
	provider suggest.Provider
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(
	db *database.DB,
	repo *Repository,
	pool *inventory.Repository,
	ledger *inventory.Ledger,
	provider suggest.Provider,
) *Coordinator {
	return &Coordinator{
		db:       db,
		repo:     repo,
		pool:     pool,
		ledger:   ledger,
		provider: provider,
	}
}

// Assign generates a meal for an unassigned day and binds it. If any
// required ingredient cannot be allocated the whole attempt rolls back and
// AllocationFailedError carries every shortfall; no partial binding is ever
// left in place.
func (c *Coordinator) Assign(ctx context.Context, planID int64, day string, preferences string) (*MealAssignment, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	existing, err := c.repo.Get(ctx, planID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: %w", day, ErrDayAlreadyAssigned)
	}

	sugg, err := c.generate(ctx, planID, day, preferences)
	if err != nil {
		return nil, err
	}

	var created *MealAssignment
	err = c.db.RunInTx(ctx, func(tx *sql.Tx) error {
		repo := c.repo.WithTx(tx)

		// Another session may have taken the day between the read above and
		// this transaction.
		current, err := repo.Get(ctx, planID, day)
		if err != nil {
			return err
		}
		if current != nil {
			return fmt.Errorf("%s: %w", day, ErrDayAlreadyAssigned)
		}

		bound, err := c.allocateRequirements(ctx, tx, planID, day, sugg.Ingredients)
		if err != nil {
			return err
		}

		a := &MealAssignment{
			PlanID:      planID,
			Day:         day,
			Meal:        sugg.Meal,
			Ingredients: bound,
			Status:      StatusAssigned,
		}
		if err := repo.Insert(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Regenerate replaces an assigned meal. The current allocation is released
// and the row parked in regenerating status first; the new meal then binds
// through the normal allocation path. If that fails the day is left
// unassigned; callers needing restore-on-failure must snapshot beforehand.
func (c *Coordinator) Regenerate(ctx context.Context, planID int64, day string, preferences string) (*MealAssignment, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	// Release the old meal first so the new one sees the freed quantities.
	// Status validation happens inside the transaction: a lock committed by
	// another session can never be overwritten nor have its allocation
	// released, because there is no decision taken on a stale read.
	var parked *MealAssignment
	err := c.db.RunInTx(ctx, func(tx *sql.Tx) error {
		repo := c.repo.WithTx(tx)

		current, err := repo.Get(ctx, planID, day)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%s: %w", day, ErrAssignmentNotFound)
		}
		if current.Status == StatusLocked {
			return fmt.Errorf("%s: %w", day, ErrAssignmentLocked)
		}
		if current.Status != StatusAssigned {
			return fmt.Errorf("cannot regenerate %s while %s", day, current.Status)
		}

		if err := c.release(ctx, tx, current); err != nil {
			return err
		}
		current.Ingredients = nil
		current.Status = StatusRegenerating
		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		parked = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	sugg, err := c.generate(ctx, planID, day, preferences)
	if err != nil {
		return nil, c.abandonRegeneration(ctx, parked, err)
	}

	var updated *MealAssignment
	err = c.db.RunInTx(ctx, func(tx *sql.Tx) error {
		bound, err := c.allocateRequirements(ctx, tx, planID, day, sugg.Ingredients)
		if err != nil {
			return err
		}
		parked.Meal = sugg.Meal
		parked.Ingredients = bound
		parked.Status = StatusAssigned
		if err := c.repo.WithTx(tx).Update(ctx, parked); err != nil {
			return err
		}
		updated = parked
		return nil
	})
	if err != nil {
		return nil, c.abandonRegeneration(ctx, parked, err)
	}
	return updated, nil
}

// Lock marks an assignment so regeneration cannot replace it.
func (c *Coordinator) Lock(ctx context.Context, planID int64, day string) error {
	return c.setLock(ctx, planID, day, StatusAssigned, StatusLocked)
}

// Unlock reverts a locked assignment to assigned.
func (c *Coordinator) Unlock(ctx context.Context, planID int64, day string) error {
	return c.setLock(ctx, planID, day, StatusLocked, StatusAssigned)
}

func (c *Coordinator) setLock(ctx context.Context, planID int64, day string, from, to Status) error {
	if err := validDay(day); err != nil {
		return err
	}
	return c.db.RunInTx(ctx, func(tx *sql.Tx) error {
		repo := c.repo.WithTx(tx)
		a, err := repo.Get(ctx, planID, day)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("%s: %w", day, ErrAssignmentNotFound)
		}
		if a.Status != from {
			return fmt.Errorf("cannot toggle lock on %s while %s", day, a.Status)
		}
		return repo.UpdateStatus(ctx, a.ID, to)
	})
}

// Unassign releases an assignment's bound quantities and removes it. Locked
// days must be unlocked first.
func (c *Coordinator) Unassign(ctx context.Context, planID int64, day string) error {
	if err := validDay(day); err != nil {
		return err
	}
	return c.db.RunInTx(ctx, func(tx *sql.Tx) error {
		repo := c.repo.WithTx(tx)
		a, err := repo.Get(ctx, planID, day)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("%s: %w", day, ErrAssignmentNotFound)
		}
		if a.Status == StatusLocked {
			return fmt.Errorf("%s: %w", day, ErrAssignmentLocked)
		}
		if err := c.release(ctx, tx, a); err != nil {
			return err
		}
		return repo.Delete(ctx, a.ID)
	})
}

// generate snapshots the pool and asks the provider for a meal.
func (c *Coordinator) generate(ctx context.Context, planID int64, day string, preferences string) (*suggest.Suggestion, error) {
	entries, err := c.pool.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	snapshot := make([]suggest.PoolItem, 0, len(entries))
	for _, e := range entries {
		snapshot = append(snapshot, suggest.PoolItem{Name: e.Name, Remaining: e.Remaining, Unit: e.Unit})
	}

	sugg, err := c.provider.Generate(ctx, day, preferences, snapshot)
	if err != nil {
		return nil, fmt.Errorf("suggestion provider failed for %s: %w", day, err)
	}
	return sugg, nil
}

// allocateRequirements checks every requirement against the pool before
// allocating any of them, so a failure reports the complete shortfall list.
// It must run inside the caller's transaction.
func (c *Coordinator) allocateRequirements(ctx context.Context, tx *sql.Tx, planID int64, day string, ingredients []suggest.Ingredient) ([]BoundIngredient, error) {
	required := consolidateRequirements(ingredients)
	pool := c.pool.WithTx(tx)

	var missing []MissingIngredient
	for _, ing := range required {
		entry, err := pool.Get(ctx, planID, ing.Name)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			missing = append(missing, MissingIngredient{Name: ing.Name, Requested: ing.Quantity, Remaining: decimal.Zero})
			continue
		}
		if ing.Quantity.GreaterThan(entry.Remaining) {
			missing = append(missing, MissingIngredient{Name: ing.Name, Requested: ing.Quantity, Remaining: entry.Remaining})
		}
	}
	if len(missing) > 0 {
		return nil, &AllocationFailedError{Day: day, Missing: missing}
	}

	ledger := c.ledger.WithTx(tx)
	bound := make([]BoundIngredient, 0, len(required))
	for _, ing := range required {
		if err := ledger.Allocate(ctx, planID, ing.Name, ing.Quantity); err != nil {
			return nil, err
		}
		bound = append(bound, BoundIngredient{Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit})
	}
	return bound, nil
}

// release returns an assignment's bound quantities to the pool. Clamped
// releases are logged; they indicate drift repaired elsewhere, not a failure
// of this operation.
func (c *Coordinator) release(ctx context.Context, tx *sql.Tx, a *MealAssignment) error {
	ledger := c.ledger.WithTx(tx)
	for _, ing := range a.Ingredients {
		res, err := ledger.Deallocate(ctx, a.PlanID, ing.Name, ing.Quantity)
		if err != nil {
			return err
		}
		if res.Partial {
			log.Printf("Partial release of %s for plan %d: requested %s, released %s",
				ing.Name, a.PlanID, res.Requested, res.Released)
		}
	}
	return nil
}

// abandonRegeneration removes the parked regenerating row so the day reads
// as unassigned, then returns the original failure.
func (c *Coordinator) abandonRegeneration(ctx context.Context, a *MealAssignment, cause error) error {
	err := c.db.RunInTx(ctx, func(tx *sql.Tx) error {
		return c.repo.WithTx(tx).Delete(ctx, a.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to clear abandoned regeneration for %s: %v (original failure: %w)", a.Day, err, cause)
	}
	return cause
}

// consolidateRequirements merges duplicate ingredient names in a suggestion
// so the shortfall pre-check sees the true demand per pool entry.
func consolidateRequirements(ingredients []suggest.Ingredient) []suggest.Ingredient {
	var order []string
	byName := make(map[string]*suggest.Ingredient)
	for _, ing := range ingredients {
		if existing, ok := byName[ing.Name]; ok {
			existing.Quantity = existing.Quantity.Add(ing.Quantity)
			continue
		}
		dup := ing
		byName[ing.Name] = &dup
		order = append(order, ing.Name)
	}
	out := make([]suggest.Ingredient, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}
