package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pantry-planner/internal/inventory/pool_db"
)

// Repository handles persistence of ingredient pool entries.
type Repository struct {
	queries *pool_db.Queries
	db      *sql.DB
}

// NewRepository creates a new pool entry repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: pool_db.New(d),
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

// Get retrieves the pool entry for (plan, ingredient name). Returns nil when
// no entry exists.
func (r *Repository) Get(ctx context.Context, planID int64, name string) (*PoolEntry, error) {
	row, err := r.queries.GetPoolEntry(ctx, pool_db.GetPoolEntryParams{
		PlanID:         planID,
		IngredientName: name,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pool entry %q: %w", name, err)
	}
	entry, err := entryFromRow(row)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByPlan retrieves every pool entry for a plan, ordered by name.
func (r *Repository) ListByPlan(ctx context.Context, planID int64) ([]PoolEntry, error) {
	rows, err := r.queries.ListPoolEntriesByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pool entries for plan %d: %w", planID, err)
	}

	var entries []PoolEntry
	for _, row := range rows {
		entry, err := entryFromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Insert creates a new pool entry and fills in its ID.
func (r *Repository) Insert(ctx context.Context, e *PoolEntry) error {
	now := time.Now().UTC()
	id, err := r.queries.InsertPoolEntry(ctx, pool_db.InsertPoolEntryParams{
		PlanID:            e.PlanID,
		IngredientName:    e.Name,
		Unit:              e.Unit,
		TotalQuantity:     e.Total.String(),
		AllocatedQuantity: e.Allocated.String(),
		RemainingQuantity: e.Remaining.String(),
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return fmt.Errorf("failed to insert pool entry %q: %w", e.Name, err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// UpdateQuantities writes new quantity columns for an entry. Callers must
// obtain remaining from the ledger's recompute rule; this method never
// derives it.
func (r *Repository) UpdateQuantities(ctx context.Context, id int64, total, allocated, remaining decimal.Decimal) error {
	err := r.queries.UpdatePoolEntryQuantities(ctx, pool_db.UpdatePoolEntryQuantitiesParams{
		TotalQuantity:     total.String(),
		AllocatedQuantity: allocated.String(),
		RemainingQuantity: remaining.String(),
		UpdatedAt:         time.Now().UTC(),
		ID:                id,
	})
	if err != nil {
		return fmt.Errorf("failed to update pool entry %d: %w", id, err)
	}
	return nil
}

// DeleteByPlan removes every pool entry belonging to a plan.
func (r *Repository) DeleteByPlan(ctx context.Context, planID int64) error {
	if err := r.queries.DeletePoolEntriesByPlan(ctx, planID); err != nil {
		return fmt.Errorf("failed to delete pool entries for plan %d: %w", planID, err)
	}
	return nil
}

func entryFromRow(row pool_db.IngredientPoolEntry) (PoolEntry, error) {
	total, err := decimal.NewFromString(row.TotalQuantity)
	if err != nil {
		return PoolEntry{}, fmt.Errorf("corrupt total_quantity %q for entry %d: %w", row.TotalQuantity, row.ID, err)
	}
	allocated, err := decimal.NewFromString(row.AllocatedQuantity)
	if err != nil {
		return PoolEntry{}, fmt.Errorf("corrupt allocated_quantity %q for entry %d: %w", row.AllocatedQuantity, row.ID, err)
	}
	remaining, err := decimal.NewFromString(row.RemainingQuantity)
	if err != nil {
		return PoolEntry{}, fmt.Errorf("corrupt remaining_quantity %q for entry %d: %w", row.RemainingQuantity, row.ID, err)
	}

	return PoolEntry{
		ID:        row.ID,
		PlanID:    row.PlanID,
		Name:      row.IngredientName,
		Unit:      row.Unit,
		Total:     total,
		Allocated: allocated,
		Remaining: remaining,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
