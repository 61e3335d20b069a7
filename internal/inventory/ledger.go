package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"pantry-planner/internal/database"
)

// Ledger exposes allocate/deallocate operations against a plan's pool
// entries, enforcing the accounting invariant on every write path.
//
// A Ledger built with NewLedger runs each operation in its own transaction.
// WithTx yields a transaction-scoped ledger for callers composing larger
// atomic units of work (assignment binding, plan deletion).
type Ledger struct {
	db   *database.DB // nil when transaction-scoped
	repo *Repository
}

// NewLedger creates a Ledger that opens a transaction per operation.
func NewLedger(db *database.DB, repo *Repository) *Ledger {
	return &Ledger{db: db, repo: repo}
}

// WithTx returns a ledger whose operations run on the given transaction.
func (l *Ledger) WithTx(tx *sql.Tx) *Ledger {
	return &Ledger{repo: l.repo.WithTx(tx)}
}

// recompute is the single rule that produces a pool entry's remaining
// quantity. Every allocate/deallocate/reconcile path funnels through it;
// nothing else in the package derives remaining.
func recompute(total, allocated decimal.Decimal) (decimal.Decimal, error) {
	if total.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("total quantity must not be negative, got %s", total)
	}
	if allocated.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("allocated quantity must not be negative, got %s", allocated)
	}
	if allocated.GreaterThan(total) {
		return decimal.Decimal{}, fmt.Errorf("allocated quantity %s exceeds total %s", allocated, total)
	}
	return total.Sub(allocated), nil
}

// Allocate commits qty of an ingredient to the caller. It fails without
// mutating state when the entry is missing (ErrUnknownIngredient) or when
// qty exceeds the remaining quantity (InsufficientInventoryError).
func (l *Ledger) Allocate(ctx context.Context, planID int64, name string, qty decimal.Decimal) error {
	if l.db != nil {
		return l.db.RunInTx(ctx, func(tx *sql.Tx) error {
			return l.WithTx(tx).Allocate(ctx, planID, name, qty)
		})
	}

	if qty.IsNegative() {
		return fmt.Errorf("allocation quantity must not be negative, got %s", qty)
	}

	entry, err := l.repo.Get(ctx, planID, name)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownIngredient)
	}
	if qty.GreaterThan(entry.Remaining) {
		return &InsufficientInventoryError{Name: name, Requested: qty, Remaining: entry.Remaining}
	}

	allocated := entry.Allocated.Add(qty)
	remaining, err := recompute(entry.Total, allocated)
	if err != nil {
		return err
	}
	return l.repo.UpdateQuantities(ctx, entry.ID, entry.Total, allocated, remaining)
}

// ReleaseResult reports the outcome of a deallocation. Partial signals that
// the request exceeded the allocated quantity and was clamped.
type ReleaseResult struct {
	Requested decimal.Decimal
	Released  decimal.Decimal
	Partial   bool
}

// Deallocate releases qty of an ingredient back to the pool. Requests larger
// than the allocated quantity clamp to it; the allocated quantity never goes
// negative. A missing entry clamps all the way to zero: a replace-mode
// re-ingest may have dropped the ingredient while a meal still referenced
// it, and releasing that meal must not fail over the vanished row.
func (l *Ledger) Deallocate(ctx context.Context, planID int64, name string, qty decimal.Decimal) (ReleaseResult, error) {
	if l.db != nil {
		var res ReleaseResult
		err := l.db.RunInTx(ctx, func(tx *sql.Tx) error {
			var txErr error
			res, txErr = l.WithTx(tx).Deallocate(ctx, planID, name, qty)
			return txErr
		})
		return res, err
	}

	if qty.IsNegative() {
		return ReleaseResult{}, fmt.Errorf("release quantity must not be negative, got %s", qty)
	}

	entry, err := l.repo.Get(ctx, planID, name)
	if err != nil {
		return ReleaseResult{}, err
	}
	if entry == nil {
		return ReleaseResult{Requested: qty, Released: decimal.Zero, Partial: true}, nil
	}

	release := qty
	partial := false
	if release.GreaterThan(entry.Allocated) {
		release = entry.Allocated
		partial = true
	}

	allocated := entry.Allocated.Sub(release)
	remaining, err := recompute(entry.Total, allocated)
	if err != nil {
		return ReleaseResult{}, err
	}
	if err := l.repo.UpdateQuantities(ctx, entry.ID, entry.Total, allocated, remaining); err != nil {
		return ReleaseResult{}, err
	}
	return ReleaseResult{Requested: qty, Released: release, Partial: partial}, nil
}

// Reconcile recomputes remaining for every entry of a plan as a consistency
// self-check after bulk operations. It returns the number of entries whose
// stored remaining had drifted.
func (l *Ledger) Reconcile(ctx context.Context, planID int64) (int, error) {
	if l.db != nil {
		var corrected int
		err := l.db.RunInTx(ctx, func(tx *sql.Tx) error {
			var txErr error
			corrected, txErr = l.WithTx(tx).Reconcile(ctx, planID)
			return txErr
		})
		return corrected, err
	}

	entries, err := l.repo.ListByPlan(ctx, planID)
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, entry := range entries {
		want, err := recompute(entry.Total, entry.Allocated)
		if err != nil {
			return corrected, fmt.Errorf("entry %q violates the accounting invariant: %w", entry.Name, err)
		}
		if want.Equal(entry.Remaining) {
			continue
		}
		if err := l.repo.UpdateQuantities(ctx, entry.ID, entry.Total, entry.Allocated, want); err != nil {
			return corrected, err
		}
		corrected++
	}
	return corrected, nil
}
