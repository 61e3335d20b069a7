package inventory

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"pantry-planner/internal/cart"
	"pantry-planner/internal/database"
)

// Mode selects aggregation semantics.
type Mode int

const (
	// ModeAppend adds to existing pool entries without clearing. Re-ingesting
	// the same cart twice doubles totals; callers must pick deliberately.
	ModeAppend Mode = iota
	// ModeReplace clears a plan's pool entries before merging, making the
	// operation idempotent for a given cart.
	ModeReplace
)

// UnitMismatch is a data-quality finding: a reference shares a name with an
// entry (or an earlier reference) but carries a different unit. Quantities
// are never summed across units; the mismatching reference is skipped.
type UnitMismatch struct {
	Name         string
	ExistingUnit string
	IncomingUnit string
	Quantity     decimal.Decimal
}

// Report summarizes one aggregation run.
type Report struct {
	EntriesCreated int
	EntriesUpdated int
	UnitMismatches []UnitMismatch
}

// Aggregator merges decomposed cart references into persisted pool entries.
// Aggregation never touches allocation state.
type Aggregator struct {
	db   *database.DB // nil when transaction-scoped
	repo *Repository
}

// NewAggregator creates an Aggregator that runs each call in its own
// transaction.
func NewAggregator(db *database.DB, repo *Repository) *Aggregator {
	return &Aggregator{db: db, repo: repo}
}

// WithTx returns an aggregator whose operations run on the given transaction.
func (a *Aggregator) WithTx(tx *sql.Tx) *Aggregator {
	return &Aggregator{repo: a.repo.WithTx(tx)}
}

type mergedRef struct {
	Name     string
	Unit     string
	Quantity decimal.Decimal
}

// consolidate merges refs by ingredient name, summing same-unit duplicates
// before storage is touched. The first unit seen for a name wins; later
// references under a different unit become mismatches.
func consolidate(refs []cart.Ref) ([]mergedRef, []UnitMismatch) {
	var order []string
	byName := make(map[string]*mergedRef)
	var mismatches []UnitMismatch

	for _, ref := range refs {
		m, ok := byName[ref.Name]
		if !ok {
			byName[ref.Name] = &mergedRef{Name: ref.Name, Unit: ref.Unit, Quantity: ref.Quantity}
			order = append(order, ref.Name)
			continue
		}
		if m.Unit != ref.Unit {
			mismatches = append(mismatches, UnitMismatch{
				Name:         ref.Name,
				ExistingUnit: m.Unit,
				IncomingUnit: ref.Unit,
				Quantity:     ref.Quantity,
			})
			continue
		}
		m.Quantity = m.Quantity.Add(ref.Quantity)
	}

	merged := make([]mergedRef, 0, len(order))
	for _, name := range order {
		merged = append(merged, *byName[name])
	}
	return merged, mismatches
}

// Aggregate merges refs into the plan's pool. In ModeReplace existing
// entries are cleared first, inside the same transaction, so a concurrent
// allocation observes either the old pool or the new one, never a half-built
// mix.
func (a *Aggregator) Aggregate(ctx context.Context, planID int64, refs []cart.Ref, mode Mode) (*Report, error) {
	merged, batchMismatches := consolidate(refs)

	report := &Report{}
	apply := func(tx *Aggregator) error {
		created, updated := 0, 0
		var storeMismatches []UnitMismatch

		if mode == ModeReplace {
			if err := tx.repo.DeleteByPlan(ctx, planID); err != nil {
				return err
			}
		}

		for _, m := range merged {
			entry, err := tx.repo.Get(ctx, planID, m.Name)
			if err != nil {
				return err
			}

			if entry == nil {
				remaining, err := recompute(m.Quantity, decimal.Zero)
				if err != nil {
					return err
				}
				e := &PoolEntry{
					PlanID:    planID,
					Name:      m.Name,
					Unit:      m.Unit,
					Total:     m.Quantity,
					Allocated: decimal.Zero,
					Remaining: remaining,
				}
				if err := tx.repo.Insert(ctx, e); err != nil {
					return err
				}
				created++
				continue
			}

			if entry.Unit != m.Unit {
				storeMismatches = append(storeMismatches, UnitMismatch{
					Name:         m.Name,
					ExistingUnit: entry.Unit,
					IncomingUnit: m.Unit,
					Quantity:     m.Quantity,
				})
				continue
			}

			// Additive upsert: total and remaining grow, allocation is preserved.
			total := entry.Total.Add(m.Quantity)
			remaining, err := recompute(total, entry.Allocated)
			if err != nil {
				return err
			}
			if err := tx.repo.UpdateQuantities(ctx, entry.ID, total, entry.Allocated, remaining); err != nil {
				return err
			}
			updated++
		}

		report.EntriesCreated = created
		report.EntriesUpdated = updated
		report.UnitMismatches = append(batchMismatches, storeMismatches...)
		return nil
	}

	if a.db == nil {
		if err := apply(a); err != nil {
			return nil, err
		}
		return report, nil
	}

	err := a.db.RunInTx(ctx, func(tx *sql.Tx) error {
		return apply(a.WithTx(tx))
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
