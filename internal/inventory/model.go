package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolEntry is one ingredient's tracked total/allocated/remaining quantity
// for a given plan. Identity is (plan, name); the unit is a fixed attribute
// of the entry, not part of its key.
type PoolEntry struct {
	ID        int64
	PlanID    int64
	Name      string
	Unit      string
	Total     decimal.Decimal
	Allocated decimal.Decimal
	Remaining decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
