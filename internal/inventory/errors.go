package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownIngredient is returned when an allocation references an
// ingredient that has no pool entry for the plan.
var ErrUnknownIngredient = errors.New("unknown ingredient")

// InsufficientInventoryError reports an allocation request that exceeds the
// remaining quantity of a pool entry. State is never mutated on this error.
type InsufficientInventoryError struct {
	Name      string
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %q: requested %s, remaining %s",
		e.Name, e.Requested, e.Remaining)
}
