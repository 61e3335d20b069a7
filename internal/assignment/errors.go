package assignment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrAssignmentLocked is returned when a locked day is asked to regenerate
// or release its allocation.
var ErrAssignmentLocked = errors.New("assignment is locked")

// ErrAssignmentNotFound is returned when no assignment exists for the day.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrDayAlreadyAssigned is returned when Assign targets an occupied day.
var ErrDayAlreadyAssigned = errors.New("day already has an assignment")

// MissingIngredient describes one shortfall behind an AllocationFailedError.
type MissingIngredient struct {
	Name      string
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

// AllocationFailedError reports that a meal could not be bound because the
// pool cannot satisfy it. It carries every unsatisfiable ingredient; no
// partial binding is left in place.
type AllocationFailedError struct {
	Day     string
	Missing []MissingIngredient
}

func (e *AllocationFailedError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s (requested %s, remaining %s)", m.Name, m.Requested, m.Remaining))
	}
	return fmt.Sprintf("allocation failed for %s: %s", e.Day, strings.Join(parts, ", "))
}
