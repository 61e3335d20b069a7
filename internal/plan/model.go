package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle state of a weekly plan.
type Status string

const (
	StatusPlanning Status = "planning"
	StatusComplete Status = "complete"
	StatusArchived Status = "archived"
)

// WeeklyPlan represents one user's plan for a given week. The cart snapshot
// is opaque to everything but the cart decomposer.
type WeeklyPlan struct {
	ID           int64
	PublicID     string
	UserID       string
	WeekStart    time.Time
	CartSnapshot json.RawMessage
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrDuplicatePlan is returned when a plan already exists for the
// (user, week-start) pair.
var ErrDuplicatePlan = errors.New("a plan already exists for this user and week")

// ErrPlanNotFound is returned when no plan matches the given identifier.
var ErrPlanNotFound = errors.New("plan not found")

// InvalidTransitionError reports a status change outside the forward-only
// planning -> complete -> archived order.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid plan status transition from %q to %q", e.From, e.To)
}

// canTransition encodes the forward-only lifecycle.
func canTransition(from, to Status) bool {
	switch from {
	case StatusPlanning:
		return to == StatusComplete
	case StatusComplete:
		return to == StatusArchived
	default:
		return false
	}
}
