package assignment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a meal assignment.
type Status string

const (
	StatusAssigned     Status = "assigned"
	StatusRegenerating Status = "regenerating"
	StatusLocked       Status = "locked"
)

// Days lists the day-of-week slots of a weekly plan, in order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// BoundIngredient is one quantity a meal consumes from the plan's pool.
type BoundIngredient struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// MealAssignment binds a generated meal to a day within a weekly plan. The
// meal payload is opaque to the engine; only the bound ingredients are
// interpreted. The assignment references pool entries by name and never owns
// inventory.
type MealAssignment struct {
	ID          int64
	PlanID      int64
	Day         string
	Meal        json.RawMessage
	Ingredients []BoundIngredient
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func validDay(day string) error {
	for _, d := range Days {
		if d == day {
			return nil
		}
	}
	return fmt.Errorf("unknown day of week %q", day)
}
