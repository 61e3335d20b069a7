package suggest

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Ingredient is one quantity a suggested meal requires from the pool.
type Ingredient struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// PoolItem is a read-only snapshot of one pool entry's availability, handed
// to the provider so it can suggest meals the pool can actually satisfy.
type PoolItem struct {
	Name      string
	Remaining decimal.Decimal
	Unit      string
}

// Suggestion is a generated meal. The engine treats Meal as opaque and only
// interprets Ingredients.
type Suggestion struct {
	Meal        json.RawMessage `json:"meal"`
	Ingredients []Ingredient    `json:"ingredients"`
}

// Provider generates a meal suggestion for a day-of-week slot.
type Provider interface {
	Generate(ctx context.Context, day string, preferences string, pool []PoolItem) (*Suggestion, error)
}
