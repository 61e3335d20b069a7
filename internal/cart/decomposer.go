package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultUnit is substituted when an item carries no usable unit.
const DefaultUnit = "piece"

// Ref is one decomposed ingredient reference from a cart payload.
type Ref struct {
	Name     string
	Quantity decimal.Decimal
	Unit     string
}

// RecordWarning reports a malformed cart record that was recovered with
// defaults instead of aborting the decomposition.
type RecordWarning struct {
	Section string
	Name    string
	Reason  string
}

func (w RecordWarning) String() string {
	return fmt.Sprintf("malformed cart record in %s (%q): %s", w.Section, w.Name, w.Reason)
}

// rawItem tolerates arbitrarily typed quantity values; normalization happens
// during the walk so one bad record never blocks the rest of the cart.
type rawItem struct {
	Name     string          `json:"name"`
	Quantity json.RawMessage `json:"quantity"`
	Unit     string          `json:"unit"`
}

type rawBox struct {
	Name          string    `json:"name"`
	SelectedItems []rawItem `json:"selected_items"`
}

type cartPayload struct {
	IndividualItems      []rawItem `json:"individual_items"`
	CustomizableBoxes    []rawBox  `json:"customizable_boxes"`
	NonCustomizableBoxes []rawBox  `json:"non_customizable_boxes"`
}

// Decomposer walks a cart payload's three possible sections (flat items,
// customizable box selections, non-customizable box selections) and yields a
// flat sequence of ingredient references. Absent sections are skipped.
type Decomposer struct {
	payload cartPayload
}

// NewDecomposer parses the cart payload envelope. Only a payload that is not
// valid JSON at the top level is a hard error; malformed individual records
// are recovered during the walk.
func NewDecomposer(raw []byte) (*Decomposer, error) {
	var p cartPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to parse cart payload: %w", err)
		}
	}
	return &Decomposer{payload: p}, nil
}

// Walk yields every ingredient reference in payload order. The walk is
// restartable: each call re-traverses the parsed payload from the start.
// Returned warnings cover records that needed default substitution; they are
// collected fresh on every walk.
func (d *Decomposer) Walk(fn func(Ref) error) ([]RecordWarning, error) {
	var warnings []RecordWarning

	emit := func(section string, it rawItem) error {
		if it.Name == "" {
			warnings = append(warnings, RecordWarning{Section: section, Reason: "missing item name, record skipped"})
			return nil
		}
		ref, ws := normalizeItem(section, it)
		warnings = append(warnings, ws...)
		return fn(ref)
	}

	for _, it := range d.payload.IndividualItems {
		if err := emit("individual_items", it); err != nil {
			return warnings, err
		}
	}
	for _, box := range d.payload.CustomizableBoxes {
		for _, it := range box.SelectedItems {
			if err := emit("customizable_boxes", it); err != nil {
				return warnings, err
			}
		}
	}
	for _, box := range d.payload.NonCustomizableBoxes {
		for _, it := range box.SelectedItems {
			if err := emit("non_customizable_boxes", it); err != nil {
				return warnings, err
			}
		}
	}
	return warnings, nil
}

// Refs collects the full decomposed sequence.
func (d *Decomposer) Refs() ([]Ref, []RecordWarning) {
	var refs []Ref
	warnings, _ := d.Walk(func(r Ref) error {
		refs = append(refs, r)
		return nil
	})
	return refs, warnings
}

func normalizeItem(section string, it rawItem) (Ref, []RecordWarning) {
	var warnings []RecordWarning

	qty, reason := parseQuantity(it.Quantity)
	if reason != "" {
		warnings = append(warnings, RecordWarning{Section: section, Name: it.Name, Reason: reason})
		qty = decimal.NewFromInt(1)
	}

	unit := it.Unit
	if unit == "" {
		unit = DefaultUnit
	}

	return Ref{Name: it.Name, Quantity: qty, Unit: unit}, warnings
}

// parseQuantity accepts JSON numbers and numeric strings. Anything else
// (absent, null, non-numeric) reports a reason and the caller falls back to
// the default of 1.
func parseQuantity(raw json.RawMessage) (decimal.Decimal, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Decimal{}, "missing quantity, defaulting to 1"
	}

	var qty decimal.Decimal
	if err := json.Unmarshal(raw, &qty); err != nil {
		return decimal.Decimal{}, fmt.Sprintf("non-numeric quantity %s, defaulting to 1", raw)
	}
	if qty.IsNegative() {
		return decimal.Decimal{}, fmt.Sprintf("negative quantity %s, defaulting to 1", qty)
	}
	return qty, ""
}
