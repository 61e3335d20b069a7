package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecomposeAllSections(t *testing.T) {
	payload := []byte(`{
		"individual_items": [
			{"name": "Kale", "quantity": 2, "unit": "bunch"}
		],
		"customizable_boxes": [
			{"name": "Veggie Box", "selected_items": [
				{"name": "Kale", "quantity": 1, "unit": "bunch"},
				{"name": "Carrot", "quantity": 5, "unit": "piece"}
			]}
		],
		"non_customizable_boxes": [
			{"name": "Staples", "selected_items": [
				{"name": "Rice", "quantity": "1.5", "unit": "kg"}
			]}
		]
	}`)

	d, err := NewDecomposer(payload)
	if err != nil {
		t.Fatalf("NewDecomposer failed: %v", err)
	}

	refs, warnings := d.Refs()
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if len(refs) != 4 {
		t.Fatalf("Expected 4 refs, got %d", len(refs))
	}
	if refs[0].Name != "Kale" || !refs[0].Quantity.Equal(decimal.NewFromInt(2)) || refs[0].Unit != "bunch" {
		t.Errorf("Unexpected first ref: %+v", refs[0])
	}
	if refs[1].Name != "Kale" || !refs[1].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Unexpected box ref: %+v", refs[1])
	}
	if refs[3].Name != "Rice" || !refs[3].Quantity.Equal(decimal.RequireFromString("1.5")) || refs[3].Unit != "kg" {
		t.Errorf("Unexpected string-quantity ref: %+v", refs[3])
	}
}

func TestDecomposeDefaults(t *testing.T) {
	payload := []byte(`{
		"individual_items": [
			{"name": "Lemon"},
			{"name": "Basil", "quantity": "a few", "unit": "sprig"},
			{"name": "Flour", "quantity": -2, "unit": "kg"},
			{"quantity": 3, "unit": "piece"}
		]
	}`)

	d, err := NewDecomposer(payload)
	if err != nil {
		t.Fatalf("NewDecomposer failed: %v", err)
	}

	refs, warnings := d.Refs()
	if len(refs) != 3 {
		t.Fatalf("Expected 3 refs (nameless record skipped), got %d", len(refs))
	}
	if len(warnings) != 4 {
		t.Fatalf("Expected 4 warnings, got %d: %v", len(warnings), warnings)
	}

	one := decimal.NewFromInt(1)
	if !refs[0].Quantity.Equal(one) || refs[0].Unit != DefaultUnit {
		t.Errorf("Expected Lemon to default to 1 %s, got %s %s", DefaultUnit, refs[0].Quantity, refs[0].Unit)
	}
	if !refs[1].Quantity.Equal(one) || refs[1].Unit != "sprig" {
		t.Errorf("Expected Basil quantity to default to 1, got %s", refs[1].Quantity)
	}
	if !refs[2].Quantity.Equal(one) {
		t.Errorf("Expected negative Flour quantity to default to 1, got %s", refs[2].Quantity)
	}
}

func TestDecomposeAbsentSections(t *testing.T) {
	d, err := NewDecomposer([]byte(`{"individual_items": [{"name": "Egg", "quantity": 12}]}`))
	if err != nil {
		t.Fatalf("NewDecomposer failed: %v", err)
	}
	refs, warnings := d.Refs()
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if len(refs) != 1 || refs[0].Unit != DefaultUnit {
		t.Errorf("Expected single Egg ref with default unit, got %+v", refs)
	}

	d, err = NewDecomposer([]byte(`{}`))
	if err != nil {
		t.Fatalf("NewDecomposer failed on empty object: %v", err)
	}
	refs, _ = d.Refs()
	if len(refs) != 0 {
		t.Errorf("Expected no refs from empty payload, got %d", len(refs))
	}

	d, err = NewDecomposer(nil)
	if err != nil {
		t.Fatalf("NewDecomposer failed on nil payload: %v", err)
	}
	refs, _ = d.Refs()
	if len(refs) != 0 {
		t.Errorf("Expected no refs from nil payload, got %d", len(refs))
	}
}

func TestDecomposeInvalidPayload(t *testing.T) {
	if _, err := NewDecomposer([]byte(`not json`)); err == nil {
		t.Fatal("Expected an error for an unparsable payload, got nil")
	}
}

func TestWalkIsRestartable(t *testing.T) {
	d, err := NewDecomposer([]byte(`{"individual_items": [{"name": "Egg"}, {"name": "Milk"}]}`))
	if err != nil {
		t.Fatalf("NewDecomposer failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		count := 0
		warnings, err := d.Walk(func(Ref) error {
			count++
			return nil
		})
		if err != nil {
			t.Fatalf("Walk %d failed: %v", i, err)
		}
		if count != 2 {
			t.Errorf("Walk %d yielded %d refs, expected 2", i, count)
		}
		if len(warnings) != 2 {
			t.Errorf("Walk %d yielded %d warnings, expected 2", i, len(warnings))
		}
	}
}
