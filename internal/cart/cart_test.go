package cart

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func dress(qty int) Item {
	return Item{SKU: "ADA-001", Title: "Silk Wrap Dress", UnitPrice: 185000, Color: "emerald", Size: "M", Quantity: qty}
}

func TestAddMergesSameVariant(t *testing.T) {
	s := Add(State{}, dress(1))
	s = Add(s, dress(2))

	if len(s.Items) != 1 {
		t.Fatalf("got %d lines, want 1 merged line", len(s.Items))
	}
	if s.Items[0].Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", s.Items[0].Quantity)
	}
}

// TestAddDistinctVariants verifies color and size participate in line
// identity, and that an absent value is distinct from a concrete one.
func TestAddDistinctVariants(t *testing.T) {
	s := Add(State{}, dress(1))

	other := dress(1)
	other.Size = "L"
	s = Add(s, other)

	bare := dress(1)
	bare.Color = ""
	bare.Size = ""
	s = Add(s, bare)

	if len(s.Items) != 3 {
		t.Errorf("got %d lines, want 3 distinct variants", len(s.Items))
	}
}

func TestAddClampsQuantity(t *testing.T) {
	s := Add(State{}, dress(0))
	if s.Items[0].Quantity != 1 {
		t.Errorf("Quantity = %d, want clamped to 1", s.Items[0].Quantity)
	}

	s = Add(State{}, dress(-5))
	if s.Items[0].Quantity != 1 {
		t.Errorf("Quantity = %d, want clamped to 1", s.Items[0].Quantity)
	}
}

// TestAddQuantitySum checks the reducer invariant: after an Add, the
// variant's total quantity equals the previous total plus the added amount.
func TestAddQuantitySum(t *testing.T) {
	var s State
	total := 0
	for _, q := range []int{1, 3, 2, 5} {
		s = Add(s, dress(q))
		total += q
	}
	if len(s.Items) != 1 || s.Items[0].Quantity != total {
		t.Errorf("Quantity = %d, want %d", s.Items[0].Quantity, total)
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	orig := State{Items: []Item{dress(1)}}
	_ = Add(orig, dress(2))

	if orig.Items[0].Quantity != 1 {
		t.Errorf("input state mutated: Quantity = %d, want 1", orig.Items[0].Quantity)
	}
}

func TestRemove(t *testing.T) {
	s := Add(State{}, dress(1))
	other := dress(1)
	other.Size = "L"
	s = Add(s, other)

	t.Run("narrow selector", func(t *testing.T) {
		got := Remove(s, Selector{SKU: "ADA-001", Color: strPtr("emerald"), Size: strPtr("M")})
		if len(got.Items) != 1 || got.Items[0].Size != "L" {
			t.Errorf("Items = %v, want only size L left", got.Items)
		}
	})

	t.Run("sku only removes all variants", func(t *testing.T) {
		got := Remove(s, Selector{SKU: "ADA-001"})
		if len(got.Items) != 0 {
			t.Errorf("Items = %v, want empty", got.Items)
		}
	})

	t.Run("no match", func(t *testing.T) {
		got := Remove(s, Selector{SKU: "ADA-999"})
		if len(got.Items) != 2 {
			t.Errorf("got %d lines, want untouched 2", len(got.Items))
		}
	})
}

func TestIncrementDecrement(t *testing.T) {
	sel := Selector{SKU: "ADA-001", Color: strPtr("emerald"), Size: strPtr("M")}
	s := Add(State{}, dress(2))

	s = Increment(s, sel)
	if s.Items[0].Quantity != 3 {
		t.Errorf("after Increment: Quantity = %d, want 3", s.Items[0].Quantity)
	}

	s = Decrement(s, sel)
	s = Decrement(s, sel)
	if s.Items[0].Quantity != 1 {
		t.Errorf("after Decrements: Quantity = %d, want 1", s.Items[0].Quantity)
	}

	// Decrement floors at 1; removal requires an explicit Remove.
	s = Decrement(s, sel)
	if len(s.Items) != 1 || s.Items[0].Quantity != 1 {
		t.Errorf("after floor Decrement: Items = %v, want line kept at 1", s.Items)
	}
}

func TestUpdateSelections(t *testing.T) {
	s := Add(State{}, dress(1))

	got := UpdateSelections(s, Selector{SKU: "ADA-001"}, SelectionPatch{Size: strPtr("L")})
	if got.Items[0].Size != "L" {
		t.Errorf("Size = %q, want L", got.Items[0].Size)
	}
	if got.Items[0].Color != "emerald" {
		t.Errorf("Color = %q, want unchanged", got.Items[0].Color)
	}
}

func TestClear(t *testing.T) {
	s := Add(State{}, dress(3))
	got := Clear(s)
	if len(got.Items) != 0 {
		t.Errorf("Items = %v, want empty", got.Items)
	}
}

func TestHydrate(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantItems int
	}{
		{
			name:      "valid lines",
			payload:   `{"items":[{"sku":"A","title":"One","quantity":2},{"sku":"B","title":"Two","quantity":1}]}`,
			wantItems: 2,
		},
		{
			name:      "drops line missing sku",
			payload:   `{"items":[{"title":"One","quantity":1},{"sku":"B","title":"Two","quantity":1}]}`,
			wantItems: 1,
		},
		{
			name:      "drops line missing title",
			payload:   `{"items":[{"sku":"A","quantity":1}]}`,
			wantItems: 0,
		},
		{
			name:      "drops zero and negative quantity",
			payload:   `{"items":[{"sku":"A","title":"One","quantity":0},{"sku":"B","title":"Two","quantity":-2}]}`,
			wantItems: 0,
		},
		{
			name:      "empty array clears",
			payload:   `{"items":[]}`,
			wantItems: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prior := Add(State{}, dress(1))
			got := Hydrate(prior, []byte(tt.payload))
			if len(got.Items) != tt.wantItems {
				t.Errorf("got %d items, want %d", len(got.Items), tt.wantItems)
			}
		})
	}
}

// TestHydrateKeepsStateOnBadPayload verifies an undecodable payload leaves
// the prior cart intact instead of wiping it.
func TestHydrateKeepsStateOnBadPayload(t *testing.T) {
	prior := Add(State{}, dress(2))

	for _, payload := range []string{`not json`, `{}`, `{"items":"nope"}`} {
		got := Hydrate(prior, []byte(payload))
		if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
			t.Errorf("Hydrate(%q) = %v, want prior state kept", payload, got.Items)
		}
	}
}

func TestHydrateCoercesFractionalQuantity(t *testing.T) {
	got := Hydrate(State{}, []byte(`{"items":[{"sku":"A","title":"One","quantity":2.7}]}`))
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("Items = %v, want quantity coerced to 2", got.Items)
	}
}
