// Package cart implements the customer cart as a set of pure reducers over
// an ordered list of lines. A line's identity is the (sku, color, size)
// triple; an absent color or size is a distinct identity from any concrete
// value. Reducers never mutate their input state.
package cart

import (
	"encoding/json"
	"math"
	"strings"
)

// Item is one cart line. Quantity is always >= 1 for lines held in a State.
type Item struct {
	ProductID string  `json:"productId,omitempty"`
	SKU       string  `json:"sku"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice,omitempty"`
	Image     string  `json:"image,omitempty"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
}

// State holds the cart lines. Insertion order is display order.
type State struct {
	Items []Item `json:"items"`
}

// Selector identifies lines for removal and quantity adjustments. Color and
// Size narrow the match only when non-nil; a nil field matches any value.
type Selector struct {
	SKU   string
	Color *string
	Size  *string
}

func (sel Selector) matches(it Item) bool {
	if it.SKU != sel.SKU {
		return false
	}
	if sel.Color != nil && it.Color != *sel.Color {
		return false
	}
	if sel.Size != nil && it.Size != *sel.Size {
		return false
	}
	return true
}

func sameVariant(a, b Item) bool {
	return a.SKU == b.SKU && a.Color == b.Color && a.Size == b.Size
}

func clone(s State) State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return State{Items: items}
}

// Add merges the item into an existing line with the same variant triple,
// or appends a new line. The variant's total quantity afterwards equals the
// previous quantity plus it.Quantity (minimum 1).
func Add(s State, it Item) State {
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	next := clone(s)
	for i := range next.Items {
		if sameVariant(next.Items[i], it) {
			next.Items[i].Quantity += it.Quantity
			return next
		}
	}
	next.Items = append(next.Items, it)
	return next
}

// Remove deletes all lines matching the selector.
func Remove(s State, sel Selector) State {
	next := State{Items: make([]Item, 0, len(s.Items))}
	for _, it := range s.Items {
		if !sel.matches(it) {
			next.Items = append(next.Items, it)
		}
	}
	return next
}

// Increment raises the quantity of matching lines by one.
func Increment(s State, sel Selector) State {
	next := clone(s)
	for i := range next.Items {
		if sel.matches(next.Items[i]) {
			next.Items[i].Quantity++
		}
	}
	return next
}

// Decrement lowers the quantity of matching lines by one, flooring at 1.
// Removal is always an explicit Remove, never a decrement to zero.
func Decrement(s State, sel Selector) State {
	next := clone(s)
	for i := range next.Items {
		if sel.matches(next.Items[i]) && next.Items[i].Quantity > 1 {
			next.Items[i].Quantity--
		}
	}
	return next
}

// SelectionPatch is a partial update to a line's chosen options.
type SelectionPatch struct {
	Color *string
	Size  *string
}

// UpdateSelections merges the patch into all lines matching the selector.
func UpdateSelections(s State, sel Selector, patch SelectionPatch) State {
	next := clone(s)
	for i := range next.Items {
		if !sel.matches(next.Items[i]) {
			continue
		}
		if patch.Color != nil {
			next.Items[i].Color = *patch.Color
		}
		if patch.Size != nil {
			next.Items[i].Size = *patch.Size
		}
	}
	return next
}

// Clear empties the cart.
func Clear(State) State {
	return State{Items: []Item{}}
}

// persistedItem decodes loosely so a single malformed line can be dropped
// without aborting the whole hydration.
type persistedItem struct {
	ProductID *string  `json:"productId"`
	SKU       *string  `json:"sku"`
	Title     *string  `json:"title"`
	UnitPrice *float64 `json:"unitPrice"`
	Image     *string  `json:"image"`
	Color     *string  `json:"color"`
	Size      *string  `json:"size"`
	Quantity  *float64 `json:"quantity"`
}

// Hydrate replaces the state wholesale from a persisted payload. A payload
// without a decodable items array leaves the state untouched. Lines missing
// a sku or title, or with a non-finite or non-positive quantity, are
// silently dropped; fractional quantities are coerced to integers >= 1.
func Hydrate(s State, payload []byte) State {
	var envelope struct {
		Items *[]json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.Items == nil {
		return s
	}

	items := make([]Item, 0, len(*envelope.Items))
	for _, raw := range *envelope.Items {
		var p persistedItem
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		if p.SKU == nil || strings.TrimSpace(*p.SKU) == "" {
			continue
		}
		if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
			continue
		}
		if p.Quantity == nil || math.IsNaN(*p.Quantity) || math.IsInf(*p.Quantity, 0) || *p.Quantity <= 0 {
			continue
		}
		qty := int(*p.Quantity)
		if qty < 1 {
			qty = 1
		}
		it := Item{SKU: *p.SKU, Title: *p.Title, Quantity: qty}
		if p.ProductID != nil {
			it.ProductID = *p.ProductID
		}
		if p.UnitPrice != nil && !math.IsNaN(*p.UnitPrice) && !math.IsInf(*p.UnitPrice, 0) && *p.UnitPrice >= 0 {
			it.UnitPrice = *p.UnitPrice
		}
		if p.Image != nil {
			it.Image = *p.Image
		}
		if p.Color != nil {
			it.Color = *p.Color
		}
		if p.Size != nil {
			it.Size = *p.Size
		}
		items = append(items, it)
	}
	return State{Items: items}
}
