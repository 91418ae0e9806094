// Package handoff builds the concierge handoff link: a WhatsApp deep link
// pre-filled with an order summary, replacing a traditional checkout
// payment step.
package handoff

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/adaora/maison/internal/order"
)

// CheckoutLink returns the wa.me deep link for an order, targeting the
// house's concierge number. An empty number yields a link with an empty
// target, which WhatsApp opens as a recipient picker.
func CheckoutLink(conciergeNumber string, o order.Order) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s",
		conciergeNumber, url.QueryEscape(Summary(o)))
}

// Summary renders the human-readable order message the customer sends to
// the concierge.
func Summary(o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! I would like to place an order.\n\nOrder ref: %s\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "\n- %s x%d", it.Title, it.Quantity)
		if it.Color != "" {
			fmt.Fprintf(&b, ", %s", it.Color)
		}
		if it.Size != "" {
			fmt.Fprintf(&b, ", size %s", it.Size)
		}
		fmt.Fprintf(&b, " (%s)", it.SKU)
	}
	if o.DisplayedSubtotal > 0 {
		fmt.Fprintf(&b, "\n\nDisplayed subtotal: %.2f", o.DisplayedSubtotal)
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", o.Notes)
	}
	b.WriteString("\n\nPlease confirm availability and final pricing. Thank you!")
	return b.String()
}
