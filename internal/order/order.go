package order

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ErrConflict is returned when a compare-and-swap write loses a race with a
// concurrent update. Callers may re-read and retry.
var ErrConflict = errors.New("order version conflict")

// Status is the order lifecycle state.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusProofSubmitted Status = "PROOF_SUBMITTED"
	StatusConfirmed      Status = "CONFIRMED"
	StatusRejected       Status = "REJECTED"
)

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProofSubmitted, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// ValidationError describes a malformed or missing input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Customer is the contact block attached to an order.
type Customer struct {
	PreferredChannel string `json:"preferredChannel"`
	WhatsAppNumber   string `json:"whatsappNumber,omitempty"`
	Email            string `json:"email,omitempty"`
}

// Item is a single order line. Identity for cart merging purposes is the
// (sku, color, size) triple; see the cart package.
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

// Proof holds customer-submitted payment evidence. URLs is append-only:
// re-opening a rejected order deliberately keeps earlier uploads visible.
type Proof struct {
	URLs        []string   `json:"urls"`
	Reference   string     `json:"reference,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// Order is the persisted order document. ID, CreatedAt, Items, Customer and
// DisplayedSubtotal are immutable after creation; everything else changes
// only through Apply (admin patch) or proof submission.
type Order struct {
	ID                string     `json:"orderId"`
	CreatedAt         time.Time  `json:"createdAt"`
	Status            Status     `json:"status"`
	Customer          Customer   `json:"customer"`
	Items             []Item     `json:"items"`
	DisplayedSubtotal float64    `json:"displayedSubtotal"`
	Notes             string     `json:"notes,omitempty"`
	Proof             Proof      `json:"proof"`
	ConfirmedAt       *time.Time `json:"confirmedAt,omitempty"`
	RejectedAt        *time.Time `json:"rejectedAt,omitempty"`
	RejectReason      string     `json:"rejectReason,omitempty"`

	// Version is the optimistic-concurrency stamp maintained by the store.
	// It is not part of the document's external JSON shape.
	Version int64 `json:"-"`
}

// Summary is the projection returned by admin listings. Per-item detail is
// available only via single-order reads.
type Summary struct {
	ID                string    `json:"orderId"`
	CreatedAt         time.Time `json:"createdAt"`
	Status            Status    `json:"status"`
	Customer          Customer  `json:"customer"`
	ItemCount         int       `json:"itemCount"`
	DisplayedSubtotal float64   `json:"displayedSubtotal"`
	Notes             string    `json:"notes,omitempty"`
	Proof             Proof     `json:"proof"`
	RejectReason      string    `json:"rejectReason,omitempty"`
}

// Summarize projects an order to its listing shape.
func Summarize(o Order) Summary {
	return Summary{
		ID:                o.ID,
		CreatedAt:         o.CreatedAt,
		Status:            o.Status,
		Customer:          o.Customer,
		ItemCount:         len(o.Items),
		DisplayedSubtotal: o.DisplayedSubtotal,
		Notes:             o.Notes,
		Proof:             o.Proof,
		RejectReason:      o.RejectReason,
	}
}

// NormalizePhone reduces a phone number to its digits-only canonical form.
// Formatting characters (spaces, dashes, parentheses, a leading +) are
// stripped; anything else is a validation error.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", invalid("whatsappNumber", "unexpected character %q", r)
		}
	}
	digits := b.String()
	if len(digits) < 7 || len(digits) > 15 {
		return "", invalid("whatsappNumber", "expected 7-15 digits, got %d", len(digits))
	}
	return digits, nil
}

// CreateInput is the payload accepted by Service.Create.
type CreateInput struct {
	Customer          Customer `json:"customer"`
	Items             []Item   `json:"items"`
	DisplayedSubtotal float64  `json:"displayedSubtotal,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// Validate checks the create payload and canonicalizes the contact phone
// number in place.
func (in *CreateInput) Validate() error {
	if len(in.Items) == 0 {
		return invalid("items", "must not be empty")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.SKU) == "" {
			return invalid(fmt.Sprintf("items[%d].sku", i), "must not be empty")
		}
		if strings.TrimSpace(it.Title) == "" {
			return invalid(fmt.Sprintf("items[%d].title", i), "must not be empty")
		}
		if it.Quantity < 1 {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "must be a positive integer")
		}
		if it.UnitPrice < 0 {
			return invalid(fmt.Sprintf("items[%d].unitPrice", i), "must not be negative")
		}
	}
	switch in.Customer.PreferredChannel {
	case "whatsapp", "email":
	default:
		return invalid("customer.preferredChannel", "must be %q or %q", "whatsapp", "email")
	}
	if in.Customer.Email != "" {
		if _, err := mail.ParseAddress(in.Customer.Email); err != nil {
			return invalid("customer.email", "not a valid email address")
		}
	}
	if in.Customer.WhatsAppNumber != "" {
		digits, err := NormalizePhone(in.Customer.WhatsAppNumber)
		if err != nil {
			return err
		}
		in.Customer.WhatsAppNumber = digits
	}
	if in.DisplayedSubtotal < 0 {
		return invalid("displayedSubtotal", "must not be negative")
	}
	return nil
}
