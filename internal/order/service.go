package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the durable order document store. Implementations return
// ErrNotFound for unknown ids and ErrConflict when an Update loses a
// version race.
type Store interface {
	SaveOrder(ctx context.Context, o Order) error
	GetOrder(ctx context.Context, id string) (Order, error)
	// UpdateOrder persists o only if the stored version still equals
	// o.Version, then bumps the version.
	UpdateOrder(ctx context.Context, o Order) error
	// ListOrders returns orders filtered by status (empty matches all) and
	// creation time range, newest first.
	ListOrders(ctx context.Context, status Status, from, to *time.Time) ([]Order, error)
}

// ListFilter narrows an admin listing. Query matches case-insensitively
// against order id, contact phone, contact email, and item sku+title.
type ListFilter struct {
	Status Status
	Query  string
	From   *time.Time
	To     *time.Time
}

// Service implements the order lifecycle over a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service. The clock defaults to time.Now and is
// injectable for tests.
func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates the input and persists a fresh PENDING order.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if err := in.Validate(); err != nil {
		return Order{}, err
	}

	o := Order{
		ID:                uuid.New().String(),
		CreatedAt:         s.now(),
		Status:            StatusPending,
		Customer:          in.Customer,
		Items:             in.Items,
		DisplayedSubtotal: in.DisplayedSubtotal,
		Notes:             strings.TrimSpace(in.Notes),
		Proof:             Proof{URLs: []string{}},
		Version:           1,
	}
	if err := s.store.SaveOrder(ctx, o); err != nil {
		return Order{}, fmt.Errorf("persisting order %s: %w", o.ID, err)
	}
	return o, nil
}

// Get fetches a single order by id.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.store.GetOrder(ctx, id)
}

// Patch applies admin edits to an order. On a version conflict it re-reads
// and re-applies once before giving up.
func (s *Service) Patch(ctx context.Context, id string, ops []PatchOp) (Order, error) {
	for attempt := 0; ; attempt++ {
		o, err := s.store.GetOrder(ctx, id)
		if err != nil {
			return Order{}, err
		}
		Apply(&o, ops, s.now())
		err = s.store.UpdateOrder(ctx, o)
		if err == nil {
			o.Version++
			return o, nil
		}
		if !errors.Is(err, ErrConflict) || attempt > 0 {
			return Order{}, fmt.Errorf("updating order %s: %w", id, err)
		}
	}
}

// AttachProof appends a stored proof file URL to the order and stamps the
// submission. Status flips to PROOF_SUBMITTED unless the order is already
// CONFIRMED. Retries once on a version conflict; the blob is already stored
// so a retry only re-applies the document change.
func (s *Service) AttachProof(ctx context.Context, id, url, reference string) (Order, error) {
	for attempt := 0; ; attempt++ {
		o, err := s.store.GetOrder(ctx, id)
		if err != nil {
			return Order{}, err
		}
		now := s.now()
		o.Proof.URLs = append(o.Proof.URLs, url)
		if ref := strings.TrimSpace(reference); ref != "" {
			o.Proof.Reference = ref
		}
		o.Proof.SubmittedAt = &now
		if o.Status != StatusConfirmed {
			o.Status = StatusProofSubmitted
		}
		err = s.store.UpdateOrder(ctx, o)
		if err == nil {
			o.Version++
			return o, nil
		}
		if !errors.Is(err, ErrConflict) || attempt > 0 {
			return Order{}, fmt.Errorf("attaching proof to order %s: %w", id, err)
		}
	}
}

// List returns summaries of orders matching the filter, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Summary, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, invalid("status", "unknown status %q", string(f.Status))
	}
	orders, err := s.store.ListOrders(ctx, f.Status, f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	summaries := make([]Summary, 0, len(orders))
	for _, o := range orders {
		if q != "" && !strings.Contains(haystack(o), q) {
			continue
		}
		summaries = append(summaries, Summarize(o))
	}
	return summaries, nil
}

// haystack concatenates the searchable fields of an order into one
// lowercased string. Deliberately one combined haystack, not per-field
// matching: a digit sequence can match an unrelated order id, which the
// dashboard accepts in exchange for a single search box.
func haystack(o Order) string {
	var b strings.Builder
	b.WriteString(o.ID)
	b.WriteByte(' ')
	b.WriteString(o.Customer.WhatsAppNumber)
	b.WriteByte(' ')
	b.WriteString(o.Customer.Email)
	for _, it := range o.Items {
		b.WriteByte(' ')
		b.WriteString(it.SKU)
		b.WriteByte(' ')
		b.WriteString(it.Title)
	}
	return strings.ToLower(b.String())
}
