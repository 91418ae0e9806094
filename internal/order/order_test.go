package order

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare digits", raw: "2348012345678", want: "2348012345678"},
		{name: "leading plus", raw: "+2348012345678", want: "2348012345678"},
		{name: "formatted", raw: "+234 (801) 234-5678", want: "2348012345678"},
		{name: "dots", raw: "0801.234.5678", want: "08012345678"},
		{name: "too short", raw: "+123456", wantErr: true},
		{name: "too long", raw: "1234567890123456", wantErr: true},
		{name: "letters", raw: "+234 CALL ME", wantErr: true},
		{name: "plus not leading", raw: "234+8012345678", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizePhone(%q) = %q, want error", tt.raw, got)
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("NormalizePhone(%q) error = %T, want *ValidationError", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func validInput() CreateInput {
	return CreateInput{
		Customer: Customer{
			PreferredChannel: "whatsapp",
			WhatsAppNumber:   "+234 801 234 5678",
		},
		Items: []Item{
			{SKU: "ADA-001", Title: "Silk Wrap Dress", UnitPrice: 185000, Quantity: 1},
		},
		DisplayedSubtotal: 185000,
	}
}

func TestCreateInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateInput)
		wantField string
	}{
		{name: "valid", mutate: func(in *CreateInput) {}},
		{
			name:      "no items",
			mutate:    func(in *CreateInput) { in.Items = nil },
			wantField: "items",
		},
		{
			name:      "missing sku",
			mutate:    func(in *CreateInput) { in.Items[0].SKU = "  " },
			wantField: "items[0].sku",
		},
		{
			name:      "missing title",
			mutate:    func(in *CreateInput) { in.Items[0].Title = "" },
			wantField: "items[0].title",
		},
		{
			name:      "zero quantity",
			mutate:    func(in *CreateInput) { in.Items[0].Quantity = 0 },
			wantField: "items[0].quantity",
		},
		{
			name:      "negative unit price",
			mutate:    func(in *CreateInput) { in.Items[0].UnitPrice = -1 },
			wantField: "items[0].unitPrice",
		},
		{
			name:      "bad channel",
			mutate:    func(in *CreateInput) { in.Customer.PreferredChannel = "sms" },
			wantField: "customer.preferredChannel",
		},
		{
			name:      "bad email",
			mutate:    func(in *CreateInput) { in.Customer.Email = "not-an-email" },
			wantField: "customer.email",
		},
		{
			name:      "bad phone",
			mutate:    func(in *CreateInput) { in.Customer.WhatsAppNumber = "abc" },
			wantField: "whatsappNumber",
		},
		{
			name:      "negative subtotal",
			mutate:    func(in *CreateInput) { in.DisplayedSubtotal = -50 },
			wantField: "displayedSubtotal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate error field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

// TestValidateCanonicalizesPhone verifies the contact number is rewritten
// to digits-only form in place.
func TestValidateCanonicalizesPhone(t *testing.T) {
	in := validInput()
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if in.Customer.WhatsAppNumber != "2348012345678" {
		t.Errorf("WhatsAppNumber = %q, want digits-only form", in.Customer.WhatsAppNumber)
	}
}

func TestSummarize(t *testing.T) {
	o := Order{
		ID:     "ord-1",
		Status: StatusPending,
		Items: []Item{
			{SKU: "A", Title: "One", Quantity: 2},
			{SKU: "B", Title: "Two", Quantity: 1},
		},
		DisplayedSubtotal: 420,
		Notes:             "VIP client",
	}

	s := Summarize(o)
	if s.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", s.ItemCount)
	}
	if s.DisplayedSubtotal != 420 {
		t.Errorf("DisplayedSubtotal = %v, want 420", s.DisplayedSubtotal)
	}
	if s.Notes != "VIP client" {
		t.Errorf("Notes = %q", s.Notes)
	}
}
