package order

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DefaultRejectReason is stamped when an order is rejected without an
// explicit reason and none was recorded earlier.
const DefaultRejectReason = "Payment could not be verified. Please contact us."

// PatchOp is one admin edit to an order. The PATCH payload is decoded into a
// list of ops rather than a partial record so unsupported field combinations
// are rejected at the boundary.
type PatchOp interface {
	apply(o *Order, now time.Time)
}

// UpdateNotes replaces the admin notes. Whitespace is trimmed; an empty
// result clears the field.
type UpdateNotes struct {
	Notes string
}

func (p UpdateNotes) apply(o *Order, _ time.Time) {
	o.Notes = strings.TrimSpace(p.Notes)
}

// UpdateProofReference replaces the bank reference on the proof block.
// Whitespace is trimmed; an empty result clears the field.
type UpdateProofReference struct {
	Reference string
}

func (p UpdateProofReference) apply(o *Order, _ time.Time) {
	o.Proof.Reference = strings.TrimSpace(p.Reference)
}

// UpdateRejectReason replaces the reject reason without touching status.
type UpdateRejectReason struct {
	Reason string
}

func (p UpdateRejectReason) apply(o *Order, _ time.Time) {
	o.RejectReason = strings.TrimSpace(p.Reason)
}

// TransitionStatus moves the order to a new lifecycle state. Reason carries
// the rejectReason supplied alongside the status in the same patch;
// ReasonSet distinguishes an explicit empty reason from an absent one.
type TransitionStatus struct {
	Status    Status
	Reason    string
	ReasonSet bool
}

func (p TransitionStatus) apply(o *Order, now time.Time) {
	if p.Status == o.Status {
		// Repeating the current status never re-stamps timestamps.
		return
	}
	switch p.Status {
	case StatusConfirmed:
		t := now
		o.Status = StatusConfirmed
		o.ConfirmedAt = &t
		o.RejectedAt = nil
		o.RejectReason = ""
	case StatusRejected:
		t := now
		o.Status = StatusRejected
		o.RejectedAt = &t
		o.ConfirmedAt = nil
		if p.ReasonSet && strings.TrimSpace(p.Reason) != "" {
			o.RejectReason = strings.TrimSpace(p.Reason)
		}
		if o.RejectReason == "" {
			o.RejectReason = DefaultRejectReason
		}
	default:
		// Re-opening to PENDING or PROOF_SUBMITTED clears both outcomes.
		// Previously uploaded proof files stay on the record.
		o.Status = p.Status
		o.ConfirmedAt = nil
		o.RejectedAt = nil
		if p.ReasonSet {
			o.RejectReason = strings.TrimSpace(p.Reason)
		} else {
			o.RejectReason = ""
		}
	}
}

type patchPayload struct {
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
	RejectReason *string `json:"rejectReason"`
	Proof        *struct {
		Reference *string `json:"reference"`
	} `json:"proof"`
}

// ParsePatch decodes a PATCH body into the ops it requests. Unknown fields
// and an empty patch are validation errors. A rejectReason supplied together
// with a status rides along on the transition; on its own it becomes an
// UpdateRejectReason op.
func ParsePatch(body []byte) ([]PatchOp, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var p patchPayload
	if err := dec.Decode(&p); err != nil {
		return nil, invalid("body", "malformed patch: %v", err)
	}

	var ops []PatchOp
	if p.Notes != nil {
		ops = append(ops, UpdateNotes{Notes: *p.Notes})
	}
	if p.Proof != nil && p.Proof.Reference != nil {
		ops = append(ops, UpdateProofReference{Reference: *p.Proof.Reference})
	}
	switch {
	case p.Status != nil:
		s := Status(*p.Status)
		if !ValidStatus(s) {
			return nil, invalid("status", "unknown status %q", *p.Status)
		}
		t := TransitionStatus{Status: s}
		if p.RejectReason != nil {
			t.Reason = *p.RejectReason
			t.ReasonSet = true
		}
		ops = append(ops, t)
	case p.RejectReason != nil:
		ops = append(ops, UpdateRejectReason{Reason: *p.RejectReason})
	}

	if len(ops) == 0 {
		return nil, invalid("body", "patch must update at least one field")
	}
	return ops, nil
}

// Apply runs the ops against the order in sequence.
func Apply(o *Order, ops []PatchOp, now time.Time) {
	for _, op := range ops {
		op.apply(o, now)
	}
}
