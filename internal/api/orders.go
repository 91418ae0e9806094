package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adaora/maison/internal/handoff"
	"github.com/adaora/maison/internal/order"
)

func handleCreateOrder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var in order.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		o, err := deps.Orders.Create(r.Context(), in)
		if err != nil {
			writeDomainError(w, err, "order create")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"orderId":     o.ID,
			"order":       o,
			"whatsappUrl": handoff.CheckoutLink(deps.ConciergeNumber, o),
		})
	}
}

func handleGetOrder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The order id is the customer's capability: no session required.
		id := chi.URLParam(r, "id")
		o, err := deps.Orders.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err, "order get")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": o})
	}
}

func handleListOrders(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := order.ListFilter{
			Status: order.Status(r.URL.Query().Get("status")),
			Query:  r.URL.Query().Get("q"),
		}
		var err error
		if f.From, err = parseTimeParam(r.URL.Query().Get("from")); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid from: %v", err)
			return
		}
		if f.To, err = parseTimeParam(r.URL.Query().Get("to")); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid to: %v", err)
			return
		}

		items, err := deps.Orders.List(r.Context(), f)
		if err != nil {
			writeDomainError(w, err, "order list")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func handlePatchOrder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reading request body: %v", err)
			return
		}

		ops, err := order.ParsePatch(body)
		if err != nil {
			writeDomainError(w, err, "order patch")
			return
		}

		o, err := deps.Orders.Patch(r.Context(), chi.URLParam(r, "id"), ops)
		if err != nil {
			writeDomainError(w, err, "order patch")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": o})
	}
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates. A bare date is
// the start of that day in UTC.
func parseTimeParam(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
