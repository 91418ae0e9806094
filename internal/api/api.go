// Package api exposes the order lifecycle, proof upload, admin session,
// and concierge chat endpoints over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adaora/maison/internal/blob"
	"github.com/adaora/maison/internal/composer"
	"github.com/adaora/maison/internal/knowledge"
	"github.com/adaora/maison/internal/order"
	"github.com/adaora/maison/internal/proxy"
	"github.com/adaora/maison/internal/session"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds the collaborators behind the HTTP surface.
type Deps struct {
	Orders   *order.Service
	Guard    *session.Guard
	Corpus   *knowledge.Corpus
	Chat     *proxy.Client
	Composer *composer.Composer
	Blobs    blob.Store

	// ConciergeNumber is the digits-only WhatsApp target for checkout
	// handoff links. Empty yields links without a target.
	ConciergeNumber string
	// DevMode disables the Secure flag on the session cookie.
	DevMode bool
	// Uploads optionally serves locally stored proof files (fs backend).
	Uploads http.Handler
}

// NewHandler builds the router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/admin/login", handleLogin(deps))
	r.Post("/chat", handleChat(deps))

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", handleCreateOrder(deps))
		r.Get("/{id}", handleGetOrder(deps))
		r.Post("/{id}/proof", handleUploadProof(deps))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin(deps.Guard))
			r.Get("/", handleListOrders(deps))
			r.Patch("/{id}", handlePatchOrder(deps))
		})
	})

	if deps.Uploads != nil {
		r.Mount("/uploads", http.StripPrefix("/uploads", deps.Uploads))
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Validation
// and not-found messages go out verbatim; infrastructure failures are
// logged with context and returned as a generic message.
func writeDomainError(w http.ResponseWriter, err error, operation string) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", verr)
	case errors.Is(err, order.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found_error", "%v", err)
	case errors.Is(err, order.ErrConflict):
		httpError(w, http.StatusConflict, "conflict_error", "the order was modified concurrently, retry the request")
	default:
		slog.Error(operation+" failed", "error", err)
		httpError(w, http.StatusInternalServerError, "api_error", "a storage error occurred, please retry")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
