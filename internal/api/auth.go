package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adaora/maison/internal/session"
)

// requireAdmin gates admin-only routes on a valid session cookie. It fails
// closed: any missing, malformed, or expired token is a 401.
func requireAdmin(guard *session.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard.Validate(r.Header.Get("Cookie")) == nil {
				httpError(w, http.StatusUnauthorized, "authentication_error", "admin session required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleLogin(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		token, err := deps.Guard.Issue(req.Password)
		if err != nil {
			if errors.Is(err, session.ErrInvalidCredentials) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid password")
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "could not issue session")
			return
		}

		http.SetCookie(w, deps.Guard.Cookie(token, !deps.DevMode))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
