// Package session implements the admin session guard: a single shared
// password exchanged for a signed, time-limited session token carried in an
// HTTP-only cookie. Signing and verification happen at one boundary; the
// cookie string is purely an opaque transport for the claims.
package session

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie issued on login.
const CookieName = "maison_session"

// TTL is the session lifetime.
const TTL = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned by Issue on a password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims is the typed session payload: subject, role, and expiry.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Guard issues and validates admin session tokens.
type Guard struct {
	password []byte
	secret   []byte
	now      func() time.Time
}

// NewGuard creates a Guard with the shared admin password and the
// HMAC signing secret. Both come from configuration and must be non-empty.
func NewGuard(password, secret string) *Guard {
	return &Guard{
		password: []byte(password),
		secret:   []byte(secret),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the guard clock. Test hook.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Issue checks the password and returns a signed session token.
func (g *Guard) Issue(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), g.password) != 1 {
		return "", ErrInvalidCredentials
	}
	now := g.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
		Role: "admin",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate extracts the session cookie from a Cookie header and verifies
// it. It returns the decoded claims, or nil for anything short of a valid,
// unexpired admin token — missing cookie, bad signature, expiry, wrong
// role. It never returns an error: nil claims simply means unauthenticated.
func (g *Guard) Validate(cookieHeader string) *Claims {
	if cookieHeader == "" {
		return nil
	}
	// Reuse net/http's cookie parsing for the raw header value.
	req := http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	c, err := req.Cookie(CookieName)
	if err != nil {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(c.Value, claims,
		func(t *jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !token.Valid {
		return nil
	}
	if claims.Role != "admin" {
		return nil
	}
	return claims
}

// Cookie wraps a signed token in the session cookie. Secure is set outside
// local development.
func (g *Guard) Cookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
