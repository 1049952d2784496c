package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/reel/pkg/slogx"
)

// ErrNoSession is returned by a SessionLookup when the token does not map to
// a live session.
var ErrNoSession = errors.New("httpx: no active session")

// SessionLookup resolves a bearer token to its principal.
type SessionLookup func(ctx context.Context, token string) (Principal, error)

// BearerToken extracts the token from an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// SessionAuthnMiddleware rejects requests without a live session and attaches
// the principal to the request context for downstream handlers.
func SessionAuthnMiddleware(lookup SessionLookup) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := lookup(ctx, raw)
			if errors.Is(err, ErrNoSession) {
				writeBearerError(w, "session expired or unknown")
				return
			}
			if err != nil {
				log.Error("session lookup failed", "err", err)
				WriteJSON(w, http.StatusInternalServerError, map[string]string{
					"error":             "server_error",
					"error_description": "internal server error",
				})
				return
			}

			ctx = slogx.WithUserID(WithPrincipal(ctx, p), p.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "not_authenticated",
		"error_description": desc,
	})
}
