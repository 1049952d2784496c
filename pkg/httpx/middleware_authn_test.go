package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/reel/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"standard", "Bearer abc", "abc", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"extra spaces", "  Bearer   abc  ", "abc", true},
		{"missing", "", "", false},
		{"basic", "Basic abc", "", false},
		{"no token", "Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := httpx.BearerToken(req)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSessionAuthnMiddleware(t *testing.T) {
	lookup := func(_ context.Context, token string) (httpx.Principal, error) {
		switch token {
		case "good":
			return httpx.Principal{Token: token, UserID: "u1", Handle: "alice"}, nil
		case "boom":
			return httpx.Principal{}, errors.New("db down")
		default:
			return httpx.Principal{}, httpx.ErrNoSession
		}
	}

	var seen httpx.Principal
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}), httpx.SessionAuthnMiddleware(lookup))

	serve := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve("Bearer good")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "alice", seen.Handle)
	require.Equal(t, "u1", seen.UserID)

	rec = serve("")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	require.Contains(t, rec.Body.String(), "not_authenticated")

	rec = serve("Bearer stale")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve("Bearer boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
