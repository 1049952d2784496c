package httpx

import (
	"context"
	"time"
)

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyPrincipal ctxKey = "principal"
)

// Principal is the authenticated session attached to a request.
type Principal struct {
	Token     string
	UserID    string
	Handle    string
	ExpiresAt time.Time
}

// WithPrincipal stores p (and its user id) on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, p.UserID)
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

// PrincipalFromContext returns the principal set by SessionAuthnMiddleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}
