package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/reel/internal/auth/service"
	"github.com/aussiebroadwan/reel/pkg/authsdk"
	"github.com/aussiebroadwan/reel/pkg/httpx"
)

type SessionHandler struct {
	Sessions *service.SessionService
}

// Lookup adapts SessionService.Validate for httpx.SessionAuthnMiddleware.
func (h *SessionHandler) Lookup(ctx context.Context, token string) (httpx.Principal, error) {
	sess, err := h.Sessions.Validate(ctx, token)
	if errors.Is(err, service.ErrSessionNotFound) {
		return httpx.Principal{}, httpx.ErrNoSession
	}
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Handle:    sess.Handle,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// HandleStatus godoc
//
//	@Summary		Session status
//	@Description	Reports whether the bearer token is a live session. A missing or dead
//	@Description	token is not an error.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionStatusResponse
//	@Router			/auth/session [get].
func (h *SessionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, authsdk.SessionStatusResponse{})
		return
	}

	p, err := h.Lookup(r.Context(), token)
	if errors.Is(err, httpx.ErrNoSession) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.SessionStatusResponse{})
		return
	}
	if err != nil {
		writeFlowError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionStatusResponse{
		Authenticated:    true,
		SessionToken:     p.Token,
		SessionExpiresAt: &p.ExpiresAt,
		User:             &authsdk.SessionUser{ID: p.UserID, Handle: p.Handle},
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh session
//	@Description	Slides the session expiry to now plus the session TTL.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionRefreshResponse
//	@Failure		401	{object}	authsdk.APIError	"not_authenticated"
//	@Router			/auth/session/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		authsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	expiresAt, err := h.Sessions.Refresh(r.Context(), p.Token)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionRefreshResponse{SessionExpiresAt: expiresAt})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Destroys the bearer session if there is one. Always succeeds.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.OKResponse
//	@Router			/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := httpx.BearerToken(r); ok {
		if err := h.Sessions.Destroy(r.Context(), token); err != nil {
			writeFlowError(w, r, err)
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.OKResponse{OK: true})
}
