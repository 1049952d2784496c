package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/reel/internal/auth/service"
	"github.com/aussiebroadwan/reel/pkg/authsdk"
	"github.com/aussiebroadwan/reel/pkg/httpx"
	"github.com/aussiebroadwan/reel/pkg/slogx"
)

// flowErrors maps ceremony failures to their wire errors.
var flowErrors = []struct {
	err error
	api *authsdk.APIError
}{
	{service.ErrHandleEmailRequired, authsdk.ErrHandleEmailRequired},
	{service.ErrHandleRequired, authsdk.ErrHandleRequired},
	{service.ErrEmailRequired, authsdk.ErrEmailRequired},
	{service.ErrPasskeyRequired, authsdk.ErrPasskeyRequired},
	{service.ErrInvalidChallenge, authsdk.ErrInvalidChallenge},
	{service.ErrInvalidCode, authsdk.ErrInvalidCode},
	{service.ErrPasskeyInvalid, authsdk.ErrPasskeyInvalid},
	{service.ErrUserNotFound, authsdk.ErrUserNotFound},
	{service.ErrPasskeyNotFound, authsdk.ErrPasskeyNotFound},
}

// writeFlowError writes the stable error for a known failure and a 500 for
// anything else.
func writeFlowError(w http.ResponseWriter, r *http.Request, err error) {
	for _, fe := range flowErrors {
		if errors.Is(err, fe.err) {
			fe.api.WriteError(w)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	authsdk.ErrServerError.WriteError(w)
}

// decodeBody decodes the JSON body into dst. An empty body leaves dst zeroed
// so required-field checks report the missing fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := httpx.DecodeJSON(w, r, dst)
	if err == nil || errors.Is(err, httpx.ErrEmptyBody) {
		return true
	}

	slogx.FromContext(r.Context()).Info("invalid request body", "err", err)
	authsdk.ErrInvalidRequest.WriteError(w)
	return false
}

func sessionResponse(in service.SignIn) authsdk.SessionResponse {
	return authsdk.SessionResponse{
		SessionToken:     in.Session.Token,
		SessionExpiresAt: in.Session.ExpiresAt,
		Handle:           in.Handle,
	}
}
