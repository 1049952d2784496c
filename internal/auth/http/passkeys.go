package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/reel/internal/auth/service"
	"github.com/aussiebroadwan/reel/pkg/authsdk"
	"github.com/aussiebroadwan/reel/pkg/httpx"
)

// PasskeysHandler lets a signed-in user manage their own passkeys.
type PasskeysHandler struct {
	Passkeys *service.PasskeyService
}

// HandleList godoc
//
//	@Summary		List passkeys
//	@Tags			Passkeys
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.ListPasskeysResponse
//	@Failure		401	{object}	authsdk.APIError	"not_authenticated"
//	@Router			/auth/passkeys [get].
func (h *PasskeysHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		authsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	list, err := h.Passkeys.ListForUser(r.Context(), p.UserID)
	if err != nil && !errors.Is(err, service.ErrAccountNotFound) {
		writeFlowError(w, r, err)
		return
	}

	resp := authsdk.ListPasskeysResponse{Passkeys: make([]authsdk.PasskeyItem, 0, len(list))}
	for _, pk := range list {
		resp.Passkeys = append(resp.Passkeys, authsdk.PasskeyItem{
			CredentialID: pk.CredentialID,
			DeviceLabel:  pk.DeviceLabel,
			Transports:   pk.Transports,
			CreatedAt:    pk.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleDelete godoc
//
//	@Summary		Delete a passkey
//	@Tags			Passkeys
//	@Security		BearerAuth
//	@Produce		json
//	@Param			credentialId	path		string	true	"credential id"
//	@Success		200				{object}	authsdk.OKResponse
//	@Failure		401				{object}	authsdk.APIError	"not_authenticated"
//	@Router			/auth/passkeys/{credentialId} [delete].
func (h *PasskeysHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		authsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	if err := h.Passkeys.RemoveForUser(r.Context(), p.UserID, r.PathValue("credentialId")); err != nil {
		writeFlowError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.OKResponse{OK: true})
}
