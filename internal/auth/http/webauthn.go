package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/reel/internal/auth/service"
	"github.com/aussiebroadwan/reel/pkg/authsdk"
	"github.com/aussiebroadwan/reel/pkg/httpx"
)

// WebAuthnHandler serves the passkey registration and login ceremonies.
type WebAuthnHandler struct {
	Flow *service.FlowService
}

// HandleRegisterStart godoc
//
//	@Summary		Start passkey registration
//	@Description	Reserves a user id for the handle and returns WebAuthn creation options.
//	@Description	Re-registering an existing handle reuses its user id.
//	@Tags			WebAuthn
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterStartRequest	true	"handle and email"
//	@Success		200		{object}	authsdk.RegisterStartResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_request"
//	@Failure		422		{object}	authsdk.APIError	"handle_email_required"
//	@Failure		429		{object}	authsdk.APIError	"rate_limit_exceeded"
//	@Router			/auth/webauthn/register/start [post].
func (h *WebAuthnHandler) HandleRegisterStart(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := h.Flow.StartRegistration(r.Context(), req.Handle, req.Email)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}

	publicKey, err := json.Marshal(start.Options)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RegisterStartResponse{
		Challenge:  start.Challenge,
		Handle:     start.Handle,
		AuthUserID: start.PendingUserID,
		PublicKey:  publicKey,
	})
}

// HandleRegisterFinish godoc
//
//	@Summary		Finish passkey registration
//	@Description	Consumes the register challenge, creates the user and account if needed,
//	@Description	stores the passkey when one is sent and returns a session.
//	@Tags			WebAuthn
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterFinishRequest	true	"challenge, passkey, deviceLabel"
//	@Success		200		{object}	authsdk.SessionResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_request, invalid_challenge"
//	@Failure		401		{object}	authsdk.APIError	"passkey_invalid"
//	@Router			/auth/webauthn/register/finish [post].
func (h *WebAuthnHandler) HandleRegisterFinish(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterFinishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.Flow.FinishRegistration(r.Context(), req.Challenge, req.Passkey, req.DeviceLabel)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(out))
}

// HandleLoginStart godoc
//
//	@Summary		Start passkey login
//	@Description	Returns WebAuthn request options listing the handle's passkeys.
//	@Tags			WebAuthn
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginStartRequest	true	"handle"
//	@Success		200		{object}	authsdk.LoginStartResponse
//	@Failure		404		{object}	authsdk.APIError	"user_not_found"
//	@Failure		422		{object}	authsdk.APIError	"handle_required"
//	@Router			/auth/webauthn/login/start [post].
func (h *WebAuthnHandler) HandleLoginStart(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := h.Flow.StartLogin(r.Context(), req.Handle)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}

	publicKey, err := json.Marshal(start.Options)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginStartResponse{
		Challenge: start.Challenge,
		Handle:    start.Handle,
		PublicKey: publicKey,
	})
}

// HandleLoginFinish godoc
//
//	@Summary		Finish passkey login
//	@Tags			WebAuthn
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginFinishRequest	true	"challenge and assertion"
//	@Success		200		{object}	authsdk.SessionResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_challenge"
//	@Failure		401		{object}	authsdk.APIError	"passkey_invalid"
//	@Failure		404		{object}	authsdk.APIError	"user_not_found"
//	@Failure		422		{object}	authsdk.APIError	"passkey_required"
//	@Router			/auth/webauthn/login/finish [post].
func (h *WebAuthnHandler) HandleLoginFinish(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginFinishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.Flow.FinishLogin(r.Context(), req.Challenge, req.Passkey)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(out))
}
