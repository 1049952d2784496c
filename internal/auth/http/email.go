package http

import (
	"net/http"

	"github.com/aussiebroadwan/reel/internal/auth/service"
	"github.com/aussiebroadwan/reel/pkg/authsdk"
	"github.com/aussiebroadwan/reel/pkg/httpx"
)

// EmailHandler serves the email one-time-code login.
type EmailHandler struct {
	Flow *service.FlowService

	// ExposeOTP echoes the code in the start response. Never set in prod.
	ExposeOTP bool
}

// HandleStart godoc
//
//	@Summary		Start email login
//	@Description	Sends a six digit code to the account's email address.
//	@Tags			Email
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.EmailStartRequest	true	"email"
//	@Success		200		{object}	authsdk.EmailStartResponse
//	@Failure		404		{object}	authsdk.APIError	"user_not_found"
//	@Failure		422		{object}	authsdk.APIError	"email_required"
//	@Router			/auth/email/start [post].
func (h *EmailHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := h.Flow.StartEmailLogin(r.Context(), req.Email)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}

	resp := authsdk.EmailStartResponse{Challenge: start.Challenge}
	if h.ExposeOTP {
		resp.OTPPreview = start.Code
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleFinish godoc
//
//	@Summary		Finish email login
//	@Description	A wrong code burns the challenge; the client must start again.
//	@Tags			Email
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.EmailFinishRequest	true	"challenge and code"
//	@Success		200		{object}	authsdk.SessionResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_challenge, invalid_code"
//	@Router			/auth/email/finish [post].
func (h *EmailHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailFinishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.Flow.FinishEmailLogin(r.Context(), req.Challenge, req.Code)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(out))
}
