package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/reel/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeHandleEmailRequired = "handle_email_required"
	ErrorCodeHandleRequired      = "handle_required"
	ErrorCodeEmailRequired       = "email_required"
	ErrorCodePasskeyRequired     = "passkey_required"
	ErrorCodeInvalidChallenge    = "invalid_challenge"
	ErrorCodeInvalidCode         = "invalid_code"
	ErrorCodePasskeyInvalid      = "passkey_invalid"
	ErrorCodeUserNotFound        = "user_not_found"
	ErrorCodePasskeyNotFound     = "passkey_not_found"

	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeNotAuthenticated  = "not_authenticated"
	ErrorCodeServerError       = "server_error"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the error body every endpoint returns. It is used by the server
// to write responses and by the SDK client to represent failures.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the stable machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrHandleEmailRequired = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeHandleEmailRequired,
		Description: "handle and email are required",
	}

	ErrHandleRequired = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeHandleRequired,
		Description: "handle is required",
	}

	ErrEmailRequired = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeEmailRequired,
		Description: "email is required",
	}

	ErrPasskeyRequired = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodePasskeyRequired,
		Description: "a passkey assertion is required",
	}

	// ErrInvalidChallenge covers unknown, expired, reused and wrong-kind
	// challenges alike.
	ErrInvalidChallenge = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidChallenge,
		Description: "challenge is invalid or expired",
	}

	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCode,
		Description: "verification code is invalid",
	}

	ErrPasskeyInvalid = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodePasskeyInvalid,
		Description: "passkey could not be verified",
	}

	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUserNotFound,
		Description: "user not found",
	}

	ErrPasskeyNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodePasskeyNotFound,
		Description: "passkey not found",
	}

	// ErrInvalidRequest is returned when the body is not valid JSON.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request body is malformed",
	}

	ErrNotAuthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeNotAuthenticated,
		Description: "session expired or unknown",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. Returns nil
// for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	// Fallback: create generic error from status code
	return NewAPIError(resp.StatusCode, ErrorCodeServerError,
		fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
}
