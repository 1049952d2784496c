package service

import "errors"

// Ceremony failures. The HTTP layer maps each of these to a stable error code
// and status; anything else surfacing from a service is an internal error.
var (
	ErrHandleEmailRequired = errors.New("handle and email are required")
	ErrHandleRequired      = errors.New("handle is required")
	ErrEmailRequired       = errors.New("email is required")
	ErrPasskeyRequired     = errors.New("passkey assertion is required")
	ErrInvalidChallenge    = errors.New("challenge is invalid or expired")
	ErrInvalidCode         = errors.New("verification code is invalid")
	ErrPasskeyInvalid      = errors.New("passkey could not be verified")
	ErrUserNotFound        = errors.New("user not found")
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrPasskeyNotFound = errors.New("passkey not found")
	ErrSessionNotFound = errors.New("session not found")
)
