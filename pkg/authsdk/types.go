package authsdk

import (
	"encoding/json"
	"time"
)

// ============================================================================
// WebAuthn Registration
// ============================================================================

type RegisterStartRequest struct {
	Handle string `json:"handle" example:"alice"`
	Email  string `json:"email" example:"alice@example.com"`
}

type RegisterStartResponse struct {
	Challenge string `json:"challenge"`
	Handle    string `json:"handle" example:"alice"`

	// AuthUserID is the user id the account will be created with.
	AuthUserID string `json:"authUserId"`

	// PublicKey holds the options for navigator.credentials.create().
	PublicKey json.RawMessage `json:"publicKey" swaggertype:"object"`
}

type RegisterFinishRequest struct {
	Challenge string `json:"challenge"`

	// Passkey is the credential JSON from navigator.credentials.create().
	// Optional; without it the account is created passkey-less.
	Passkey     json.RawMessage `json:"passkey,omitempty" swaggertype:"object"`
	DeviceLabel string          `json:"deviceLabel,omitempty" example:"Laptop"`
}

// ============================================================================
// WebAuthn Login
// ============================================================================

type LoginStartRequest struct {
	Handle string `json:"handle" example:"alice"`
}

type LoginStartResponse struct {
	Challenge string `json:"challenge"`
	Handle    string `json:"handle" example:"alice"`

	// PublicKey holds the options for navigator.credentials.get().
	PublicKey json.RawMessage `json:"publicKey" swaggertype:"object"`
}

type LoginFinishRequest struct {
	Challenge string          `json:"challenge"`
	Passkey   json.RawMessage `json:"passkey" swaggertype:"object"`
}

// ============================================================================
// Email OTP
// ============================================================================

type EmailStartRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

type EmailStartResponse struct {
	Challenge string `json:"challenge"`

	// OTPPreview echoes the code outside production.
	OTPPreview string `json:"otpPreview,omitempty" example:"482913"`
}

type EmailFinishRequest struct {
	Challenge string `json:"challenge"`
	Code      string `json:"code" example:"482913"`
}

// ============================================================================
// Sessions
// ============================================================================

// SessionResponse is returned by every successful finish.
type SessionResponse struct {
	SessionToken     string    `json:"sessionToken"`
	SessionExpiresAt time.Time `json:"sessionExpiresAt"`
	Handle           string    `json:"handle" example:"alice"`
}

type SessionUser struct {
	ID     string `json:"id"`
	Handle string `json:"handle" example:"alice"`
}

type SessionStatusResponse struct {
	Authenticated    bool         `json:"authenticated"`
	SessionToken     string       `json:"sessionToken,omitempty"`
	SessionExpiresAt *time.Time   `json:"sessionExpiresAt,omitempty"`
	User             *SessionUser `json:"user,omitempty"`
}

type SessionRefreshResponse struct {
	SessionExpiresAt time.Time `json:"sessionExpiresAt"`
}

type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// ============================================================================
// Passkeys
// ============================================================================

type PasskeyItem struct {
	CredentialID string    `json:"credentialId"`
	DeviceLabel  string    `json:"deviceLabel" example:"WebAuthn device"`
	Transports   []string  `json:"transports,omitempty" example:"internal,hybrid"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ListPasskeysResponse struct {
	Passkeys []PasskeyItem `json:"passkeys"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each dependency the service needs.
type HealthChecks struct {
	Database   string `json:"database"`
	Challenges string `json:"challenges,omitempty"`
}
