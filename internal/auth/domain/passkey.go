package domain

import "time"

// DefaultDeviceLabel is used when a client does not name its authenticator.
const DefaultDeviceLabel = "WebAuthn device"

// MaxDeviceLabelLength bounds stored device labels, counted in characters.
const MaxDeviceLabelLength = 120

// Passkey is a WebAuthn credential bound to an account. CredentialID is the
// base64url identifier the browser reported and is unique across accounts.
type Passkey struct {
	CredentialID      string
	AccountID         string
	Transports        []string
	BackedUp          bool
	DeviceLabel       string
	AttestationObject []byte
	ClientDataHash    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ParsedRegistration is the validated shape of a registration payload.
type ParsedRegistration struct {
	CredentialID      string
	Type              string
	ClientDataJSON    string
	AttestationObject []byte
	Transports        []string
}

// AssertionResult is what a validated login assertion tells us.
// UserHandle is empty when the authenticator did not return one.
type AssertionResult struct {
	CredentialID string
	UserHandle   string
}
