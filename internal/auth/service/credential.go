package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/internal/auth/store"
	"github.com/aussiebroadwan/reel/pkg/cryptox"
	"github.com/go-webauthn/webauthn/protocol"
)

var (
	ErrInvalidPayload       = errors.New("invalid passkey payload")
	ErrPasskeyNotRegistered = errors.New("passkey not registered")
)

// CredentialValidator checks the shape of browser credential payloads and, for
// assertions, that the credential is registered to the account. It does not
// verify attestation or assertion signatures.
type CredentialValidator struct {
	Store store.Store
}

type registrationPayload struct {
	ID       *string `json:"id"`
	RawID    *string `json:"rawId"`
	Type     *string `json:"type"`
	Response *struct {
		ClientDataJSON    *string  `json:"clientDataJSON"`
		AttestationObject *string  `json:"attestationObject"`
		Transports        []string `json:"transports"`
	} `json:"response"`
}

type assertionPayload struct {
	ID       *string `json:"id"`
	RawID    *string `json:"rawId"`
	Type     *string `json:"type"`
	Response *struct {
		ClientDataJSON    *string `json:"clientDataJSON"`
		AuthenticatorData *string `json:"authenticatorData"`
		Signature         *string `json:"signature"`
		UserHandle        *string `json:"userHandle"`
	} `json:"response"`
}

// ValidateRegistration parses a navigator.credentials.create() result.
func (v *CredentialValidator) ValidateRegistration(raw json.RawMessage) (domain.ParsedRegistration, error) {
	var p registrationPayload
	if err := decodePayload(raw, &p); err != nil {
		return domain.ParsedRegistration{}, err
	}
	if p.Type == nil || p.Response == nil || p.Response.ClientDataJSON == nil {
		return domain.ParsedRegistration{}, fmt.Errorf("%w: missing required fields", ErrInvalidPayload)
	}

	credentialID, err := resolveCredentialID(p.ID, p.RawID)
	if err != nil {
		return domain.ParsedRegistration{}, err
	}

	out := domain.ParsedRegistration{
		CredentialID:   credentialID,
		Type:           *p.Type,
		ClientDataJSON: *p.Response.ClientDataJSON,
		Transports:     normalizeTransports(p.Response.Transports),
	}

	if p.Response.AttestationObject != nil {
		out.AttestationObject, err = cryptox.DecodeBase64URL(*p.Response.AttestationObject)
		if err != nil {
			return domain.ParsedRegistration{}, fmt.Errorf("%w: attestationObject: %v", ErrInvalidPayload, err)
		}
	}
	return out, nil
}

// ValidateAssertion parses a navigator.credentials.get() result and confirms
// the credential belongs to accountID.
func (v *CredentialValidator) ValidateAssertion(ctx context.Context, accountID string, raw json.RawMessage) (domain.AssertionResult, error) {
	var p assertionPayload
	if err := decodePayload(raw, &p); err != nil {
		return domain.AssertionResult{}, err
	}
	if p.Type == nil || p.Response == nil || p.Response.ClientDataJSON == nil {
		return domain.AssertionResult{}, fmt.Errorf("%w: missing required fields", ErrInvalidPayload)
	}

	credentialID, err := resolveCredentialID(p.ID, p.RawID)
	if err != nil {
		return domain.AssertionResult{}, err
	}

	for name, field := range map[string]*string{
		"authenticatorData": p.Response.AuthenticatorData,
		"signature":         p.Response.Signature,
	} {
		if field == nil {
			continue
		}
		if _, err := cryptox.DecodeBase64URL(*field); err != nil {
			return domain.AssertionResult{}, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, name, err)
		}
	}

	var userHandle string
	if p.Response.UserHandle != nil && *p.Response.UserHandle != "" {
		decoded, err := cryptox.DecodeBase64URL(*p.Response.UserHandle)
		if err != nil {
			return domain.AssertionResult{}, fmt.Errorf("%w: userHandle: %v", ErrInvalidPayload, err)
		}
		userHandle = strings.TrimSpace(string(decoded))
	}

	_, err = v.Store.Passkeys().GetPasskey(ctx, accountID, credentialID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AssertionResult{}, ErrPasskeyNotRegistered
	}
	if err != nil {
		return domain.AssertionResult{}, fmt.Errorf("failed to look up passkey: %w", err)
	}

	return domain.AssertionResult{CredentialID: credentialID, UserHandle: userHandle}, nil
}

func decodePayload(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// resolveCredentialID prefers rawId over id when the client sent both.
func resolveCredentialID(id, rawID *string) (string, error) {
	if rawID != nil && *rawID != "" {
		return *rawID, nil
	}
	if id != nil && *id != "" {
		return *id, nil
	}
	return "", fmt.Errorf("%w: missing credential id", ErrInvalidPayload)
}

func normalizeTransports(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, t := range in {
		transport := protocol.AuthenticatorTransport(strings.ToLower(strings.TrimSpace(t)))
		if transport == "" {
			continue
		}
		out = append(out, string(transport))
	}
	return out
}
