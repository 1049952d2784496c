package service

import (
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/pkg/cryptox"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
)

// DefaultCeremonyTimeout is the timeout hint handed to the browser.
const DefaultCeremonyTimeout = 5 * time.Minute

// RelyingParty identifies this service to authenticators.
type RelyingParty struct {
	ID      string
	Name    string
	Timeout time.Duration
}

func (rp RelyingParty) timeoutMillis() int {
	if rp.Timeout <= 0 {
		return int(DefaultCeremonyTimeout.Milliseconds())
	}
	return int(rp.Timeout.Milliseconds())
}

// challengeBytes turns a challenge id back into the raw bytes the browser
// signs over, so clientDataJSON.challenge echoes the id verbatim.
func challengeBytes(id string) protocol.URLEncodedBase64 {
	b, err := cryptox.DecodeBase64URL(id)
	if err != nil {
		return protocol.URLEncodedBase64(id)
	}
	return protocol.URLEncodedBase64(b)
}

// CreationOptions builds the publicKey options for navigator.credentials.create.
func (rp RelyingParty) CreationOptions(rec domain.Challenge, exclude []domain.Passkey) protocol.PublicKeyCredentialCreationOptions {
	return protocol.PublicKeyCredentialCreationOptions{
		RelyingParty: protocol.RelyingPartyEntity{
			CredentialEntity: protocol.CredentialEntity{Name: rp.Name},
			ID:               rp.ID,
		},
		User: protocol.UserEntity{
			CredentialEntity: protocol.CredentialEntity{Name: rec.Handle},
			DisplayName:      rec.Handle,
			ID:               protocol.URLEncodedBase64(rec.PendingUserID),
		},
		Challenge: challengeBytes(rec.Challenge),
		Parameters: []protocol.CredentialParameter{
			{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgES256},
			{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgEdDSA},
			{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgRS256},
		},
		Timeout:               rp.timeoutMillis(),
		CredentialExcludeList: descriptors(exclude),
		AuthenticatorSelection: protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementPreferred,
			UserVerification: protocol.VerificationPreferred,
		},
		Attestation: protocol.PreferNoAttestation,
	}
}

// RequestOptions builds the publicKey options for navigator.credentials.get.
func (rp RelyingParty) RequestOptions(rec domain.Challenge, allow []domain.Passkey) protocol.PublicKeyCredentialRequestOptions {
	return protocol.PublicKeyCredentialRequestOptions{
		Challenge:          challengeBytes(rec.Challenge),
		Timeout:            rp.timeoutMillis(),
		RelyingPartyID:     rp.ID,
		AllowedCredentials: descriptors(allow),
		UserVerification:   protocol.VerificationPreferred,
	}
}

func descriptors(passkeys []domain.Passkey) []protocol.CredentialDescriptor {
	if len(passkeys) == 0 {
		return nil
	}
	out := make([]protocol.CredentialDescriptor, 0, len(passkeys))
	for _, pk := range passkeys {
		id, err := cryptox.DecodeBase64URL(pk.CredentialID)
		if err != nil || len(id) == 0 {
			continue
		}
		transports := make([]protocol.AuthenticatorTransport, 0, len(pk.Transports))
		for _, t := range pk.Transports {
			transports = append(transports, protocol.AuthenticatorTransport(t))
		}
		out = append(out, protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: id,
			Transport:    transports,
		})
	}
	return out
}
