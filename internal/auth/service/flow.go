package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/reel/internal/auth/challenge"
	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/pkg/cryptox"
	"github.com/aussiebroadwan/reel/pkg/slogx"
	"github.com/go-webauthn/webauthn/protocol"
)

// Sign-in methods recorded on session events.
const (
	MethodPasskeyRegister = "passkey_register"
	MethodPasskey         = "passkey"
	MethodEmailOTP        = "email_otp"
)

// FlowService runs the three sign-in ceremonies. Each start issues a
// challenge; each finish consumes it exactly once and, on success, mints a
// session.
type FlowService struct {
	Challenges challenge.Store
	Directory  *UserDirectory
	Validator  *CredentialValidator
	Passkeys   *PasskeyService
	Sessions   *SessionService
	CodeSender CodeSender
	RP         RelyingParty

	// GenerateOTP defaults to the package GenerateOTP.
	GenerateOTP func() (string, error)
}

type RegistrationStart struct {
	Challenge     string
	Handle        string
	PendingUserID string
	Options       protocol.PublicKeyCredentialCreationOptions
}

type LoginStart struct {
	Challenge string
	Handle    string
	Options   protocol.PublicKeyCredentialRequestOptions
}

type EmailLoginStart struct {
	Challenge string
	// Code is the issued OTP. Callers decide whether to expose it.
	Code string
}

// SignIn is the result of a successful finish.
type SignIn struct {
	Session domain.Session
	Handle  string
}

// StartRegistration reserves a user id for handle (reusing the existing one
// if the handle is taken) and issues a register challenge.
func (f *FlowService) StartRegistration(ctx context.Context, handle, email string) (RegistrationStart, error) {
	handle = strings.TrimSpace(handle)
	email = strings.TrimSpace(email)
	if handle == "" || email == "" {
		return RegistrationStart{}, ErrHandleEmailRequired
	}

	pendingID, err := f.Directory.PendingID(ctx, handle)
	if err != nil {
		return RegistrationStart{}, err
	}

	rec, err := f.Challenges.Issue(ctx, challenge.Params{
		Kind:          domain.ChallengeRegister,
		Handle:        handle,
		Email:         email,
		PendingUserID: pendingID,
	})
	if err != nil {
		return RegistrationStart{}, fmt.Errorf("failed to issue challenge: %w", err)
	}

	return RegistrationStart{
		Challenge:     rec.Challenge,
		Handle:        handle,
		PendingUserID: pendingID,
		Options:       f.RP.CreationOptions(rec, f.existingPasskeys(ctx, handle)),
	}, nil
}

// FinishRegistration consumes a register challenge, ensures the user and
// account exist, stores the passkey if one was sent and signs the user in.
func (f *FlowService) FinishRegistration(ctx context.Context, challengeID string, passkey json.RawMessage, deviceLabel string) (SignIn, error) {
	rec, err := f.consume(ctx, challengeID, domain.ChallengeRegister)
	if err != nil {
		return SignIn{}, err
	}

	var reg *domain.ParsedRegistration
	if hasPayload(passkey) {
		parsed, err := f.Validator.ValidateRegistration(passkey)
		if errors.Is(err, ErrInvalidPayload) {
			slogx.FromContext(ctx).Info("registration passkey rejected", "handle", rec.Handle, "err", err)
			return SignIn{}, ErrPasskeyInvalid
		}
		if err != nil {
			return SignIn{}, err
		}
		reg = &parsed
	}

	user, err := f.Directory.EnsureUser(ctx, EnsureUserParams{
		ID:          rec.PendingUserID,
		Handle:      rec.Handle,
		Email:       rec.Email,
		DisplayName: rec.Handle,
	})
	if err != nil {
		return SignIn{}, err
	}

	if reg != nil {
		account, err := f.Directory.AccountForUser(ctx, user.ID)
		if err != nil {
			return SignIn{}, err
		}
		if _, err := f.Passkeys.Upsert(ctx, account.ID, *reg, deviceLabel); err != nil {
			return SignIn{}, err
		}
	}

	return f.signIn(ctx, user, MethodPasskeyRegister)
}

// StartLogin issues a login challenge for an existing handle.
func (f *FlowService) StartLogin(ctx context.Context, handle string) (LoginStart, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return LoginStart{}, ErrHandleRequired
	}

	user, err := f.Directory.FindByHandle(ctx, handle)
	if err != nil {
		return LoginStart{}, err
	}

	rec, err := f.Challenges.Issue(ctx, challenge.Params{
		Kind:          domain.ChallengeLogin,
		Handle:        user.Handle,
		PendingUserID: user.ID,
	})
	if err != nil {
		return LoginStart{}, fmt.Errorf("failed to issue challenge: %w", err)
	}

	return LoginStart{
		Challenge: rec.Challenge,
		Handle:    user.Handle,
		Options:   f.RP.RequestOptions(rec, f.existingPasskeys(ctx, user.Handle)),
	}, nil
}

// FinishLogin consumes a login challenge and checks the assertion against the
// handle's account. The user is resolved from the assertion's user handle,
// then the challenge's pending id, then the challenge's handle.
func (f *FlowService) FinishLogin(ctx context.Context, challengeID string, passkey json.RawMessage) (SignIn, error) {
	rec, err := f.consume(ctx, challengeID, domain.ChallengeLogin)
	if err != nil {
		return SignIn{}, err
	}
	if !hasPayload(passkey) {
		return SignIn{}, ErrPasskeyRequired
	}

	log := slogx.FromContext(ctx).With("handle", rec.Handle)

	account, err := f.Directory.AccountForHandle(ctx, rec.Handle)
	if errors.Is(err, ErrAccountNotFound) {
		log.Info("login assertion for handle without account")
		return SignIn{}, ErrPasskeyInvalid
	}
	if err != nil {
		return SignIn{}, err
	}

	result, err := f.Validator.ValidateAssertion(ctx, account.ID, passkey)
	if errors.Is(err, ErrInvalidPayload) || errors.Is(err, ErrPasskeyNotRegistered) {
		log.Info("login assertion rejected", "err", err)
		return SignIn{}, ErrPasskeyInvalid
	}
	if err != nil {
		return SignIn{}, err
	}

	user, err := f.resolveLoginUser(ctx, result.UserHandle, rec)
	if err != nil {
		return SignIn{}, err
	}
	return f.signIn(ctx, user, MethodPasskey)
}

func (f *FlowService) resolveLoginUser(ctx context.Context, userHandle string, rec domain.Challenge) (domain.User, error) {
	for _, id := range []string{userHandle, rec.PendingUserID} {
		if id == "" {
			continue
		}
		u, err := f.Directory.FindByID(ctx, id)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return domain.User{}, err
		}
	}
	return f.Directory.FindByHandle(ctx, rec.Handle)
}

// StartEmailLogin issues an email_login challenge carrying a fresh OTP and
// hands the code to the CodeSender.
func (f *FlowService) StartEmailLogin(ctx context.Context, email string) (EmailLoginStart, error) {
	email = normalizeEmail(email)
	if email == "" {
		return EmailLoginStart{}, ErrEmailRequired
	}

	ref, err := f.Directory.FindAccountByEmail(ctx, email)
	if err != nil {
		return EmailLoginStart{}, err
	}

	gen := f.GenerateOTP
	if gen == nil {
		gen = GenerateOTP
	}
	code, err := gen()
	if err != nil {
		return EmailLoginStart{}, err
	}

	rec, err := f.Challenges.Issue(ctx, challenge.Params{
		Kind:   domain.ChallengeEmailLogin,
		Handle: ref.Handle,
		Email:  email,
		OTP:    code,
	})
	if err != nil {
		return EmailLoginStart{}, fmt.Errorf("failed to issue challenge: %w", err)
	}

	if f.CodeSender != nil {
		if err := f.CodeSender.SendCode(ctx, email, code); err != nil {
			return EmailLoginStart{}, fmt.Errorf("failed to send login code: %w", err)
		}
	}

	return EmailLoginStart{Challenge: rec.Challenge, Code: code}, nil
}

// FinishEmailLogin consumes an email_login challenge and checks the code.
// A wrong code still burns the challenge.
func (f *FlowService) FinishEmailLogin(ctx context.Context, challengeID, code string) (SignIn, error) {
	rec, err := f.consume(ctx, challengeID, domain.ChallengeEmailLogin)
	if err != nil {
		return SignIn{}, err
	}
	if rec.OTP == "" {
		return SignIn{}, ErrInvalidChallenge
	}

	if !cryptox.EqualStrings(strings.TrimSpace(code), rec.OTP) {
		return SignIn{}, ErrInvalidCode
	}

	user, err := f.Directory.FindByHandle(ctx, rec.Handle)
	if err != nil {
		return SignIn{}, err
	}
	return f.signIn(ctx, user, MethodEmailOTP)
}

// consume takes the challenge out of the store and checks its kind. A
// challenge of the wrong kind is still consumed.
func (f *FlowService) consume(ctx context.Context, id string, kind domain.ChallengeKind) (domain.Challenge, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Challenge{}, ErrInvalidChallenge
	}

	rec, err := f.Challenges.Consume(ctx, id)
	if errors.Is(err, challenge.ErrNotFound) {
		return domain.Challenge{}, ErrInvalidChallenge
	}
	if err != nil {
		return domain.Challenge{}, err
	}
	if rec.Kind != kind {
		return domain.Challenge{}, ErrInvalidChallenge
	}
	return rec, nil
}

func (f *FlowService) signIn(ctx context.Context, user domain.User, method string) (SignIn, error) {
	sess, err := f.Sessions.Create(ctx, user.ID, method)
	if err != nil {
		return SignIn{}, err
	}
	sess.Handle = user.Handle
	return SignIn{Session: sess, Handle: user.Handle}, nil
}

// existingPasskeys is best effort; options are still useful without them.
func (f *FlowService) existingPasskeys(ctx context.Context, handle string) []domain.Passkey {
	account, err := f.Directory.AccountForHandle(ctx, handle)
	if err != nil {
		return nil
	}
	list, err := f.Passkeys.List(ctx, account.ID)
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to list passkeys for options", "err", err)
		return nil
	}
	return list
}

func hasPayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
