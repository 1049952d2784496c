package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/challenge"
	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func (f *flowFixture) register(t *testing.T, handle, email, credentialID string) SignIn {
	t.Helper()
	ctx := context.Background()

	start, err := f.flow.StartRegistration(ctx, handle, email)
	require.NoError(t, err)

	var payload json.RawMessage
	if credentialID != "" {
		payload = registrationJSON(credentialID)
	}
	out, err := f.flow.FinishRegistration(ctx, start.Challenge, payload, "Laptop")
	require.NoError(t, err)
	return out
}

func (f *flowFixture) pendingChallenges() int {
	return f.flow.Challenges.(*challenge.MemoryStore).Len()
}

func TestRegistrationCeremony(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t)

	start, err := f.flow.StartRegistration(ctx, " alice ", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, start.Challenge)
	require.Equal(t, "alice", start.Handle)
	require.NotEmpty(t, start.PendingUserID)
	require.Equal(t, "localhost", start.Options.RelyingParty.ID)
	require.Equal(t, "alice", start.Options.User.Name)
	require.Equal(t, start.Challenge, base64.RawURLEncoding.EncodeToString(start.Options.Challenge))

	out, err := f.flow.FinishRegistration(ctx, start.Challenge, registrationJSON("Y3JlZC0x"), "  Laptop ")
	require.NoError(t, err)
	require.Equal(t, "alice", out.Handle)
	require.NotEmpty(t, out.Session.Token)
	require.Equal(t, f.clock.Now().Add(DefaultSessionTTL), out.Session.ExpiresAt)

	u, err := f.directory.FindByHandle(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, start.PendingUserID, u.ID)

	list, err := f.passkeys.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Laptop", list[0].DeviceLabel)

	t.Run("challenge is single use", func(t *testing.T) {
		_, err := f.flow.FinishRegistration(ctx, start.Challenge, nil, "")
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("re-registering a handle reuses the user", func(t *testing.T) {
		again, err := f.flow.StartRegistration(ctx, "alice", "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, again.PendingUserID)
		require.Len(t, again.Options.CredentialExcludeList, 1)

		out, err := f.flow.FinishRegistration(ctx, again.Challenge, registrationJSON("Y3JlZC0y"), "")
		require.NoError(t, err)

		sess, err := f.sessions.Validate(ctx, out.Session.Token)
		require.NoError(t, err)
		require.Equal(t, u.ID, sess.UserID)

		list, err := f.passkeys.ListForUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
	})
}

func TestRegistrationValidation(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t)

	for _, tc := range []struct{ handle, email string }{{"", "a@example.com"}, {"alice", ""}, {"  ", "  "}} {
		_, err := f.flow.StartRegistration(ctx, tc.handle, tc.email)
		require.ErrorIs(t, err, ErrHandleEmailRequired)
	}
	require.Zero(t, f.pendingChallenges())

	t.Run("finish without passkey still signs in", func(t *testing.T) {
		out := f.register(t, "bob", "bob@example.com", "")
		require.Equal(t, "bob", out.Handle)

		u, err := f.directory.FindByHandle(ctx, "bob")
		require.NoError(t, err)
		list, err := f.passkeys.ListForUser(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("malformed passkey rejected before user is created", func(t *testing.T) {
		start, err := f.flow.StartRegistration(ctx, "carol", "carol@example.com")
		require.NoError(t, err)

		_, err = f.flow.FinishRegistration(ctx, start.Challenge, json.RawMessage(`{"id":"x"}`), "")
		require.ErrorIs(t, err, ErrPasskeyInvalid)

		_, err = f.directory.FindByHandle(ctx, "carol")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong ceremony kind", func(t *testing.T) {
		login, err := f.flow.StartLogin(ctx, "bob")
		require.NoError(t, err)

		_, err = f.flow.FinishRegistration(ctx, login.Challenge, nil, "")
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("unknown and blank challenge", func(t *testing.T) {
		_, err := f.flow.FinishRegistration(ctx, "nope", nil, "")
		require.ErrorIs(t, err, ErrInvalidChallenge)
		_, err = f.flow.FinishRegistration(ctx, "", nil, "")
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})
}

func TestLoginCeremony(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t)
	f.register(t, "alice", "alice@example.com", "Y3JlZC0x")
	alice, err := f.directory.FindByHandle(ctx, "alice")
	require.NoError(t, err)

	t.Run("unknown handle issues no challenge", func(t *testing.T) {
		before := f.pendingChallenges()
		_, err := f.flow.StartLogin(ctx, "ghost")
		require.ErrorIs(t, err, ErrUserNotFound)
		require.Equal(t, before, f.pendingChallenges())
	})

	t.Run("blank handle", func(t *testing.T) {
		_, err := f.flow.StartLogin(ctx, "   ")
		require.ErrorIs(t, err, ErrHandleRequired)
	})

	t.Run("happy path", func(t *testing.T) {
		start, err := f.flow.StartLogin(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "alice", start.Handle)
		require.Len(t, start.Options.AllowedCredentials, 1)
		require.Equal(t, "localhost", start.Options.RelyingPartyID)

		out, err := f.flow.FinishLogin(ctx, start.Challenge, assertionJSON("Y3JlZC0x", ""))
		require.NoError(t, err)
		require.Equal(t, "alice", out.Handle)

		sess, err := f.sessions.Validate(ctx, out.Session.Token)
		require.NoError(t, err)
		require.Equal(t, alice.ID, sess.UserID)
	})

	t.Run("missing passkey burns the challenge", func(t *testing.T) {
		start, err := f.flow.StartLogin(ctx, "alice")
		require.NoError(t, err)

		_, err = f.flow.FinishLogin(ctx, start.Challenge, nil)
		require.ErrorIs(t, err, ErrPasskeyRequired)

		_, err = f.flow.FinishLogin(ctx, start.Challenge, assertionJSON("Y3JlZC0x", ""))
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("unregistered credential", func(t *testing.T) {
		start, err := f.flow.StartLogin(ctx, "alice")
		require.NoError(t, err)

		_, err = f.flow.FinishLogin(ctx, start.Challenge, assertionJSON("c3RyYW5nZXI", ""))
		require.ErrorIs(t, err, ErrPasskeyInvalid)
	})

	t.Run("assertion user handle wins", func(t *testing.T) {
		f.register(t, "bob", "bob@example.com", "")
		bob, err := f.directory.FindByHandle(ctx, "bob")
		require.NoError(t, err)

		start, err := f.flow.StartLogin(ctx, "alice")
		require.NoError(t, err)

		handle := base64.RawURLEncoding.EncodeToString([]byte(bob.ID))
		out, err := f.flow.FinishLogin(ctx, start.Challenge, assertionJSON("Y3JlZC0x", handle))
		require.NoError(t, err)
		require.Equal(t, "bob", out.Handle)
	})

	t.Run("unknown user handle falls back to challenge", func(t *testing.T) {
		start, err := f.flow.StartLogin(ctx, "alice")
		require.NoError(t, err)

		handle := base64.RawURLEncoding.EncodeToString([]byte("no-such-user"))
		out, err := f.flow.FinishLogin(ctx, start.Challenge, assertionJSON("Y3JlZC0x", handle))
		require.NoError(t, err)
		require.Equal(t, "alice", out.Handle)
	})
}

func TestEmailLoginCeremony(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t)
	f.register(t, "alice", "a@b.com", "")
	f.flow.GenerateOTP = func() (string, error) { return "482913", nil }

	t.Run("blank email", func(t *testing.T) {
		_, err := f.flow.StartEmailLogin(ctx, " ")
		require.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.flow.StartEmailLogin(ctx, "nobody@b.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("code works once", func(t *testing.T) {
		start, err := f.flow.StartEmailLogin(ctx, "A@B.com")
		require.NoError(t, err)
		require.Equal(t, "482913", start.Code)
		require.Equal(t, "482913", f.sender.codes["a@b.com"])

		out, err := f.flow.FinishEmailLogin(ctx, start.Challenge, " 482913\n")
		require.NoError(t, err)
		require.Equal(t, "alice", out.Handle)

		_, err = f.flow.FinishEmailLogin(ctx, start.Challenge, "482913")
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("wrong code burns the challenge", func(t *testing.T) {
		start, err := f.flow.StartEmailLogin(ctx, "a@b.com")
		require.NoError(t, err)

		_, err = f.flow.FinishEmailLogin(ctx, start.Challenge, "000000")
		require.ErrorIs(t, err, ErrInvalidCode)

		_, err = f.flow.FinishEmailLogin(ctx, start.Challenge, "482913")
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("numerically equal code is not equal", func(t *testing.T) {
		f.flow.GenerateOTP = func() (string, error) { return "004213", nil }
		start, err := f.flow.StartEmailLogin(ctx, "a@b.com")
		require.NoError(t, err)

		_, err = f.flow.FinishEmailLogin(ctx, start.Challenge, "4213")
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("expired challenge", func(t *testing.T) {
		start, err := f.flow.StartEmailLogin(ctx, "a@b.com")
		require.NoError(t, err)

		f.clock.Advance(challenge.DefaultTTL)
		_, err = f.flow.FinishEmailLogin(ctx, start.Challenge, start.Code)
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("login challenge cannot finish email login", func(t *testing.T) {
		start, err := f.flow.StartLogin(ctx, "alice")
		require.NoError(t, err)

		_, err = f.flow.FinishEmailLogin(ctx, start.Challenge, "482913")
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})
}

func TestSignInPublishesMethod(t *testing.T) {
	f := newFlowFixture(t)
	f.register(t, "alice", "alice@example.com", "")

	evs := f.events.Events()
	require.NotEmpty(t, evs)
	last := evs[len(evs)-1]
	require.Equal(t, domain.EventSessionCreated, last.Type)
	require.Equal(t, MethodPasskeyRegister, last.Method)
	require.WithinDuration(t, f.clock.Now(), last.OccurredAt, time.Second)
}
