package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/internal/auth/store"
	"github.com/aussiebroadwan/reel/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/reel/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, handle, email string) (domain.User, domain.Account) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	u := domain.User{ID: idx.NewString(), Handle: handle, DisplayName: handle, CreatedAt: now}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	a := domain.Account{ID: idx.NewString(), UserID: u.ID, Email: email, DisplayName: handle, CreatedAt: now}
	require.NoError(t, st.Accounts().CreateAccount(ctx, a))
	return u, a
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestUsersAndAccounts(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	u, a := seedUser(t, st, "alice", "alice@example.com")

	t.Run("lookup by id and handle", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", got.Handle)
		require.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Millisecond)

		got, err = st.Users().GetUserByHandle(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := st.Users().GetUserByHandle(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate handle", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{ID: idx.NewString(), Handle: "alice", CreatedAt: time.Now()})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("account by email joins handle", func(t *testing.T) {
		ref, err := st.Accounts().GetAccountByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, a.ID, ref.AccountID)
		require.Equal(t, u.ID, ref.UserID)
		require.Equal(t, "alice", ref.Handle)
	})

	t.Run("second account for user rejected", func(t *testing.T) {
		err := st.Accounts().CreateAccount(ctx, domain.Account{
			ID: idx.NewString(), UserID: u.ID, Email: "other@example.com", CreatedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestPasskeys(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	_, a := seedUser(t, st, "alice", "alice@example.com")
	_, b := seedUser(t, st, "bob", "bob@example.com")

	now := time.Now().UTC()
	pk := domain.Passkey{
		CredentialID:      "cred-1",
		AccountID:         a.ID,
		Transports:        []string{"internal", "hybrid"},
		DeviceLabel:       "Laptop",
		AttestationObject: []byte{1, 2, 3},
		ClientDataHash:    "eyJ0eXBlIjoid2ViYXV0aG4uY3JlYXRlIn0",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, st.Passkeys().UpsertPasskey(ctx, pk))

	got, err := st.Passkeys().GetPasskey(ctx, a.ID, "cred-1")
	require.NoError(t, err)
	require.Equal(t, []string{"internal", "hybrid"}, got.Transports)
	require.Equal(t, []byte{1, 2, 3}, got.AttestationObject)

	t.Run("scoped to account", func(t *testing.T) {
		_, err := st.Passkeys().GetPasskey(ctx, b.ID, "cred-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("upsert overwrites", func(t *testing.T) {
		pk.DeviceLabel = "Phone"
		pk.Transports = nil
		pk.UpdatedAt = now.Add(time.Minute)
		require.NoError(t, st.Passkeys().UpsertPasskey(ctx, pk))

		list, err := st.Passkeys().ListPasskeys(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Phone", list[0].DeviceLabel)
		require.Empty(t, list[0].Transports)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Passkeys().DeletePasskey(ctx, b.ID, "cred-1"))
		list, err := st.Passkeys().ListPasskeys(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 1, "another account's delete is a no-op")

		require.NoError(t, st.Passkeys().DeletePasskey(ctx, a.ID, "cred-1"))
		require.NoError(t, st.Passkeys().DeletePasskey(ctx, a.ID, "cred-1"))

		list, err = st.Passkeys().ListPasskeys(ctx, a.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	u, _ := seedUser(t, st, "alice", "alice@example.com")

	now := time.Now().UTC()
	live := domain.Session{TokenHash: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	stale := domain.Session{TokenHash: "stale", UserID: u.ID, ExpiresAt: now.Add(-time.Second), CreatedAt: now}
	require.NoError(t, st.Sessions().CreateSession(ctx, live))
	require.NoError(t, st.Sessions().CreateSession(ctx, stale))

	got, err := st.Sessions().GetSession(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Handle)
	require.Equal(t, u.ID, got.UserID)

	newExpiry := now.Add(2 * time.Hour)
	require.NoError(t, st.Sessions().UpdateSessionExpiry(ctx, "live", newExpiry))
	got, err = st.Sessions().GetSession(ctx, "live")
	require.NoError(t, err)
	require.WithinDuration(t, newExpiry, got.ExpiresAt, time.Millisecond)

	n, err := st.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = st.Sessions().GetSession(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Sessions().DeleteSession(ctx, "live"))
	require.NoError(t, st.Sessions().DeleteSession(ctx, "live"))
}

func TestChallengesConsumeOnce(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	now := time.Now().UTC()

	c := domain.Challenge{
		Challenge: "abc",
		Kind:      domain.ChallengeEmailLogin,
		Handle:    "alice",
		Email:     "alice@example.com",
		OTP:       "042133",
		ExpiresAt: now.Add(time.Minute),
	}
	require.NoError(t, st.Challenges().CreateChallenge(ctx, c))

	got, err := st.Challenges().ConsumeChallenge(ctx, "abc", now)
	require.NoError(t, err)
	require.Equal(t, domain.ChallengeEmailLogin, got.Kind)
	require.Equal(t, "042133", got.OTP)
	require.Empty(t, got.PendingUserID)

	_, err = st.Challenges().ConsumeChallenge(ctx, "abc", now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestChallengesExpiry(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	now := time.Now().UTC()

	c := domain.Challenge{Challenge: "old", Kind: domain.ChallengeLogin, Handle: "alice", ExpiresAt: now}
	require.NoError(t, st.Challenges().CreateChallenge(ctx, c))

	_, err := st.Challenges().ConsumeChallenge(ctx, "old", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := st.Challenges().DeleteExpiredChallenges(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, domain.User{ID: "u1", Handle: "carol", CreatedAt: time.Now()}))
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = st.Users().GetUserByHandle(ctx, "carol")
	require.ErrorIs(t, err, store.ErrNotFound)
}
