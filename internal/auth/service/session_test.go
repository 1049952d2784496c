package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newSessionFixture(t *testing.T) (*SessionService, *fakeClock, *recordingPublisher, domain.User) {
	t.Helper()
	ctx := context.Background()
	st := newTestStore(t)
	clock := newFakeClock()
	events := &recordingPublisher{}

	u, err := (&UserDirectory{Store: st, Now: clock.Now}).EnsureUser(ctx, EnsureUserParams{ID: "7", Handle: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	return &SessionService{Store: st, TTL: 30 * time.Minute, Now: clock.Now, Events: events}, clock, events, u
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, clock, events, u := newSessionFixture(t)

	sess, err := svc.Create(ctx, u.ID, MethodPasskey)
	require.NoError(t, err)
	require.Len(t, sess.Token, 43)
	require.Equal(t, cryptox.FingerprintToken(sess.Token), sess.TokenHash)
	require.Equal(t, clock.Now().Add(30*time.Minute), sess.ExpiresAt)

	got, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.Equal(t, "7", got.UserID)
	require.Equal(t, "alice", got.Handle)
	require.Equal(t, sess.Token, got.Token)

	clock.Advance(30 * time.Minute)
	_, err = svc.Validate(ctx, sess.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// The expired row was deleted on sight.
	_, err = svc.Store.Sessions().GetSession(ctx, sess.TokenHash)
	require.Error(t, err)

	evs := events.Events()
	require.Len(t, evs, 1)
	require.Equal(t, domain.EventSessionCreated, evs[0].Type)
	require.Equal(t, sess.TokenHash, evs[0].SessionRef)
	require.Equal(t, MethodPasskey, evs[0].Method)
}

func TestSessionSlidingWindow(t *testing.T) {
	ctx := context.Background()
	svc, clock, _, u := newSessionFixture(t)

	sess, err := svc.Create(ctx, u.ID, MethodEmailOTP)
	require.NoError(t, err)

	for range 10 {
		clock.Advance(29 * time.Minute)
		_, err := svc.Validate(ctx, sess.Token)
		require.NoError(t, err)

		expiresAt, err := svc.Refresh(ctx, sess.Token)
		require.NoError(t, err)
		require.Equal(t, clock.Now().Add(30*time.Minute), expiresAt)
	}

	clock.Advance(30 * time.Minute)
	_, err = svc.Validate(ctx, sess.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRefreshIsExactlyTTL(t *testing.T) {
	ctx := context.Background()
	svc, clock, _, u := newSessionFixture(t)

	sess, err := svc.Create(ctx, u.ID, MethodPasskey)
	require.NoError(t, err)

	clock.Advance(time.Second)
	expiresAt, err := svc.Refresh(ctx, sess.Token)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(svc.TTL), expiresAt)

	got, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.WithinDuration(t, expiresAt, got.ExpiresAt, time.Millisecond)
}

func TestSessionDestroy(t *testing.T) {
	ctx := context.Background()
	svc, _, events, u := newSessionFixture(t)

	sess, err := svc.Create(ctx, u.ID, MethodPasskey)
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(ctx, sess.Token))
	require.NoError(t, svc.Destroy(ctx, sess.Token))
	require.NoError(t, svc.Destroy(ctx, ""))

	_, err = svc.Validate(ctx, sess.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	evs := events.Events()
	require.Len(t, evs, 3)
	require.Equal(t, domain.EventSessionDestroyed, evs[1].Type)
}

func TestSessionValidateUnknown(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newSessionFixture(t)

	for _, token := range []string{"", "   ", "not-a-session"} {
		_, err := svc.Validate(ctx, token)
		require.ErrorIs(t, err, ErrSessionNotFound)
	}
}

func TestSessionPublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	svc, _, events, u := newSessionFixture(t)
	events.err = errors.New("broker down")

	sess, err := svc.Create(ctx, u.ID, MethodPasskey)
	require.NoError(t, err)
	require.NoError(t, svc.Destroy(ctx, sess.Token))
}
