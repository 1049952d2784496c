package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	clock := newFakeClock()

	u, err := (&UserDirectory{Store: st}).EnsureUser(ctx, EnsureUserParams{Handle: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	sessions := &SessionService{Store: st, TTL: time.Minute, Now: clock.Now}
	stale, err := sessions.Create(ctx, u.ID, MethodPasskey)
	require.NoError(t, err)

	require.NoError(t, st.Challenges().CreateChallenge(ctx, domain.Challenge{
		Challenge: "old", Kind: domain.ChallengeLogin, Handle: "alice", ExpiresAt: clock.Now(),
	}))

	clock.Advance(2 * time.Minute)
	fresh, err := sessions.Create(ctx, u.ID, MethodPasskey)
	require.NoError(t, err)

	hk := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.Now = clock.Now
	hk.Cleanup(ctx)

	_, err = st.Sessions().GetSession(ctx, stale.TokenHash)
	require.Error(t, err)
	_, err = st.Sessions().GetSession(ctx, fresh.TokenHash)
	require.NoError(t, err)

	n, err := st.Challenges().DeleteExpiredChallenges(ctx, clock.Now())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)
	hk := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
