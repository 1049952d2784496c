package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/internal/auth/store"
)

// SQLStore keeps challenges in the auth database. Expired rows are left for
// housekeeping to sweep.
type SQLStore struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewSQLStore(st store.Store, ttl time.Duration) *SQLStore {
	return &SQLStore{
		store: st,
		ttl:   ttlOrDefault(ttl),
		now:   time.Now,
	}
}

func (s *SQLStore) Issue(ctx context.Context, p Params) (domain.Challenge, error) {
	rec, err := newRecord(p, s.now(), s.ttl)
	if err != nil {
		return domain.Challenge{}, err
	}

	if err := s.store.Challenges().CreateChallenge(ctx, rec); err != nil {
		return domain.Challenge{}, fmt.Errorf("failed to store challenge: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) Consume(ctx context.Context, id string) (domain.Challenge, error) {
	rec, err := s.store.Challenges().ConsumeChallenge(ctx, id, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.Challenge{}, ErrNotFound
	}
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("failed to consume challenge: %w", err)
	}
	return rec, nil
}
