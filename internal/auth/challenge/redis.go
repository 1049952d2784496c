package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "reel:challenge:"

// RedisStore keeps challenges in redis so every replica sees the same
// ceremonies. Expiry is delegated to the key TTL and consumption uses GETDEL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttlOrDefault(ttl),
		prefix: defaultRedisPrefix,
		now:    time.Now,
	}
}

func (s *RedisStore) Issue(ctx context.Context, p Params) (domain.Challenge, error) {
	rec, err := newRecord(p, s.now(), s.ttl)
	if err != nil {
		return domain.Challenge{}, err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("marshal challenge: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+rec.Challenge, payload, s.ttl).Err(); err != nil {
		return domain.Challenge{}, fmt.Errorf("failed to store challenge: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Consume(ctx context.Context, id string) (domain.Challenge, error) {
	if id == "" {
		return domain.Challenge{}, ErrNotFound
	}

	payload, err := s.client.GetDel(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Challenge{}, ErrNotFound
	}
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("failed to consume challenge: %w", err)
	}

	var rec domain.Challenge
	if err := json.Unmarshal(payload, &rec); err != nil {
		return domain.Challenge{}, fmt.Errorf("unmarshal challenge: %w", err)
	}

	if rec.Expired(s.now()) {
		return domain.Challenge{}, ErrNotFound
	}
	return rec, nil
}

// Ping reports whether redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
