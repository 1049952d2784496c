package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/internal/auth/store"
	"github.com/aussiebroadwan/reel/pkg/cryptox"
	"github.com/aussiebroadwan/reel/pkg/slogx"
)

// DefaultSessionTTL is how long a session lives after creation or refresh.
const DefaultSessionTTL = 30 * time.Minute

// EventPublisher receives session lifecycle events. Publishing is best
// effort; failures are logged and never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.AuthEvent) error
}

// SessionService mints and tracks opaque bearer sessions. Tokens are stored
// by fingerprint only.
type SessionService struct {
	Store  store.Store
	TTL    time.Duration
	Now    func() time.Time
	Events EventPublisher
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Create mints a new session for userID. method records how the user signed
// in and is only used for events.
func (s *SessionService) Create(ctx context.Context, userID, method string) (domain.Session, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, err
	}

	now := s.now()
	sess := domain.Session{
		Token:     token,
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	s.publish(ctx, domain.AuthEvent{
		Type:       domain.EventSessionCreated,
		UserID:     userID,
		SessionRef: sess.TokenHash,
		Method:     method,
		OccurredAt: now,
	})
	return sess, nil
}

// Validate returns the live session for token, including the owner's handle.
// Expired sessions are deleted on sight and reported as ErrSessionNotFound.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, ErrSessionNotFound
	}

	hash := cryptox.FingerprintToken(token)
	sess, err := s.Store.Sessions().GetSession(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to look up session: %w", err)
	}

	if !sess.ExpiresAt.After(s.now()) {
		if err := s.Store.Sessions().DeleteSession(ctx, hash); err != nil {
			slogx.FromContext(ctx).Warn("failed to delete expired session", "err", err)
		}
		return domain.Session{}, ErrSessionNotFound
	}

	sess.Token = token
	return sess, nil
}

// Refresh pushes the session's expiry out to now+TTL. It does not check that
// the session is still live; callers validate first.
func (s *SessionService) Refresh(ctx context.Context, token string) (time.Time, error) {
	expiresAt := s.now().Add(s.ttl())
	if err := s.Store.Sessions().UpdateSessionExpiry(ctx, cryptox.FingerprintToken(token), expiresAt); err != nil {
		return time.Time{}, fmt.Errorf("failed to refresh session: %w", err)
	}
	return expiresAt, nil
}

// Destroy deletes the session. Unknown tokens are not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	hash := cryptox.FingerprintToken(token)
	if err := s.Store.Sessions().DeleteSession(ctx, hash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.publish(ctx, domain.AuthEvent{
		Type:       domain.EventSessionDestroyed,
		SessionRef: hash,
		OccurredAt: s.now(),
	})
	return nil
}

func (s *SessionService) publish(ctx context.Context, ev domain.AuthEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		slogx.FromContext(ctx).Warn("failed to publish auth event", "type", ev.Type, "err", err)
	}
}
