package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Session is a signed-in user's bearer session.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	token     string
	handle    string
	expiresAt time.Time
}

func newSession(client *SDKClient, resp *SessionResponse) *Session {
	return &Session{
		client:    client,
		token:     resp.SessionToken,
		handle:    resp.Handle,
		expiresAt: resp.SessionExpiresAt,
	}
}

// Token returns the bearer token, for storing and later NewSession.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Handle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle
}

// ExpiresAt is the last expiry the server reported.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Status asks the server whether the session is still live. An expired
// session is not an error; Authenticated is false.
func (s *Session) Status(ctx context.Context) (*SessionStatusResponse, error) {
	var out SessionStatusResponse
	if err := s.client.call(ctx, http.MethodGet, "/auth/session", s.Token(), nil, &out); err != nil {
		return nil, err
	}

	if out.Authenticated {
		s.mu.Lock()
		if out.SessionExpiresAt != nil {
			s.expiresAt = *out.SessionExpiresAt
		}
		if out.User != nil {
			s.handle = out.User.Handle
		}
		s.mu.Unlock()
	}
	return &out, nil
}

// Refresh slides the session expiry forward.
func (s *Session) Refresh(ctx context.Context) (time.Time, error) {
	var out SessionRefreshResponse
	if err := s.client.call(ctx, http.MethodPost, "/auth/session/refresh", s.Token(), nil, &out); err != nil {
		return time.Time{}, err
	}

	s.mu.Lock()
	s.expiresAt = out.SessionExpiresAt
	s.mu.Unlock()
	return out.SessionExpiresAt, nil
}

// Logout destroys the session server side. Logging out twice is not an error.
func (s *Session) Logout(ctx context.Context) error {
	var out OKResponse
	return s.client.call(ctx, http.MethodPost, "/auth/logout", s.Token(), nil, &out)
}

// ListPasskeys returns the passkeys registered to the session's user.
func (s *Session) ListPasskeys(ctx context.Context) ([]PasskeyItem, error) {
	var out ListPasskeysResponse
	if err := s.client.call(ctx, http.MethodGet, "/auth/passkeys", s.Token(), nil, &out); err != nil {
		return nil, err
	}
	return out.Passkeys, nil
}

// DeletePasskey removes one of the session user's passkeys.
func (s *Session) DeletePasskey(ctx context.Context, credentialID string) error {
	var out OKResponse
	path := "/auth/passkeys/" + url.PathEscape(credentialID)
	return s.client.call(ctx, http.MethodDelete, path, s.Token(), nil, &out)
}
