// Package challenge issues and consumes the single-use ceremony records that
// tie a "start" call to its matching "finish" call.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/pkg/cryptox"
)

// DefaultTTL is how long a ceremony may take between start and finish.
const DefaultTTL = 5 * time.Minute

var (
	// ErrNotFound covers unknown, already consumed and expired challenges
	// alike. Callers must not be able to tell them apart.
	ErrNotFound = errors.New("challenge: not found")

	// ErrInvalidKind is returned by Issue for kinds other than register,
	// login and email_login.
	ErrInvalidKind = errors.New("challenge: invalid kind")
)

// Params describes a challenge to issue. The id and expiry are assigned by
// the store.
type Params struct {
	Kind          domain.ChallengeKind
	Handle        string
	Email         string
	OTP           string
	PendingUserID string
}

// Store issues and consumes challenges. Consume must hand a given challenge to
// at most one caller, even under concurrent finishes.
type Store interface {
	Issue(ctx context.Context, p Params) (domain.Challenge, error)
	Consume(ctx context.Context, id string) (domain.Challenge, error)
}

// newRecord builds the record for p with a fresh unguessable id.
func newRecord(p Params, now time.Time, ttl time.Duration) (domain.Challenge, error) {
	if !p.Kind.Valid() {
		return domain.Challenge{}, fmt.Errorf("%w: %q", ErrInvalidKind, p.Kind)
	}

	id, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("generate challenge id: %w", err)
	}

	return domain.Challenge{
		Challenge:     id,
		Kind:          p.Kind,
		Handle:        p.Handle,
		Email:         p.Email,
		OTP:           p.OTP,
		PendingUserID: p.PendingUserID,
		ExpiresAt:     now.Add(ttl).UTC(),
	}, nil
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
