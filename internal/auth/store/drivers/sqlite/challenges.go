package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

type challengesRepo struct {
	q querier
}

func (r *challengesRepo) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO challenges (challenge, kind, handle, email, otp, pending_user_id, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Challenge,
		string(c.Kind),
		c.Handle,
		mapStringNull(c.Email),
		mapStringNull(c.OTP),
		mapStringNull(c.PendingUserID),
		toMillis(c.ExpiresAt),
	)
	return mapConstraint(err)
}

// ConsumeChallenge deletes and returns in one statement so two concurrent
// finishes can never both see the row.
func (r *challengesRepo) ConsumeChallenge(ctx context.Context, id string, now time.Time) (domain.Challenge, error) {
	var (
		c                         domain.Challenge
		kind                      string
		email, otp, pendingUserID sql.NullString
		expiresAt                 int64
	)
	err := r.q.QueryRowContext(ctx, `
		DELETE FROM challenges
		WHERE challenge = ? AND expires_at > ?
		RETURNING challenge, kind, handle, email, otp, pending_user_id, expires_at`,
		id, toMillis(now),
	).Scan(&c.Challenge, &kind, &c.Handle, &email, &otp, &pendingUserID, &expiresAt)
	if err != nil {
		return domain.Challenge{}, mapNotFound(err)
	}

	c.Kind = domain.ChallengeKind(kind)
	c.Email = mapNullString(email)
	c.OTP = mapNullString(otp)
	c.PendingUserID = mapNullString(pendingUserID)
	c.ExpiresAt = fromMillis(expiresAt)
	return c, nil
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM challenges WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
