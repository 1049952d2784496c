package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (token_hash, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		s.TokenHash, s.UserID, toMillis(s.ExpiresAt), toMillis(s.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, tokenHash string) (domain.Session, error) {
	var (
		s                    domain.Session
		expiresAt, createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT s.token_hash, s.user_id, u.handle, s.expires_at, s.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = ?`,
		tokenHash,
	).Scan(&s.TokenHash, &s.UserID, &s.Handle, &expiresAt, &createdAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.ExpiresAt = fromMillis(expiresAt)
	s.CreatedAt = fromMillis(createdAt)
	return s, nil
}

func (r *sessionsRepo) UpdateSessionExpiry(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE token_hash = ?`,
		toMillis(expiresAt), tokenHash,
	)
	return err
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
