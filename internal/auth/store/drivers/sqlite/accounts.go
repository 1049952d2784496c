package sqlite

import (
	"context"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

type accountsRepo struct {
	q querier
}

func (r *accountsRepo) GetAccountByUserID(ctx context.Context, userID string) (domain.Account, error) {
	var (
		a         domain.Account
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, email, display_name, created_at FROM accounts WHERE user_id = ?`,
		userID,
	).Scan(&a.ID, &a.UserID, &a.Email, &a.DisplayName, &createdAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.AccountRef, error) {
	var ref domain.AccountRef
	err := r.q.QueryRowContext(ctx, `
		SELECT a.id, a.user_id, u.handle, a.email
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE a.email = ?`,
		email,
	).Scan(&ref.AccountID, &ref.UserID, &ref.Handle, &ref.Email)
	if err != nil {
		return domain.AccountRef{}, mapNotFound(err)
	}
	return ref, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, email, display_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Email, a.DisplayName, toMillis(a.CreatedAt),
	)
	return mapConstraint(err)
}
