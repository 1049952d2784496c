package sqlite

import (
	"context"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, handle, display_name, created_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE handle = ?`, handle)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, handle, display_name, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Handle, u.DisplayName, toMillis(u.CreatedAt),
	)
	return mapConstraint(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Handle, &u.DisplayName, &createdAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}
