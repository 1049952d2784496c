package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/internal/auth/store"
	"github.com/aussiebroadwan/reel/pkg/idx"
)

// fallbackEmailDomain gives registrations without a usable email an address
// of "<handle>@demo.local".
const fallbackEmailDomain = "demo.local"

// UserDirectory resolves users and their accounts, and creates them on first
// registration.
type UserDirectory struct {
	Store store.Store
	Now   func() time.Time
}

// EnsureUserParams describes the user a registration should end up with.
// ID is the pending id reserved at registration start.
type EnsureUserParams struct {
	ID          string
	Handle      string
	Email       string
	DisplayName string
}

func (d *UserDirectory) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// FindByHandle returns ErrUserNotFound for blank or unknown handles.
func (d *UserDirectory) FindByHandle(ctx context.Context, handle string) (domain.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.User{}, ErrUserNotFound
	}

	u, err := d.Store.Users().GetUserByHandle(ctx, handle)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to look up user by handle: %w", err)
	}
	return u, nil
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, ErrUserNotFound
	}

	u, err := d.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to look up user by id: %w", err)
	}
	return u, nil
}

// FindAccountByEmail matches emails case-insensitively.
func (d *UserDirectory) FindAccountByEmail(ctx context.Context, email string) (domain.AccountRef, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.AccountRef{}, ErrUserNotFound
	}

	ref, err := d.Store.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AccountRef{}, ErrUserNotFound
	}
	if err != nil {
		return domain.AccountRef{}, fmt.Errorf("failed to look up account by email: %w", err)
	}
	return ref, nil
}

func (d *UserDirectory) AccountForUser(ctx context.Context, userID string) (domain.Account, error) {
	a, err := d.Store.Accounts().GetAccountByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to look up account: %w", err)
	}
	return a, nil
}

// AccountForHandle returns ErrAccountNotFound when either the user or the
// account is missing.
func (d *UserDirectory) AccountForHandle(ctx context.Context, handle string) (domain.Account, error) {
	u, err := d.FindByHandle(ctx, handle)
	if errors.Is(err, ErrUserNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	return d.AccountForUser(ctx, u.ID)
}

// PendingID returns the id a registration for handle will end up with: the
// existing user's id, or a freshly reserved one.
func (d *UserDirectory) PendingID(ctx context.Context, handle string) (string, error) {
	u, err := d.FindByHandle(ctx, handle)
	switch {
	case err == nil:
		return u.ID, nil
	case errors.Is(err, ErrUserNotFound):
		return idx.NewString(), nil
	default:
		return "", err
	}
}

// EnsureUser returns the user matching p.ID, else the user matching p.Handle,
// else a newly created one. Whichever user is returned is guaranteed to have
// an account afterwards.
func (d *UserDirectory) EnsureUser(ctx context.Context, p EnsureUserParams) (domain.User, error) {
	handle := strings.TrimSpace(p.Handle)
	if handle == "" {
		return domain.User{}, ErrHandleRequired
	}

	displayName := strings.TrimSpace(p.DisplayName)
	if displayName == "" {
		displayName = handle
	}

	var user domain.User
	err := d.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = findOrCreateUser(ctx, tx, p.ID, handle, displayName, d.now())
		if err != nil {
			return err
		}
		return ensureAccount(ctx, tx, user, p.Email, displayName, d.now())
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to ensure user: %w", err)
	}
	return user, nil
}

func findOrCreateUser(ctx context.Context, tx store.Tx, id, handle, displayName string, now time.Time) (domain.User, error) {
	if id != "" {
		u, err := tx.Users().GetUserByID(ctx, id)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
	}

	u, err := tx.Users().GetUserByHandle(ctx, handle)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	if id == "" {
		id = idx.NewString()
	}
	u = domain.User{ID: id, Handle: handle, DisplayName: displayName, CreatedAt: now}
	if err := tx.Users().CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func ensureAccount(ctx context.Context, tx store.Tx, u domain.User, email, displayName string, now time.Time) error {
	_, err := tx.Accounts().GetAccountByUserID(ctx, u.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	email = normalizeEmail(email)
	if email == "" {
		email = u.Handle + "@" + fallbackEmailDomain
	}

	return tx.Accounts().CreateAccount(ctx, domain.Account{
		ID:          idx.NewString(),
		UserID:      u.ID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
