package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories are exposed as methods so a transaction
// can hand out the same repos bound to the tx, and so nobody accidently opens
// a transaction within a transaction.
type Store interface {
	Users() Users
	Accounts() Accounts
	Passkeys() Passkeys
	Sessions() Sessions
	Challenges() Challenges

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByHandle matches the handle exactly; callers normalise first.
	GetUserByHandle(ctx context.Context, handle string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists if the id or handle is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

type Accounts interface {
	GetAccountByUserID(ctx context.Context, userID string) (domain.Account, error)

	// GetAccountByEmail expects a lower-cased email.
	GetAccountByEmail(ctx context.Context, email string) (domain.AccountRef, error)

	// CreateAccount returns ErrAlreadyExists if the user already has an
	// account or the email is in use.
	CreateAccount(ctx context.Context, a domain.Account) error
}

type Passkeys interface {
	// UpsertPasskey inserts the credential or overwrites the existing row with
	// the same credential id.
	UpsertPasskey(ctx context.Context, p domain.Passkey) error

	GetPasskey(ctx context.Context, accountID, credentialID string) (domain.Passkey, error)

	// ListPasskeys returns the account's passkeys, oldest first.
	ListPasskeys(ctx context.Context, accountID string) ([]domain.Passkey, error)

	// DeletePasskey is a no-op when accountID does not own credentialID.
	DeletePasskey(ctx context.Context, accountID, credentialID string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession looks a session up by token fingerprint and fills in the
	// owning user's handle.
	GetSession(ctx context.Context, tokenHash string) (domain.Session, error)

	UpdateSessionExpiry(ctx context.Context, tokenHash string, expiresAt time.Time) error

	// DeleteSession is a no-op for unknown fingerprints.
	DeleteSession(ctx context.Context, tokenHash string) error

	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Challenges interface {
	CreateChallenge(ctx context.Context, c domain.Challenge) error

	// ConsumeChallenge atomically deletes and returns a challenge that is
	// still live at now. Expired or unknown ids return ErrNotFound.
	ConsumeChallenge(ctx context.Context, id string, now time.Time) (domain.Challenge, error)

	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}
