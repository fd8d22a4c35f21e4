package store

import (
	"context"
	"errors"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. Sub-repositories keep concerns tidy and
// make it obvious which table each operation touches.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	VerificationTokens() VerificationTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit or
	// Rollback on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the repositories.
type Tx interface {
	Users() Users
	RefreshTokens() RefreshTokens
	VerificationTokens() VerificationTokens

	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetUserByEmail is used during sign-in and forgot-password.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newHash string) error

	// MarkEmailVerified sets email_verified_at.
	MarkEmailVerified(ctx context.Context, userID uuid.UUID, at time.Time) error

	// CountUsers returns the total number of accounts. Used by
	// single-user mode to close registration.
	CountUsers(ctx context.Context) (int64, error)

	// DeleteUser cascades to refresh_tokens and verification_tokens.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by fingerprint regardless
	// of expiry. Mostly useful for inspection and tests.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// TouchRefreshToken is the validate-and-touch step as one conditional
	// update: it sets last_used_at = now on the record whose fingerprint
	// matches AND whose expires_at is still in the future, returning the
	// updated record. ErrNotFound covers both "no such token" and
	// "expired" so callers cannot build an oracle out of the difference.
	TouchRefreshToken(ctx context.Context, hash string, now time.Time) (domain.RefreshToken, error)

	// DeleteRefreshTokenByHash removes a record by fingerprint. Deleting
	// a missing record is not an error; logout is idempotent.
	DeleteRefreshTokenByHash(ctx context.Context, hash string) error

	// DeleteUserRefreshTokens removes every record for the user.
	DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error

	// DeleteExpiredRefreshTokens sweeps records past expires_at and
	// reports how many were removed.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)

	// ListUserRefreshTokens returns the user's non-expired records,
	// most recently used first.
	ListUserRefreshTokens(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.RefreshToken, error)
}

type VerificationTokens interface {
	// CreateVerificationToken stores a new single-use token record.
	CreateVerificationToken(ctx context.Context, t domain.VerificationToken) error

	// GetVerificationToken looks up by fingerprint and kind, regardless
	// of used/expired state. The service layer classifies the failure.
	GetVerificationToken(ctx context.Context, hash string, kind domain.VerificationKind) (domain.VerificationToken, error)

	// ConsumeVerificationToken sets used_at = now on the record matching
	// fingerprint and kind iff it is unused and unexpired, returning the
	// consumed record. The conditional update guarantees at-most-one
	// successful consumption under concurrent validation.
	ConsumeVerificationToken(ctx context.Context, hash string, kind domain.VerificationKind, now time.Time) (domain.VerificationToken, error)

	// DeleteExpiredVerificationTokens sweeps records past expires_at,
	// used or not, and reports how many were removed.
	DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}
