package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the repositories can run
// inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer, and both the foreign_keys pragma and
	// in-memory databases are scoped to one connection. Pin the pool to one.
	db.SetMaxOpenConns(1)

	// Enforce FKs so deleting a user cascades to its token rows.
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped view.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx}, nil
}

// WithTx executes fn within a transaction, handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback is safe to call after a successful commit.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                           { return &usersRepo{q: s.db} }
func (s *Store) RefreshTokens() store.RefreshTokens           { return &refreshTokensRepo{q: s.db} }
func (s *Store) VerificationTokens() store.VerificationTokens { return &verificationTokensRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates unique-constraint violations into the portable
// sentinel. modernc.org/sqlite does not export stable error values, so this
// matches on the canonical SQLite message.
func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func mapUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// requireAffected turns a zero-row update into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ store.Store = (*Store)(nil)

// scanUser maps a users row. Column order: id, email, password_hash,
// email_verified_at, created_at, updated_at.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		id         string
		u          domain.User
		verifiedAt sql.NullTime
	)
	err := row.Scan(&id, &u.Email, &u.PasswordHash, &verifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.ID, err = mapUUID(id)
	if err != nil {
		return domain.User{}, err
	}
	u.EmailVerifiedAt = mapNullTimePtr(verifiedAt)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

// scanRefreshToken maps a refresh_tokens row. Column order: id, user_id,
// token_hash, device_info, expires_at, created_at, last_used_at.
func scanRefreshToken(row rowScanner) (domain.RefreshToken, error) {
	var (
		userID     string
		t          domain.RefreshToken
		deviceInfo sql.NullString
		lastUsedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &userID, &t.TokenHash, &deviceInfo, &t.ExpiresAt, &t.CreatedAt, &lastUsedAt)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	t.UserID, err = mapUUID(userID)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	t.DeviceInfo = mapNullStringPtr(deviceInfo)
	t.LastUsedAt = mapNullTimePtr(lastUsedAt)
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

// scanVerificationToken maps a verification_tokens row. Column order: id,
// user_id, token_hash, kind, expires_at, used_at, created_at.
func scanVerificationToken(row rowScanner) (domain.VerificationToken, error) {
	var (
		userID string
		t      domain.VerificationToken
		kind   string
		usedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &userID, &t.TokenHash, &kind, &t.ExpiresAt, &usedAt, &t.CreatedAt)
	if err != nil {
		return domain.VerificationToken{}, err
	}
	t.UserID, err = mapUUID(userID)
	if err != nil {
		return domain.VerificationToken{}, err
	}
	t.Kind = domain.VerificationKind(kind)
	t.UsedAt = mapNullTimePtr(usedAt)
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
