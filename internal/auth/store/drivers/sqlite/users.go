package sqlite

import (
	"context"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/google/uuid"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, email, password_hash, email_verified_at, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, email_verified_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(),
		u.Email,
		u.PasswordHash,
		mapOptionalTime(u.EmailVerifiedAt),
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newHash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID.String())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID uuid.UUID, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET email_verified_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), userID.String())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID.String())
	return err
}
