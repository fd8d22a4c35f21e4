package sqlite

import (
	"context"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/google/uuid"
)

type refreshTokensRepo struct {
	q dbtx
}

const refreshTokenColumns = `id, user_id, token_hash, device_info, expires_at, created_at, last_used_at`

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, device_info, expires_at, created_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.UserID.String(),
		t.TokenHash,
		mapOptionalString(t.DeviceInfo),
		t.ExpiresAt.UTC(),
		t.CreatedAt.UTC(),
		mapOptionalTime(t.LastUsedAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = ?`, hash)
	t, err := scanRefreshToken(row)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

// TouchRefreshToken performs lookup and last_used_at bookkeeping as a single
// conditional update so concurrent validations never observe a half-done
// state. An expired or unknown fingerprint yields ErrNotFound either way.
func (r *refreshTokensRepo) TouchRefreshToken(ctx context.Context, hash string, now time.Time) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx,
		`UPDATE refresh_tokens SET last_used_at = ?
		 WHERE token_hash = ? AND expires_at > ?
		 RETURNING `+refreshTokenColumns,
		now.UTC(), hash, now.UTC())
	t, err := scanRefreshToken(row)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) DeleteRefreshTokenByHash(ctx context.Context, hash string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = ?`, hash)
	return err
}

func (r *refreshTokensRepo) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = ?`, userID.String())
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *refreshTokensRepo) ListUserRefreshTokens(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.RefreshToken, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens
		 WHERE user_id = ? AND expires_at > ?
		 ORDER BY last_used_at DESC, created_at DESC`,
		userID.String(), now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RefreshToken
	for rows.Next() {
		t, err := scanRefreshToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
