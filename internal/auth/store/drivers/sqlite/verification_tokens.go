package sqlite

import (
	"context"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
)

type verificationTokensRepo struct {
	q dbtx
}

const verificationTokenColumns = `id, user_id, token_hash, kind, expires_at, used_at, created_at`

func (r *verificationTokensRepo) CreateVerificationToken(ctx context.Context, t domain.VerificationToken) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO verification_tokens (id, user_id, token_hash, kind, expires_at, used_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.UserID.String(),
		t.TokenHash,
		string(t.Kind),
		t.ExpiresAt.UTC(),
		mapOptionalTime(t.UsedAt),
		t.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *verificationTokensRepo) GetVerificationToken(ctx context.Context, hash string, kind domain.VerificationKind) (domain.VerificationToken, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+verificationTokenColumns+` FROM verification_tokens
		 WHERE token_hash = ? AND kind = ?`,
		hash, string(kind))
	t, err := scanVerificationToken(row)
	if err != nil {
		return domain.VerificationToken{}, mapNotFound(err)
	}
	return t, nil
}

// ConsumeVerificationToken marks the token used as a single conditional
// update, so at most one of any number of concurrent validations succeeds.
func (r *verificationTokensRepo) ConsumeVerificationToken(ctx context.Context, hash string, kind domain.VerificationKind, now time.Time) (domain.VerificationToken, error) {
	row := r.q.QueryRowContext(ctx,
		`UPDATE verification_tokens SET used_at = ?
		 WHERE token_hash = ? AND kind = ? AND used_at IS NULL AND expires_at > ?
		 RETURNING `+verificationTokenColumns,
		now.UTC(), hash, string(kind), now.UTC())
	t, err := scanVerificationToken(row)
	if err != nil {
		return domain.VerificationToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *verificationTokensRepo) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
