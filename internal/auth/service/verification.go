package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/pkg/cryptox"
	"github.com/azmin8744/soliloquio/pkg/idx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
	"github.com/google/uuid"
)

// Default lifetimes for the two verification purposes.
const (
	EmailVerificationTTL = 24 * time.Hour
	PasswordResetTTL     = time.Hour
)

// VerificationService manages single-use, purpose-scoped tokens backing
// email verification and password reset.
type VerificationService struct {
	Store store.Store
}

// Create mints a high-entropy raw token, persists its fingerprint with the
// kind and expiry, and returns the raw value once for out-of-band delivery.
func (s *VerificationService) Create(ctx context.Context, userID uuid.UUID, kind domain.VerificationKind, ttl time.Duration) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown verification kind %q", kind)
	}

	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	record := domain.VerificationToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(raw),
		Kind:      kind,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if err := s.Store.VerificationTokens().CreateVerificationToken(ctx, record); err != nil {
		return "", fmt.Errorf("persist verification token: %w", err)
	}
	return raw, nil
}

// Validate consumes a raw token of the expected kind. Failures are
// distinct: ErrBadCredentials when no record of that kind matches,
// ErrTokenAlreadyUsed when used_at is set, ErrTokenExpired past expiry.
// Consumption itself is a conditional update, so two concurrent validations
// of the same raw token cannot both succeed.
func (s *VerificationService) Validate(ctx context.Context, raw string, kind domain.VerificationKind) (domain.VerificationToken, error) {
	hash := cryptox.FingerprintToken(raw)
	now := time.Now().UTC()

	record, err := s.Store.VerificationTokens().GetVerificationToken(ctx, hash, kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.VerificationToken{}, ErrBadCredentials
		}
		return domain.VerificationToken{}, fmt.Errorf("look up verification token: %w", err)
	}

	if record.UsedAt != nil {
		return domain.VerificationToken{}, ErrTokenAlreadyUsed
	}
	if !record.ExpiresAt.After(now) {
		return domain.VerificationToken{}, ErrTokenExpired
	}

	consumed, err := s.Store.VerificationTokens().ConsumeVerificationToken(ctx, hash, kind, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost a race against a concurrent validation.
			return domain.VerificationToken{}, ErrTokenAlreadyUsed
		}
		return domain.VerificationToken{}, fmt.Errorf("consume verification token: %w", err)
	}
	return consumed, nil
}

// CleanupExpired sweeps expired verification rows, used or not.
func (s *VerificationService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.Store.VerificationTokens().DeleteExpiredVerificationTokens(ctx, time.Now().UTC())
}

func (s *VerificationService) cleanupExpiredQuietly(ctx context.Context) {
	if _, err := s.CleanupExpired(ctx); err != nil {
		slogx.FromContext(ctx).Warn("verification token cleanup failed", "error", err)
	}
}
