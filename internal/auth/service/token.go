package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/pkg/cryptox"
	"github.com/azmin8744/soliloquio/pkg/idx"
	"github.com/azmin8744/soliloquio/pkg/jwtx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
	"github.com/google/uuid"
)

// TokenService issues and validates both halves of a session: the
// short-lived stateless access token and the long-lived persisted refresh
// token. Access tokens never touch the database; refresh tokens live only
// as fingerprints in the refresh_tokens table.
type TokenService struct {
	Store      store.Store
	Codec      *jwtx.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueAccessToken mints a signed access token for the user.
func (s *TokenService) IssueAccessToken(user domain.User) (string, error) {
	return s.Codec.Encode(user.ID, s.AccessTTL)
}

// Authenticate validates a bearer credential and extracts the user id. The
// "Bearer " prefix is stripped if present; every decode failure collapses
// into ErrBadCredentials. No database access, no side effects.
func (s *TokenService) Authenticate(credential string) (uuid.UUID, error) {
	raw := stripBearer(credential)
	if raw == "" {
		return uuid.Nil, ErrTokenNotFound
	}

	claims, err := s.Codec.Decode(raw)
	if err != nil {
		return uuid.Nil, ErrBadCredentials
	}

	userID, err := claims.UserID()
	if err != nil {
		return uuid.Nil, ErrBadCredentials
	}
	return userID, nil
}

// IssuePair mints an access token and a fresh persisted refresh token.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User, deviceInfo *string) (domain.TokenPair, error) {
	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.CreateRefreshToken(ctx, user.ID, deviceInfo)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// CreateRefreshToken mints an opaque 256-bit raw token, persists its
// fingerprint, and returns the raw value. This is the only time the raw
// value exists server-side.
func (s *TokenService) CreateRefreshToken(ctx context.Context, userID uuid.UUID, deviceInfo *string) (string, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	record := domain.RefreshToken{
		ID:         idx.New().String(),
		UserID:     userID,
		TokenHash:  cryptox.FingerprintToken(raw),
		DeviceInfo: deviceInfo,
		ExpiresAt:  now.Add(s.RefreshTTL),
		CreatedAt:  now,
	}

	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return "", fmt.Errorf("persist refresh token: %w", err)
	}
	return raw, nil
}

// ValidateRefreshToken checks a presented raw token against the stored
// fingerprints and bumps last_used_at. Unknown and expired tokens are
// indistinguishable to the caller.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, raw string) (domain.RefreshToken, error) {
	hash := cryptox.FingerprintToken(raw)

	record, err := s.Store.RefreshTokens().TouchRefreshToken(ctx, hash, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RefreshToken{}, ErrBadCredentials
		}
		return domain.RefreshToken{}, fmt.Errorf("validate refresh token: %w", err)
	}
	return record, nil
}

// RevokeRefreshToken deletes the record matching the raw token's
// fingerprint. Revoking an unknown or already-revoked token succeeds;
// logout is idempotent.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, raw string) error {
	hash := cryptox.FingerprintToken(raw)
	if err := s.Store.RefreshTokens().DeleteRefreshTokenByHash(ctx, hash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllRefreshTokens deletes every refresh token the user holds
// ("logout all devices", forced by password changes).
func (s *TokenService) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	if err := s.Store.RefreshTokens().DeleteUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}

// ListSessions returns the user's active refresh token records, most
// recently used first.
func (s *TokenService) ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.RefreshToken, error) {
	return s.Store.RefreshTokens().ListUserRefreshTokens(ctx, userID, time.Now().UTC())
}

// CleanupExpired sweeps expired refresh token rows and reports the count.
// Best-effort housekeeping; correctness never depends on it because every
// lookup also checks expires_at.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, time.Now().UTC())
}

// cleanupExpiredQuietly runs the expiry sweep after a mutating flow and
// swallows failures.
func (s *TokenService) cleanupExpiredQuietly(ctx context.Context) {
	if _, err := s.CleanupExpired(ctx); err != nil {
		slogx.FromContext(ctx).Warn("refresh token cleanup failed", "error", err)
	}
}

func stripBearer(v string) string {
	if len(v) >= 7 && strings.EqualFold(v[:7], "Bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return strings.TrimSpace(v)
}
