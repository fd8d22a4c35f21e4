package service

import (
	"context"
	"testing"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/pkg/cryptox"
	"github.com/azmin8744/soliloquio/pkg/idx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := createTestUser(t, st, "author@example.com", "password123")

	t.Run("valid token yields the user id", func(t *testing.T) {
		token, err := svc.IssueAccessToken(user)
		require.NoError(t, err)

		userID, err := svc.Authenticate(token)
		require.NoError(t, err)
		require.Equal(t, user.ID, userID)
	})

	t.Run("Bearer prefix is stripped", func(t *testing.T) {
		token, err := svc.IssueAccessToken(user)
		require.NoError(t, err)

		userID, err := svc.Authenticate("Bearer " + token)
		require.NoError(t, err)
		require.Equal(t, user.ID, userID)
	})

	t.Run("empty credential", func(t *testing.T) {
		_, err := svc.Authenticate("")
		require.ErrorIs(t, err, ErrTokenNotFound)

		_, err = svc.Authenticate("Bearer ")
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("garbage credential", func(t *testing.T) {
		_, err := svc.Authenticate("not-a-jwt")
		require.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.Codec.Encode(user.ID, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Authenticate(token)
		require.ErrorIs(t, err, ErrBadCredentials)
	})
}

func TestIssuePairAndValidateRefreshToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := createTestUser(t, st, "author@example.com", "password123")

	device := "test-agent/1.0"
	pair, err := svc.IssuePair(ctx, user, &device)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)

	// The raw refresh token is never stored; only its fingerprint is.
	hash := cryptox.FingerprintToken(pair.RefreshToken)
	stored, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.UserID)
	require.NotEqual(t, pair.RefreshToken, stored.TokenHash)
	require.Nil(t, stored.LastUsedAt)

	record, err := svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, record.UserID)
	require.NotNil(t, record.LastUsedAt, "validation must bump last_used_at")

	t.Run("unknown raw token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(ctx, cryptox.MustGenerateToken(cryptox.TokenSize256))
		require.ErrorIs(t, err, ErrBadCredentials)
	})
}

func TestValidateRefreshToken_Expired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := createTestUser(t, st, "author@example.com", "password123")

	raw := cryptox.MustGenerateToken(cryptox.TokenSize256)
	now := time.Now().UTC()
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: now.Add(-time.Hour),
		CreatedAt: now.Add(-2 * time.Hour),
	}))

	// Expired and unknown tokens are indistinguishable.
	_, err := svc.ValidateRefreshToken(ctx, raw)
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestRevokeRefreshToken_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := createTestUser(t, st, "author@example.com", "password123")

	pair, err := svc.IssuePair(ctx, user, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRefreshToken(ctx, pair.RefreshToken))

	_, err = svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrBadCredentials)

	// Second revocation of the same token still succeeds.
	require.NoError(t, svc.RevokeRefreshToken(ctx, pair.RefreshToken))

	// As does revoking a token that never existed.
	require.NoError(t, svc.RevokeRefreshToken(ctx, cryptox.MustGenerateToken(cryptox.TokenSize256)))
}

func TestRevokeAllRefreshTokens_UserIsolation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	alice := createTestUser(t, st, "alice@example.com", "password123")
	bob := createTestUser(t, st, "bob@example.com", "password123")

	var aliceTokens []string
	for range 3 {
		pair, err := svc.IssuePair(ctx, alice, nil)
		require.NoError(t, err)
		aliceTokens = append(aliceTokens, pair.RefreshToken)
	}
	bobPair, err := svc.IssuePair(ctx, bob, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllRefreshTokens(ctx, alice.ID))

	for _, raw := range aliceTokens {
		_, err := svc.ValidateRefreshToken(ctx, raw)
		require.ErrorIs(t, err, ErrBadCredentials)
	}

	// Bob's session survives.
	_, err = svc.ValidateRefreshToken(ctx, bobPair.RefreshToken)
	require.NoError(t, err)
}

func TestCleanupExpiredRefreshTokens(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := createTestUser(t, st, "author@example.com", "password123")

	now := time.Now().UTC()
	for i := range 2 {
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    user.ID,
			TokenHash: cryptox.FingerprintToken(cryptox.MustGenerateToken(cryptox.TokenSize256)),
			ExpiresAt: now.Add(-time.Duration(i+1) * time.Hour),
			CreatedAt: now.Add(-24 * time.Hour),
		}))
	}
	live, err := svc.IssuePair(ctx, user, nil)
	require.NoError(t, err)

	deleted, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	// The live session is untouched.
	_, err = svc.ValidateRefreshToken(ctx, live.RefreshToken)
	require.NoError(t, err)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := createTestUser(t, st, "author@example.com", "password123")

	laptop := "laptop"
	phone := "phone"
	_, err := svc.IssuePair(ctx, user, &laptop)
	require.NoError(t, err)
	phonePair, err := svc.IssuePair(ctx, user, &phone)
	require.NoError(t, err)

	// Touch the phone session so it sorts first.
	_, err = svc.ValidateRefreshToken(ctx, phonePair.RefreshToken)
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, &phone, sessions[0].DeviceInfo)
	require.Equal(t, &laptop, sessions[1].DeviceInfo)

	t.Run("expired sessions are excluded", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    user.ID,
			TokenHash: cryptox.FingerprintToken(cryptox.MustGenerateToken(cryptox.TokenSize256)),
			ExpiresAt: now.Add(-time.Minute),
			CreatedAt: now.Add(-time.Hour),
		}))

		sessions, err := svc.ListSessions(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		sessions, err := svc.ListSessions(ctx, uuid.New())
		require.NoError(t, err)
		require.Empty(t, sessions)
	})
}
