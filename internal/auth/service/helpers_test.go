package service

import (
	"context"
	"testing"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/internal/auth/store/drivers/sqlite"
	"github.com/azmin8744/soliloquio/pkg/cryptox"
	"github.com/azmin8744/soliloquio/pkg/jwtx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	codec, err := jwtx.NewCodec("test-secret", "test-issuer")
	require.NoError(t, err)

	return &TokenService{
		Store:      st,
		Codec:      codec,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
}

func createTestUser(t *testing.T, st store.Store, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}
