package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthenticatorAuthenticate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	tokens := newTestTokenService(t, st)
	authn := &Authenticator{Store: st, Tokens: tokens}
	user := createTestUser(t, st, "author@example.com", "password123")

	t.Run("valid credential resolves the user", func(t *testing.T) {
		token, err := tokens.IssueAccessToken(user)
		require.NoError(t, err)

		got, err := authn.Authenticate(ctx, "Bearer "+token)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.Equal(t, user.Email, got.Email)
	})

	t.Run("missing credential", func(t *testing.T) {
		_, err := authn.Authenticate(ctx, "")
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("garbage credential", func(t *testing.T) {
		_, err := authn.Authenticate(ctx, "Bearer garbage")
		require.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("expired credential", func(t *testing.T) {
		token, err := tokens.Codec.Encode(user.ID, -time.Minute)
		require.NoError(t, err)

		_, err = authn.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("valid token for a deleted account", func(t *testing.T) {
		ghost := createTestUser(t, st, "ghost@example.com", "password123")
		token, err := tokens.IssueAccessToken(ghost)
		require.NoError(t, err)

		require.NoError(t, st.Users().DeleteUser(ctx, ghost.ID))

		_, err = authn.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
