package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

// Authenticator is the façade every protected operation goes through:
// credential in, user out. Each request re-enters it from scratch; there is
// no cached session.
type Authenticator struct {
	Store  store.Store
	Tokens *TokenService
}

// Authenticate validates the bearer credential and loads the backing user.
// Terminal failures: ErrTokenNotFound (nothing presented),
// ErrBadCredentials (decode/signature/expiry), ErrUserNotFound (valid token,
// deleted account). Anything else is a storage failure, safe to retry.
func (a *Authenticator) Authenticate(ctx context.Context, credential string) (domain.User, error) {
	userID, err := a.Tokens.Authenticate(credential)
	if err != nil {
		return domain.User{}, err
	}

	user, err := a.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("token references missing user", "user_id", userID)
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	return user, nil
}
