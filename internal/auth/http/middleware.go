package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

type ctxKey string

const ctxKeyUser ctxKey = "auth.user"

// UserFromContext returns the authenticated user stored by AuthnMiddleware.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(domain.User)
	return user, ok
}

// AuthnMiddleware authenticates the request through the authenticator
// façade and injects the resolved user into the context. The Authorization
// header wins over the access_token cookie. Every authentication failure
// produces the same 401 body; the distinction between a bad token and a
// deleted account lives only in the logs.
func AuthnMiddleware(authn *service.Authenticator) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			credential := httpx.BearerFromRequest(r)
			user, err := authn.Authenticate(ctx, credential)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrTokenNotFound),
					errors.Is(err, service.ErrBadCredentials),
					errors.Is(err, service.ErrUserNotFound):
					httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
				default:
					slogx.FromContext(ctx).Error("authentication lookup failed", "error", err)
					httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Authentication failed")
				}
				return
			}

			ctx = context.WithValue(ctx, ctxKeyUser, user)
			ctx = httpx.ContextWithUserID(ctx, user.ID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
