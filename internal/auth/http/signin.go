package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/pkg/api"
	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

type SignInHandler struct {
	UserService *service.UserService
	RefreshTTL  time.Duration
}

func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	_, pair, err := h.UserService.SignIn(ctx, req.Email, req.Password, deviceInfoFromRequest(r))
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			// Same body for unknown email and wrong password.
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_grant", "Invalid email or password")
			return
		}
		log.Error("sign-in failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to sign in")
		return
	}

	setSessionCookies(w, pair, h.RefreshTTL)
	httpx.WriteJSON(w, http.StatusOK, api.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	})
}
