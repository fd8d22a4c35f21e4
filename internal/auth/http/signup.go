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

type SignUpHandler struct {
	UserService *service.UserService
	RefreshTTL  time.Duration
}

func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}

	_, pair, err := h.UserService.SignUp(ctx, req.Email, req.Password, deviceInfoFromRequest(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "invalid_request", "Email is already registered")
		case errors.Is(err, service.ErrRegistrationClosed):
			httpx.WriteError(w, http.StatusForbidden, "registration_closed", "Registration is closed")
		default:
			log.Error("sign-up failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create account")
		}
		return
	}

	setSessionCookies(w, pair, h.RefreshTTL)
	httpx.WriteJSON(w, http.StatusCreated, api.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	})
}

// deviceInfoFromRequest captures the client's User-Agent for the session
// listing. Absent headers produce a nil pointer, not an empty string.
func deviceInfoFromRequest(r *http.Request) *string {
	ua := r.UserAgent()
	if ua == "" {
		return nil
	}
	return &ua
}
