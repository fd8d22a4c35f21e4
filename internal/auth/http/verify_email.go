package http

import (
	"errors"
	"net/http"

	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/pkg/api"
	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

type VerifyEmailHandler struct {
	UserService *service.UserService
}

func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.VerifyEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	if _, err := h.UserService.VerifyEmail(ctx, req.Token); err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "Verification token is invalid")
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "Verification token has already been used")
		case errors.Is(err, service.ErrTokenExpired):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "Verification token has expired")
		default:
			log.Error("email verification failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to verify email")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "email verified"})
}

type ResendVerificationHandler struct {
	UserService *service.UserService
}

func (h *ResendVerificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	if err := h.UserService.ResendVerificationEmail(ctx, user.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			httpx.WriteError(w, http.StatusConflict, "invalid_request", "Email is already verified")
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		default:
			slogx.FromContext(ctx).Error("resend verification failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to resend verification email")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "verification email sent"})
}
