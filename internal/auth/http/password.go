package http

import (
	"errors"
	"net/http"

	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/pkg/api"
	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

type ForgotPasswordHandler struct {
	UserService *service.UserService
}

// ServeHTTP starts a password reset. The response never reveals whether
// the address has an account.
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := h.UserService.ForgotPassword(ctx, req.Email); err != nil {
		slogx.FromContext(ctx).Error("forgot password failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to process request")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{
		Message: "If that email is registered, a reset link has been sent",
	})
}

type ResetPasswordHandler struct {
	UserService *service.UserService
}

func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}
	if req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "new_password is required")
		return
	}

	if err := h.UserService.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "Reset token is invalid")
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "Reset token has already been used")
		case errors.Is(err, service.ErrTokenExpired):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "Reset token has expired")
		default:
			log.Error("password reset failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to reset password")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "password has been reset"})
}

type ChangePasswordHandler struct {
	UserService *service.UserService
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	var req api.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "current_password and new_password are required")
		return
	}

	if err := h.UserService.ChangePassword(ctx, user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_grant", "Current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		default:
			log.Error("password change failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to change password")
		}
		return
	}

	// Every session was revoked, including this one.
	clearSessionCookies(w)
	httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "password changed, please sign in again"})
}
