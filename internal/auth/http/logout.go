package http

import (
	"net/http"

	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/pkg/api"
	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

type LogoutHandler struct {
	UserService *service.UserService
}

// ServeHTTP revokes the presented refresh token. Revoking an unknown token
// still returns 200; logout is idempotent.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawRefresh, ok := refreshTokenFromRequest(r, w)
	if !ok {
		return
	}
	if rawRefresh == "" {
		clearSessionCookies(w)
		httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "logged out"})
		return
	}

	if err := h.UserService.Logout(ctx, rawRefresh); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to log out")
		return
	}

	clearSessionCookies(w)
	httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "logged out"})
}

type LogoutAllHandler struct {
	UserService *service.UserService
}

// ServeHTTP revokes every session of the authenticated user.
func (h *LogoutAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	if err := h.UserService.LogoutAllDevices(ctx, user.ID); err != nil {
		slogx.FromContext(ctx).Error("logout all failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to log out")
		return
	}

	clearSessionCookies(w)
	httpx.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "logged out everywhere"})
}
