package http

import (
	"net/http"

	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/pkg/api"
	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

type SessionsHandler struct {
	UserService *service.UserService
}

// ServeHTTP lists the user's active sessions. Token fingerprints never
// leave the server; only metadata is returned.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	sessions, err := h.UserService.ListSessions(ctx, user.ID)
	if err != nil {
		slogx.FromContext(ctx).Error("session listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list sessions")
		return
	}

	out := make([]api.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, api.SessionResponse{
			ID:         s.ID,
			DeviceInfo: s.DeviceInfo,
			CreatedAt:  s.CreatedAt,
			LastUsedAt: s.LastUsedAt,
			ExpiresAt:  s.ExpiresAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, api.SessionsResponse{Sessions: out})
}

type MeHandler struct{}

// ServeHTTP returns the authenticated user's own profile.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified(),
		CreatedAt:     user.CreatedAt,
	})
}
