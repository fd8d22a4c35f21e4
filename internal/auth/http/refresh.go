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

type RefreshHandler struct {
	UserService *service.UserService
	AccessTTL   time.Duration
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	rawRefresh, ok := refreshTokenFromRequest(r, w)
	if !ok {
		return
	}
	if rawRefresh == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	_, accessToken, err := h.UserService.RefreshAccessToken(ctx, rawRefresh)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials), errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_grant", "Refresh token is invalid or expired")
		default:
			log.Error("token refresh failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to refresh token")
		}
		return
	}

	setAccessCookie(w, accessToken, h.AccessTTL)
	httpx.WriteJSON(w, http.StatusOK, api.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.AccessTTL.Seconds()),
	})
}

// refreshTokenFromRequest prefers the JSON body over the cookie so API
// clients without cookie jars can drive the flow. A false return means the
// body was malformed and the 400 response has already been written.
func refreshTokenFromRequest(r *http.Request, w http.ResponseWriter) (string, bool) {
	if r.Body != nil && r.ContentLength != 0 {
		var req api.RefreshRequest
		if !decodeJSON(w, r, &req) {
			return "", false
		}
		if req.RefreshToken != "" {
			return req.RefreshToken, true
		}
	}
	return httpx.RefreshTokenFromRequest(r), true
}
