// Package api holds the request and response shapes of the authentication
// HTTP surface. Handlers and clients share these types so the wire format
// is defined in exactly one place.
package api

import (
	"time"

	"github.com/google/uuid"
)

// SignUpRequest creates a new account.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest opens a session for an existing account.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new access token. The
// token may instead travel in the refresh_token cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LogoutRequest revokes a refresh token. The token may instead travel in
// the refresh_token cookie.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest rotates the password of an authenticated user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// VerifyEmailRequest consumes an email verification token.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// TokenResponse carries a freshly issued session. RefreshToken is empty on
// plain access-token refreshes.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionResponse is one active refresh token, shown without its secret.
type SessionResponse struct {
	ID         string     `json:"id"`
	DeviceInfo *string    `json:"device_info,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// SessionsResponse lists a user's active sessions.
type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// MessageResponse acknowledges an operation with no data to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthChecks reports per-dependency health for the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
