package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenPair is what credential-issuing flows return: the short-lived access
// token (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // seconds until access expiry
}

// RefreshToken models the stored refresh token record. Only the SHA-256
// fingerprint of the raw value is persisted; the raw value itself leaves the
// system exactly once, at creation.
type RefreshToken struct {
	ID         string // ULID
	UserID     uuid.UUID
	TokenHash  string // deterministic fingerprint (base64url SHA-256)
	DeviceInfo *string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	LastUsedAt *time.Time
}
