package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationKind scopes a verification token to exactly one purpose. A
// token minted for one kind must never validate a request for another.
type VerificationKind string

const (
	KindEmailVerification VerificationKind = "email_verification"
	KindPasswordReset     VerificationKind = "password_reset"
)

// Valid reports whether k is a known kind.
func (k VerificationKind) Valid() bool {
	return k == KindEmailVerification || k == KindPasswordReset
}

// VerificationToken models a persisted single-use token. A record with a
// non-nil UsedAt must never again authorize the action it represents.
type VerificationToken struct {
	ID        string // ULID
	UserID    uuid.UUID
	TokenHash string
	Kind      VerificationKind
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
