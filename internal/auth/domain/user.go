package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record. The auth subsystem reads and verifies it;
// the only writes it performs are password updates and the verification
// timestamp.
type User struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    string // argon2id PHC encoded
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EmailVerified reports whether the account's email has been confirmed.
func (u User) EmailVerified() bool { return u.EmailVerifiedAt != nil }
