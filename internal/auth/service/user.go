package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/internal/auth/email"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/pkg/cryptox"
	"github.com/azmin8744/soliloquio/pkg/slogx"
	"github.com/google/uuid"
)

// UserService orchestrates the account flows: sign-up, sign-in, refresh,
// logout, password changes and email verification. It composes the token
// and verification services and the email collaborator; it performs no
// crypto of its own beyond password hashing.
type UserService struct {
	Store        store.Store
	Tokens       *TokenService
	Verification *VerificationService
	Email        email.Sender

	// SingleUserMode closes registration once one account exists.
	SingleUserMode bool
}

// SignUp creates an account, opens a session, and kicks off email
// verification. The verification email is best-effort; its failure never
// fails the sign-up.
func (s *UserService) SignUp(ctx context.Context, emailAddr, password string, deviceInfo *string) (domain.User, domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	if s.SingleUserMode {
		count, err := s.Store.Users().CountUsers(ctx)
		if err != nil {
			return domain.User{}, domain.TokenPair{}, fmt.Errorf("count users: %w", err)
		}
		if count >= 1 {
			return domain.User{}, domain.TokenPair{}, ErrRegistrationClosed
		}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.New(),
		Email:        emailAddr,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.TokenPair{}, ErrEmailTaken
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.Tokens.IssuePair(ctx, user, deviceInfo)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	s.sendVerificationEmail(ctx, user)
	s.Tokens.cleanupExpiredQuietly(ctx)

	log.Info("user signed up", "user_id", user.ID)
	return user, pair, nil
}

// SignIn verifies the password and opens a new session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) SignIn(ctx context.Context, emailAddr, password string, deviceInfo *string) (domain.User, domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("sign-in failed: email not found")
			return domain.User{}, domain.TokenPair{}, ErrBadCredentials
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("look up user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("sign-in failed: wrong password", "user_id", user.ID)
		return domain.User{}, domain.TokenPair{}, ErrBadCredentials
	}

	pair, err := s.Tokens.IssuePair(ctx, user, deviceInfo)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	s.Tokens.cleanupExpiredQuietly(ctx)

	log.Info("user signed in", "user_id", user.ID)
	return user, pair, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access
// token. The refresh token itself stays valid until expiry or revocation.
func (s *UserService) RefreshAccessToken(ctx context.Context, rawRefresh string) (domain.User, string, error) {
	record, err := s.Tokens.ValidateRefreshToken(ctx, rawRefresh)
	if err != nil {
		return domain.User{}, "", err
	}

	user, err := s.Store.Users().GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("refresh token references missing user", "user_id", record.UserID)
			return domain.User{}, "", ErrUserNotFound
		}
		return domain.User{}, "", fmt.Errorf("load user: %w", err)
	}

	accessToken, err := s.Tokens.IssueAccessToken(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue access token: %w", err)
	}

	s.Tokens.cleanupExpiredQuietly(ctx)
	return user, accessToken, nil
}

// Logout revokes the presented refresh token. Revoking an unknown token is
// not an error; any outstanding access token ages out within its TTL.
func (s *UserService) Logout(ctx context.Context, rawRefresh string) error {
	return s.Tokens.RevokeRefreshToken(ctx, rawRefresh)
}

// LogoutAllDevices revokes every session the user holds.
func (s *UserService) LogoutAllDevices(ctx context.Context, userID uuid.UUID) error {
	return s.Tokens.RevokeAllRefreshTokens(ctx, userID)
}

// ListSessions returns the user's active sessions for display.
func (s *UserService) ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.RefreshToken, error) {
	return s.Tokens.ListSessions(ctx, userID)
}

// ChangePassword verifies the current password, swaps in the new hash, and
// revokes all sessions in the same transaction so no stale refresh token
// survives the change.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		return ErrBadCredentials
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, userID, newHash); err != nil {
			return err
		}
		return tx.RefreshTokens().DeleteUserRefreshTokens(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.Tokens.cleanupExpiredQuietly(ctx)

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}

// ForgotPassword starts the reset flow. The response is identical whether
// or not the address has an account, so the endpoint cannot be used to
// enumerate emails.
func (s *UserService) ForgotPassword(ctx context.Context, emailAddr string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up user: %w", err)
	}

	raw, err := s.Verification.Create(ctx, user.ID, domain.KindPasswordReset, PasswordResetTTL)
	if err != nil {
		log.Warn("failed to create password reset token", "user_id", user.ID, "error", err)
		return nil
	}

	if err := s.Email.SendPasswordReset(ctx, user.Email, raw); err != nil {
		log.Warn("failed to send password reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword consumes a password-reset token and installs the new hash,
// revoking all sessions in the same transaction.
func (s *UserService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	record, err := s.Verification.Validate(ctx, rawToken, domain.KindPasswordReset)
	if err != nil {
		return err
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, record.UserID, newHash); err != nil {
			return err
		}
		return tx.RefreshTokens().DeleteUserRefreshTokens(ctx, record.UserID)
	})
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.Tokens.cleanupExpiredQuietly(ctx)
	s.Verification.cleanupExpiredQuietly(ctx)

	slogx.FromContext(ctx).Info("password reset", "user_id", record.UserID)
	return nil
}

// VerifyEmail consumes an email-verification token and marks the account
// verified.
func (s *UserService) VerifyEmail(ctx context.Context, rawToken string) (uuid.UUID, error) {
	record, err := s.Verification.Validate(ctx, rawToken, domain.KindEmailVerification)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.Store.Users().MarkEmailVerified(ctx, record.UserID, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("mark email verified: %w", err)
	}

	s.Verification.cleanupExpiredQuietly(ctx)

	slogx.FromContext(ctx).Info("email verified", "user_id", record.UserID)
	return record.UserID, nil
}

// ResendVerificationEmail issues a fresh verification token for an
// unverified account.
func (s *UserService) ResendVerificationEmail(ctx context.Context, userID uuid.UUID) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if user.EmailVerified() {
		return ErrAlreadyVerified
	}

	s.sendVerificationEmail(ctx, user)
	return nil
}

// sendVerificationEmail mints a verification token and hands it to the
// email collaborator. Failures are logged and swallowed.
func (s *UserService) sendVerificationEmail(ctx context.Context, user domain.User) {
	log := slogx.FromContext(ctx)

	raw, err := s.Verification.Create(ctx, user.ID, domain.KindEmailVerification, EmailVerificationTTL)
	if err != nil {
		log.Warn("failed to create verification token", "user_id", user.ID, "error", err)
		return
	}

	if err := s.Email.SendEmailVerification(ctx, user.Email, raw); err != nil {
		log.Warn("failed to send verification email", "user_id", user.ID, "error", err)
	}
}
