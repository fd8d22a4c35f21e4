package service

import "errors"

// Failure taxonomy. Everything credential-shaped collapses into
// ErrBadCredentials at the API boundary so callers cannot enumerate
// accounts or tokens; the finer-grained values exist for observability and
// for flows that legitimately need the distinction (single-use tokens).
var (
	// ErrTokenNotFound means no credential was presented at all.
	ErrTokenNotFound = errors.New("auth: no credential presented")

	// ErrBadCredentials covers invalid signatures, malformed tokens,
	// unknown or expired refresh and verification tokens, wrong
	// verification kinds, and wrong passwords.
	ErrBadCredentials = errors.New("auth: invalid credentials")

	// ErrUserNotFound means a structurally valid token referenced an
	// account that no longer exists. Surfaced distinctly for logs but
	// worded identically to ErrBadCredentials at the boundary.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrTokenAlreadyUsed reports a second consumption attempt on a
	// single-use verification token.
	ErrTokenAlreadyUsed = errors.New("auth: token already used")

	// ErrTokenExpired reports a verification token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrEmailTaken reports a sign-up against an existing address.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrRegistrationClosed reports a sign-up while single-user mode has
	// an account already.
	ErrRegistrationClosed = errors.New("auth: registration is disabled")

	// ErrAlreadyVerified reports a redundant verification resend.
	ErrAlreadyVerified = errors.New("auth: email already verified")
)
