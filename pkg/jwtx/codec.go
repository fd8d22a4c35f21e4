// Package jwtx wraps github.com/golang-jwt/jwt/v5 with a small HMAC codec.
// Tokens are self-contained: once minted they are valid until exp and cannot
// be revoked early. Every token carries a unique jti so a denylist keyed by
// token id can be bolted on later without a claims change.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTLs. Services normally override these from configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrNoSecret     = errors.New("jwtx: signing secret is empty")
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrSubject      = errors.New("jwtx: subject is not a valid user id")
)

// Claims are the access-token claims: issuer, subject (user UUID in its
// canonical string form), issued-at, expiry and a unique token id.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user UUID.
func (c Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrSubject
	}
	return id, nil
}

// Codec encodes and decodes HS256-signed claims under a single shared
// secret. It is a pure function of the secret and the issuer string and
// holds no mutable state, so a single instance is safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a codec. The secret is required; an empty secret would
// make every token forgeable.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// Encode mints a signed token for the given subject with the given lifetime.
func (c *Codec) Encode(subject uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature before trusting any claim field, then
// enforces expiry and issuer. Structurally malformed input, wrong
// algorithms and bad signatures all map onto a small error set.
func (c *Codec) Decode(token string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return Claims{}, ErrIssuer
		default:
			return Claims{}, ErrInvalidToken
		}
	}

	return claims, nil
}
