package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewCodec(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewCodec("", "issuer")
		require.ErrorIs(t, err, ErrNoSecret)
	})

	t.Run("accepts empty issuer", func(t *testing.T) {
		_, err := NewCodec("secret", "")
		require.NoError(t, err)
	})
}

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret", "blog.example.com")
	require.NoError(t, err)

	subject := uuid.New()

	token, err := codec.Encode(subject, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "blog.example.com", claims.Issuer)
	require.Equal(t, subject.String(), claims.Subject)
	require.NotEmpty(t, claims.ID, "every token must carry a unique jti")

	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, subject, userID)
}

func TestCodecUniqueTokenIDs(t *testing.T) {
	codec, err := NewCodec("test-secret", "blog.example.com")
	require.NoError(t, err)

	subject := uuid.New()

	first, err := codec.Encode(subject, time.Minute)
	require.NoError(t, err)
	second, err := codec.Encode(subject, time.Minute)
	require.NoError(t, err)

	firstClaims, err := codec.Decode(first)
	require.NoError(t, err)
	secondClaims, err := codec.Decode(second)
	require.NoError(t, err)

	require.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestCodecDecodeFailures(t *testing.T) {
	codec, err := NewCodec("test-secret", "blog.example.com")
	require.NoError(t, err)

	subject := uuid.New()

	t.Run("expired token", func(t *testing.T) {
		token, err := codec.Encode(subject, -time.Minute)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewCodec("different-secret", "blog.example.com")
		require.NoError(t, err)

		token, err := other.Encode(subject, time.Minute)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewCodec("test-secret", "evil.example.com")
		require.NoError(t, err)

		token, err := other.Encode(subject, time.Minute)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, garbage := range []string{"", "garbage", "a.b", "a.b.c.d"} {
			_, err := codec.Decode(garbage)
			require.ErrorIs(t, err, ErrMalformed, "input %q", garbage)
		}
	})

	t.Run("rejects unsigned algorithm", func(t *testing.T) {
		// alg=none tokens must not pass even with a valid payload.
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Issuer:    "blog.example.com",
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.Error(t, err)
	})

	t.Run("missing expiry rejected", func(t *testing.T) {
		eternal := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:  "blog.example.com",
			Subject: subject.String(),
		})
		token, err := eternal.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.Error(t, err)
	})
}

func TestClaimsUserID_InvalidSubject(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"}}
	_, err := claims.UserID()
	require.ErrorIs(t, err, ErrSubject)
}
