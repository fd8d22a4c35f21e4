package httpx

import (
	"net/http"
	"strings"
)

// Cookie names used by the boundary layer. The GraphQL gateway and this
// service must agree on these.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// BearerFromRequest extracts the access credential from a request. The
// Authorization header takes precedence; the access_token cookie is
// consulted only when no header is present, and that ordering holds for the
// whole request lifecycle. Returns "" when neither carries a credential.
func BearerFromRequest(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		return StripBearerPrefix(authz)
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// RefreshTokenFromRequest extracts the refresh credential from the
// refresh_token cookie. Refresh tokens have no header-based transport;
// callers may also supply the value in a request body, which takes
// precedence and is handled by the individual handler.
func RefreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// StripBearerPrefix removes a leading "Bearer " scheme marker if present.
// This is a presentation-layer convenience, not part of the codec contract.
func StripBearerPrefix(v string) string {
	if len(v) >= 7 && strings.EqualFold(v[:7], "Bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return strings.TrimSpace(v)
}
