package http

import (
	"net/http"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/domain"
	"github.com/azmin8744/soliloquio/pkg/httpx"
)

// setSessionCookies mirrors a freshly issued token pair into HttpOnly
// cookies for browser clients. API clients can ignore the cookies and use
// the JSON body instead.
func setSessionCookies(w http.ResponseWriter, pair domain.TokenPair, refreshTTL time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.ExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// setAccessCookie refreshes only the access_token cookie.
func setAccessCookie(w http.ResponseWriter, accessToken string, accessTTL time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookies expires both session cookies.
func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{httpx.AccessTokenCookie, httpx.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
