package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestBearerFromRequest(t *testing.T) {
	t.Run("reads the Authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc123")

		require.Equal(t, "abc123", httpx.BearerFromRequest(req))
	})

	t.Run("falls back to the access_token cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: "cookie-token"})

		require.Equal(t, "cookie-token", httpx.BearerFromRequest(req))
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: "cookie-token"})

		require.Equal(t, "header-token", httpx.BearerFromRequest(req))
	})

	t.Run("empty when neither present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.Empty(t, httpx.BearerFromRequest(req))
	})

	t.Run("header without Bearer scheme passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "raw-token")

		require.Equal(t, "raw-token", httpx.BearerFromRequest(req))
	})
}

func TestRefreshTokenFromRequest(t *testing.T) {
	t.Run("reads the refresh_token cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.RefreshTokenCookie, Value: "refresh-value"})

		require.Equal(t, "refresh-value", httpx.RefreshTokenFromRequest(req))
	})

	t.Run("never consults headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-refresh-token")

		require.Empty(t, httpx.RefreshTokenFromRequest(req))
	})
}

func TestStripBearerPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"standard prefix", "Bearer token123", "token123"},
		{"lowercase prefix", "bearer token123", "token123"},
		{"mixed case prefix", "BeArEr token123", "token123"},
		{"no prefix", "token123", "token123"},
		{"surrounding whitespace", "  token123  ", "token123"},
		{"empty", "", ""},
		{"prefix only", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, httpx.StripBearerPrefix(tt.input))
		})
	}
}
