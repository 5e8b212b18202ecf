package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
	"github.com/MF1DEV/vantora/internal/platform/config"
)

func TestSecurityHeaders(t *testing.T) {
	service := &mockAppService{
		publicProfileFn: func(context.Context, string) (*app.PublicProfile, error) {
			return &app.PublicProfile{Username: "alice"}, nil
		},
	}
	srv := newTestServer(t, service)

	t.Run("api responses skip the CSP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles/alice", nil)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
	})

	t.Run("page routes get the full header set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)

		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
		assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	})

	t.Run("static assets get immutable caching", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/app.css", nil)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)

		assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
	})
}

func TestIsStaticAsset(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/static/app.css", true},
		{"/assets/logo.png", true},
		{"/favicon.ico", true},
		{"/fonts/inter.woff2", true},
		{"/api/stats", false},
		{"/health/live", false},
		{"/", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isStaticAsset(tt.path), "path %q", tt.path)
	}
}

func TestErrorResponsesHideCauses(t *testing.T) {
	service := &mockAppService{
		publicProfileFn: func(context.Context, string) (*app.PublicProfile, error) {
			return nil, errors.New("pq: relation does not exist")
		},
	}
	srv := newTestServer(t, service)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/alice", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation does not exist")
	assert.Contains(t, rec.Body.String(), "failed to load public profile")
}

func TestAuthRateLimiting(t *testing.T) {
	service := &mockAppService{
		authenticateFn: func(context.Context, string, string) (*domain.Profile, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	srv := newTestServer(t, service, func(cfg *config.Config) {
		cfg.AuthRatePerSecond = 1
		cfg.AuthRateBurst = 2
	})

	var lastCode int
	for i := 0; i < 10; i++ {
		token, cookie := issueCSRF(t, srv)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set(csrfHeaderName, token)
		req.AddCookie(cookie)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode, "sustained login attempts hit the limiter")
}
