package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
)

func TestCSRFTokenIssuer(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	token, cookie := issueCSRF(t, srv)

	assert.Len(t, token, 64, "token is 32 random bytes, hex-encoded")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.False(t, cookie.Secure, "secure flag is off outside production")

	// The cookie holds the signature, not the token itself.
	assert.NotEqual(t, token, cookie.Value)

	second, _ := issueCSRF(t, srv)
	assert.NotEqual(t, token, second, "every issue produces a fresh token")
}

func TestCSRFVerification(t *testing.T) {
	profileID := uuid.New()
	service := &mockAppService{
		updateProfileFn: func(_ context.Context, id uuid.UUID, _ app.UpdateProfileInput) (*domain.Profile, error) {
			return &domain.Profile{ID: id, Username: "alice"}, nil
		},
	}
	srv := newTestServer(t, service)

	newUpdateRequest := func() (*http.Request, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(`{"display_name":"Alice"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		setSessionProfileID(t, srv, req, rec, profileID)
		return req, rec
	}

	t.Run("rejects request without token", func(t *testing.T) {
		req, rec := newUpdateRequest()
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects token without cookie", func(t *testing.T) {
		token, _ := issueCSRF(t, srv)
		req, rec := newUpdateRequest()
		req.Header.Set(csrfHeaderName, token)
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects token not matching the cookie signature", func(t *testing.T) {
		_, cookie := issueCSRF(t, srv)
		otherToken, _ := issueCSRF(t, srv)

		req, rec := newUpdateRequest()
		req.Header.Set(csrfHeaderName, otherToken)
		req.AddCookie(cookie)
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts matching token and cookie", func(t *testing.T) {
		token, cookie := issueCSRF(t, srv)

		req, rec := newUpdateRequest()
		req.Header.Set(csrfHeaderName, token)
		req.AddCookie(cookie)
		srv.echo.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCSRFExemptRoutes(t *testing.T) {
	service := &mockAppService{
		statsFn: func(context.Context) (*domain.StatsSnapshot, error) {
			return &domain.StatsSnapshot{}, nil
		},
	}
	srv := newTestServer(t, service)

	// Read-only and tracking endpoints carry no CSRF requirement.
	t.Run("stats", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("analytics track", func(t *testing.T) {
		body := `{"user_id":"` + uuid.NewString() + `","event_type":"view"}`
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
