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

func postJSON(t *testing.T, srv *Server, path, body string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	token, cookie := issueCSRF(t, srv)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(csrfHeaderName, token)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	return req, rec
}

func TestRegisterEndpoint(t *testing.T) {
	profileID := uuid.New()
	service := &mockAppService{
		registerFn: func(_ context.Context, input app.RegisterInput) (*domain.Profile, error) {
			switch input.Username {
			case "taken":
				return nil, domain.ErrDuplicateUsername
			case "x":
				return nil, app.ErrInvalidUsername
			}
			return &domain.Profile{
				ID:       profileID,
				Username: input.Username,
				Email:    input.Email,
				Theme:    domain.DefaultTheme(),
			}, nil
		},
	}
	srv := newTestServer(t, service)

	t.Run("success sets session and responds with profile", func(t *testing.T) {
		req, rec := postJSON(t, srv, "/api/auth/register",
			`{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`)
		srv.echo.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body profileView
		decodeJSON(t, rec.Body, &body)
		assert.Equal(t, "alice", body.Username)
		assert.Equal(t, profileID, body.ID)

		var sessionCookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionName && c.MaxAge >= 0 {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie, "registration logs the user in")
		assert.True(t, sessionCookie.HttpOnly)

		require.NotEmpty(t, service.auditEntries)
		assert.Equal(t, domain.AuditRegister, service.auditEntries[len(service.auditEntries)-1].EventType)
	})

	t.Run("invalid username is a 400", func(t *testing.T) {
		req, rec := postJSON(t, srv, "/api/auth/register",
			`{"username":"x","email":"a@b.com","password":"hunter2hunter2"}`)
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate username is a 409", func(t *testing.T) {
		req, rec := postJSON(t, srv, "/api/auth/register",
			`{"username":"taken","email":"a@b.com","password":"hunter2hunter2"}`)
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	profileID := uuid.New()
	service := &mockAppService{
		authenticateFn: func(_ context.Context, email, password string) (*domain.Profile, error) {
			if email == "alice@example.com" && password == "correct horse" {
				return &domain.Profile{ID: profileID, Username: "alice", Email: email}, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	srv := newTestServer(t, service)

	t.Run("valid credentials", func(t *testing.T) {
		req, rec := postJSON(t, srv, "/api/auth/login",
			`{"email":"alice@example.com","password":"correct horse"}`)
		srv.echo.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body profileView
		decodeJSON(t, rec.Body, &body)
		assert.Equal(t, profileID, body.ID)
	})

	t.Run("wrong credentials are a 401 with a generic message", func(t *testing.T) {
		req, rec := postJSON(t, srv, "/api/auth/login",
			`{"email":"alice@example.com","password":"wrong"}`)
		srv.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid email or password")
	})

	t.Run("login regenerates the session cookie", func(t *testing.T) {
		req, rec := postJSON(t, srv, "/api/auth/login",
			`{"email":"alice@example.com","password":"correct horse"}`)

		// A pre-auth session rides along; it must not survive login.
		preAuthRec := httptest.NewRecorder()
		setSessionProfileID(t, srv, req, preAuthRec, uuid.New())

		srv.echo.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var active *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionName && c.MaxAge >= 0 {
				active = c
			}
		}
		require.NotNil(t, active)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	profileID := uuid.New()
	srv := newTestServer(t, &mockAppService{})

	token, cookie := issueCSRF(t, srv)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(csrfHeaderName, token)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	setSessionProfileID(t, srv, req, rec, profileID)

	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var expired *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName && c.MaxAge < 0 {
			expired = c
		}
	}
	require.NotNil(t, expired, "logout expires the session cookie")
}

func TestRequireAuth(t *testing.T) {
	t.Run("no session is a 401", func(t *testing.T) {
		srv := newTestServer(t, &mockAppService{})

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session referencing a deleted profile is invalidated", func(t *testing.T) {
		service := &mockAppService{
			getProfileFn: func(context.Context, uuid.UUID) (*domain.Profile, error) {
				return nil, domain.ErrProfileNotFound
			},
		}
		srv := newTestServer(t, service)

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		rec := httptest.NewRecorder()
		setSessionProfileID(t, srv, req, rec, uuid.New())

		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
