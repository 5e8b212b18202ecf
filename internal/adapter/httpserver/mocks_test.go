package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
	"github.com/MF1DEV/vantora/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	registerFn      func(ctx context.Context, input app.RegisterInput) (*domain.Profile, error)
	authenticateFn  func(ctx context.Context, email, password string) (*domain.Profile, error)
	getProfileFn    func(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error)
	updateProfileFn func(ctx context.Context, profileID uuid.UUID, input app.UpdateProfileInput) (*domain.Profile, error)
	publicProfileFn func(ctx context.Context, username string) (*app.PublicProfile, error)

	createLinkFn   func(ctx context.Context, profileID uuid.UUID, input app.LinkInput) (*domain.Link, error)
	updateLinkFn   func(ctx context.Context, profileID, linkID uuid.UUID, input app.LinkInput) (*domain.Link, error)
	deleteLinkFn   func(ctx context.Context, profileID, linkID uuid.UUID) error
	listLinksFn    func(ctx context.Context, profileID uuid.UUID) ([]domain.Link, error)
	reorderLinksFn func(ctx context.Context, profileID uuid.UUID, linkIDs []uuid.UUID) error

	hashPasswordFn   func(password string) (string, error)
	verifyPasswordFn func(ctx context.Context, linkID uuid.UUID, password string) error

	addDomainFn   func(ctx context.Context, profileID uuid.UUID, hostname string) (*domain.CustomDomain, error)
	listDomainsFn func(ctx context.Context, profileID uuid.UUID) ([]domain.CustomDomain, error)

	trackEventFn func(event domain.AnalyticsEvent) bool
	statsFn      func(ctx context.Context) (*domain.StatsSnapshot, error)

	auditEntries []domain.AuditEntry
}

func (m *mockAppService) Register(ctx context.Context, input app.RegisterInput) (*domain.Profile, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Authenticate(ctx context.Context, email, password string) (*domain.Profile, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) GetProfileByID(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, profileID)
	}
	// requireAuth probes profile existence; default to a live profile.
	return &domain.Profile{ID: profileID, Username: "alice"}, nil
}

func (m *mockAppService) UpdateProfile(ctx context.Context, profileID uuid.UUID, input app.UpdateProfileInput) (*domain.Profile, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, profileID, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) PublicProfileByUsername(ctx context.Context, username string) (*app.PublicProfile, error) {
	if m.publicProfileFn != nil {
		return m.publicProfileFn(ctx, username)
	}
	return nil, domain.ErrProfileNotFound
}

func (m *mockAppService) CreateLink(ctx context.Context, profileID uuid.UUID, input app.LinkInput) (*domain.Link, error) {
	if m.createLinkFn != nil {
		return m.createLinkFn(ctx, profileID, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) UpdateLink(ctx context.Context, profileID, linkID uuid.UUID, input app.LinkInput) (*domain.Link, error) {
	if m.updateLinkFn != nil {
		return m.updateLinkFn(ctx, profileID, linkID, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) DeleteLink(ctx context.Context, profileID, linkID uuid.UUID) error {
	if m.deleteLinkFn != nil {
		return m.deleteLinkFn(ctx, profileID, linkID)
	}
	return nil
}

func (m *mockAppService) ListLinks(ctx context.Context, profileID uuid.UUID) ([]domain.Link, error) {
	if m.listLinksFn != nil {
		return m.listLinksFn(ctx, profileID)
	}
	return []domain.Link{}, nil
}

func (m *mockAppService) ReorderLinks(ctx context.Context, profileID uuid.UUID, linkIDs []uuid.UUID) error {
	if m.reorderLinksFn != nil {
		return m.reorderLinksFn(ctx, profileID, linkIDs)
	}
	return nil
}

func (m *mockAppService) HashLinkPassword(password string) (string, error) {
	if m.hashPasswordFn != nil {
		return m.hashPasswordFn(password)
	}
	if password == "" {
		return "", app.ErrMissingPassword
	}
	return "$2a$10$mockhash", nil
}

func (m *mockAppService) VerifyLinkPassword(ctx context.Context, linkID uuid.UUID, password string) error {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(ctx, linkID, password)
	}
	return domain.ErrLinkNotFound
}

func (m *mockAppService) AddDomain(ctx context.Context, profileID uuid.UUID, hostname string) (*domain.CustomDomain, error) {
	if m.addDomainFn != nil {
		return m.addDomainFn(ctx, profileID, hostname)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListDomains(ctx context.Context, profileID uuid.UUID) ([]domain.CustomDomain, error) {
	if m.listDomainsFn != nil {
		return m.listDomainsFn(ctx, profileID)
	}
	return []domain.CustomDomain{}, nil
}

func (m *mockAppService) TrackEvent(event domain.AnalyticsEvent) bool {
	if m.trackEventFn != nil {
		return m.trackEventFn(event)
	}
	return true
}

func (m *mockAppService) Stats(ctx context.Context) (*domain.StatsSnapshot, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &domain.StatsSnapshot{UpdatedAt: time.Now()}, nil
}

func (m *mockAppService) StatsTTL() time.Duration { return 30 * time.Second }

func (m *mockAppService) RecordAudit(entry domain.AuditEntry) {
	m.auditEntries = append(m.auditEntries, entry)
}

// --- Test helpers ---

const testCSRFSecret = "test-csrf-secret-32-bytes-long!!"

func newTestServer(t *testing.T, service appService, cfgOpts ...func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:            "test",
		SessionSecret:     "test-secret-key-32-bytes-long!!!",
		CSRFSecret:        testCSRFSecret,
		SessionMaxAge:     time.Hour,
		CSRFTokenTTL:      time.Hour,
		AuthRatePerSecond: 100,
		AuthRateBurst:     100,
	}
	for _, opt := range cfgOpts {
		opt(cfg)
	}

	e := echo.New()
	e.HideBanner = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          service,
		sessionStore: setupSessionStore(cfg),
		startTime:    time.Now(),
	}
	srv.registerRoutes()

	return srv
}

func setSessionProfileID(t *testing.T, srv *Server, req *http.Request, rec *httptest.ResponseRecorder, profileID uuid.UUID) {
	t.Helper()
	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyProfileID] = profileID.String()
	require.NoError(t, session.Save(req, rec))
}

// issueCSRF fetches a token/cookie pair from the issuer endpoint.
func issueCSRF(t *testing.T, srv *Server) (token string, cookie *http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/csrf", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "CSRF cookie should be set")

	return body.Token, cookie
}

func decodeJSON(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}
