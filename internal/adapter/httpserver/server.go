package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/MF1DEV/vantora/internal/adapter/metrics"
	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
	"github.com/MF1DEV/vantora/internal/platform/config"
)

type appService interface {
	Register(ctx context.Context, input app.RegisterInput) (*domain.Profile, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Profile, error)

	GetProfileByID(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profileID uuid.UUID, input app.UpdateProfileInput) (*domain.Profile, error)
	PublicProfileByUsername(ctx context.Context, username string) (*app.PublicProfile, error)

	CreateLink(ctx context.Context, profileID uuid.UUID, input app.LinkInput) (*domain.Link, error)
	UpdateLink(ctx context.Context, profileID, linkID uuid.UUID, input app.LinkInput) (*domain.Link, error)
	DeleteLink(ctx context.Context, profileID, linkID uuid.UUID) error
	ListLinks(ctx context.Context, profileID uuid.UUID) ([]domain.Link, error)
	ReorderLinks(ctx context.Context, profileID uuid.UUID, linkIDs []uuid.UUID) error

	HashLinkPassword(password string) (string, error)
	VerifyLinkPassword(ctx context.Context, linkID uuid.UUID, password string) error

	AddDomain(ctx context.Context, profileID uuid.UUID, hostname string) (*domain.CustomDomain, error)
	ListDomains(ctx context.Context, profileID uuid.UUID) ([]domain.CustomDomain, error)

	TrackEvent(event domain.AnalyticsEvent) bool
	Stats(ctx context.Context) (*domain.StatsSnapshot, error)
	StatsTTL() time.Duration

	RecordAudit(entry domain.AuditEntry)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	sessionStore   *sessions.CookieStore
	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler
	healthChecks   []HealthCheck
	startTime      time.Time
}

func NewServer(cfg *config.Config, service appService, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		app:            service,
		sessionStore:   setupSessionStore(cfg),
		httpMetrics:    httpMetrics,
		metricsHandler: metricsHandler,
		healthChecks:   healthChecks,
		startTime:      time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Session keys
const (
	sessionName         = "vantora-session"
	sessionKeyProfileID = "profile_id"
)

func setupSessionStore(cfg *config.Config) *sessions.CookieStore {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return sessionStore
}
