package httpserver

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(apperrors.Middleware())
	if s.httpMetrics != nil {
		s.echo.Use(s.httpMetrics.Middleware())
	}
	s.echo.Use(staticCacheMiddleware)
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		// Page routes only; API responses and static assets carry no CSP.
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/api/") || isStaticAsset(path)
		},
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         63072000, // 2 years; only sent over HTTPS
		HSTSPreloadEnabled: true,
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline'; " +
			"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
			"font-src 'self' https://fonts.gstatic.com; " +
			"img-src 'self' data: https:; " +
			"frame-ancestors 'none'",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}))

	csrf := s.verifyCSRFMiddleware()
	authLimiter := newRateLimiter(s.config.AuthRatePerSecond, s.config.AuthRateBurst)

	s.registerHealthRoutes()

	api := s.echo.Group("/api")

	api.GET("/csrf", s.handleIssueCSRFToken)

	api.POST("/auth/register", s.handleRegister, authLimiter, csrf)
	api.POST("/auth/login", s.handleLogin, authLimiter, csrf)
	api.POST("/auth/logout", s.handleLogout, s.requireAuth, csrf)

	api.GET("/profile", s.handleGetProfile, s.requireAuth)
	api.PUT("/profile", s.handleUpdateProfile, s.requireAuth, csrf)
	api.GET("/profiles/:username", s.handlePublicProfile)

	api.GET("/links", s.handleListLinks, s.requireAuth)
	api.POST("/links", s.handleCreateLink, s.requireAuth, csrf)
	api.PUT("/links/reorder", s.handleReorderLinks, s.requireAuth, csrf)
	api.PUT("/links/:id", s.handleUpdateLink, s.requireAuth, csrf)
	api.DELETE("/links/:id", s.handleDeleteLink, s.requireAuth, csrf)
	api.POST("/links/hash-password", s.handleHashPassword, s.requireAuth, csrf)
	api.POST("/links/verify-password", s.handleVerifyPassword)

	api.POST("/domains/add", s.handleAddDomain, s.requireAuth, csrf)
	api.GET("/domains", s.handleListDomains, s.requireAuth)

	api.POST("/analytics/track", s.handleTrackEvent)
	api.GET("/stats", s.handleStats)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}
