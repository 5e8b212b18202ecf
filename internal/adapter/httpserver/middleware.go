package httpserver

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MF1DEV/vantora/internal/platform/correlation"
	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// requireAuth resolves the session to a profile and stores its ID under
// "profileID". JSON clients get a 401, never a redirect.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessionStore.Get(c.Request(), sessionName)
		if err != nil {
			return apperrors.UnauthorizedError("authentication required")
		}

		profileIDStr, ok := session.Values[sessionKeyProfileID].(string)
		if !ok {
			return apperrors.UnauthorizedError("authentication required")
		}

		profileID, err := uuid.Parse(profileIDStr)
		if err != nil {
			return apperrors.UnauthorizedError("authentication required")
		}

		// Sessions may outlive their profile (wiped DB, deleted account).
		if _, err := s.app.GetProfileByID(c.Request().Context(), profileID); err != nil {
			session.Options.MaxAge = -1
			_ = session.Save(c.Request(), c.Response().Writer)
			return apperrors.UnauthorizedError("authentication required")
		}

		c.Set("profileID", profileID)
		return next(c)
	}
}

// currentProfileID returns the authenticated profile ID set by requireAuth.
func currentProfileID(c echo.Context) (uuid.UUID, error) {
	profileID, ok := c.Get("profileID").(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.UnauthorizedError("authentication required")
	}
	return profileID, nil
}

var staticAssetSuffixes = []string{
	".css", ".js", ".woff", ".woff2", ".png", ".jpg", ".jpeg", ".svg", ".ico", ".webp",
}

func isStaticAsset(path string) bool {
	if strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/assets/") {
		return true
	}
	for _, suffix := range staticAssetSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// staticCacheMiddleware marks fingerprinted static assets as immutable.
func staticCacheMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if isStaticAsset(c.Request().URL.Path) {
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		return next(c)
	}
}
