package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

// handleStats serves the cached aggregate counters. The Cache-Control window
// matches the server-side cache TTL so client and server staleness agree.
func (s *Server) handleStats(c echo.Context) error {
	snapshot, err := s.app.Stats(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to collect statistics", err)
	}

	maxAge := int(s.app.StatsTTL().Seconds())
	c.Response().Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))

	if err := c.JSON(http.StatusOK, snapshot); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
