package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MF1DEV/vantora/internal/domain"
	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

const unknownIP = "unknown"

// handleTrackEvent accepts a view/click event and hands it to the detached
// dispatcher. The response does not wait for the insert; a full queue is the
// only client-visible failure.
func (s *Server) handleTrackEvent(c echo.Context) error {
	var input struct {
		UserID    uuid.UUID  `json:"user_id"`
		LinkID    *uuid.UUID `json:"link_id"`
		EventType string     `json:"event_type"`
	}
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if input.UserID == uuid.Nil {
		return apperrors.ValidationError("user_id is required")
	}

	eventType := domain.EventType(input.EventType)
	if !eventType.Valid() {
		return apperrors.ValidationError("event_type must be view or click").WithField("event_type", input.EventType)
	}

	accepted := s.app.TrackEvent(domain.AnalyticsEvent{
		ProfileID: input.UserID,
		LinkID:    input.LinkID,
		EventType: eventType,
		IP:        clientIP(c),
		UserAgent: c.Request().UserAgent(),
		Referrer:  c.Request().Referer(),
	})
	if !accepted {
		return apperrors.InternalError("failed to record event", nil)
	}

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// clientIP takes the first X-Forwarded-For entry, falling back to a sentinel.
func clientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return unknownIP
}
