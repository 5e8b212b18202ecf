package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

// linkView is the owner-facing link shape. The stored hash stays server-side;
// only the protection flag is exposed.
type linkView struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Position     int        `json:"position"`
	IsActive     bool       `json:"is_active"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
	IsProtected  bool       `json:"is_protected"`
	ButtonStyle  string     `json:"button_style,omitempty"`
	ButtonColor  string     `json:"button_color,omitempty"`
	BorderRadius string     `json:"border_radius,omitempty"`
	Animation    string     `json:"animation,omitempty"`
	ClickCount   int64      `json:"click_count"`
}

func linkResponse(l *domain.Link) linkView {
	return linkView{
		ID:           l.ID,
		Title:        l.Title,
		URL:          l.URL,
		Position:     l.Position,
		IsActive:     l.IsActive,
		StartsAt:     l.StartsAt,
		EndsAt:       l.EndsAt,
		IsProtected:  l.IsProtected,
		ButtonStyle:  l.ButtonStyle,
		ButtonColor:  l.ButtonColor,
		BorderRadius: l.BorderRadius,
		Animation:    l.Animation,
		ClickCount:   l.ClickCount,
	}
}

func (s *Server) handleListLinks(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	links, err := s.app.ListLinks(c.Request().Context(), profileID)
	if err != nil {
		return apperrors.InternalError("failed to list links", err)
	}

	views := make([]linkView, 0, len(links))
	for i := range links {
		views = append(views, linkResponse(&links[i]))
	}

	if err := c.JSON(http.StatusOK, map[string]any{"links": views}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateLink(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	var input app.LinkInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	link, err := s.app.CreateLink(c.Request().Context(), profileID, input)
	if err != nil {
		return linkError(err, "failed to create link")
	}

	s.recordAudit(c, &profileID, domain.AuditLinkCreate, map[string]any{"link_id": link.ID})

	if err := c.JSON(http.StatusOK, map[string]any{"link": linkResponse(link)}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateLink(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid link ID").WithField("id", c.Param("id"))
	}

	var input app.LinkInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	link, err := s.app.UpdateLink(c.Request().Context(), profileID, linkID, input)
	if err != nil {
		return linkError(err, "failed to update link")
	}

	if err := c.JSON(http.StatusOK, map[string]any{"link": linkResponse(link)}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteLink(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid link ID").WithField("id", c.Param("id"))
	}

	if err := s.app.DeleteLink(c.Request().Context(), profileID, linkID); err != nil {
		return linkError(err, "failed to delete link")
	}

	s.recordAudit(c, &profileID, domain.AuditLinkDelete, map[string]any{"link_id": linkID})

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleReorderLinks(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	var input struct {
		LinkIDs []uuid.UUID `json:"link_ids"`
	}
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := s.app.ReorderLinks(c.Request().Context(), profileID, input.LinkIDs); err != nil {
		return linkError(err, "failed to reorder links")
	}

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleHashPassword(c echo.Context) error {
	var input struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	hash, err := s.app.HashLinkPassword(input.Password)
	if errors.Is(err, app.ErrMissingPassword) {
		return apperrors.ValidationError("password is required")
	}
	if err != nil {
		return apperrors.InternalError("failed to hash password", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"hash": hash}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleVerifyPassword(c echo.Context) error {
	var input struct {
		LinkID   uuid.UUID `json:"link_id"`
		Password string    `json:"password"`
	}
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	err := s.app.VerifyLinkPassword(c.Request().Context(), input.LinkID, input.Password)
	switch {
	case errors.Is(err, domain.ErrLinkNotFound):
		return apperrors.NotFoundError("link not found").WithField("link_id", input.LinkID.String())
	case errors.Is(err, domain.ErrLinkNotProtected):
		return apperrors.ValidationError("link is not password protected")
	case errors.Is(err, domain.ErrWrongPassword):
		return apperrors.UnauthorizedError("wrong password")
	case err != nil:
		return apperrors.InternalError("failed to verify password", err)
	}

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true, "verified": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// linkError maps service-layer link errors to structured HTTP errors.
func linkError(err error, message string) error {
	switch {
	case errors.Is(err, domain.ErrLinkNotFound):
		return apperrors.NotFoundError("link not found")
	case errors.Is(err, app.ErrInvalidURL),
		errors.Is(err, app.ErrMissingTitle),
		errors.Is(err, app.ErrInvalidSchedule),
		errors.Is(err, app.ErrEmptyReorder),
		errors.Is(err, app.ErrMissingPassword):
		return apperrors.ValidationError(err.Error())
	default:
		return apperrors.InternalError(message, err)
	}
}
