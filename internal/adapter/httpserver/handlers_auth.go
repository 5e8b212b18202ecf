package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

func (s *Server) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var input app.RegisterInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	profile, err := s.app.Register(ctx, input)
	switch {
	case errors.Is(err, app.ErrInvalidUsername),
		errors.Is(err, app.ErrInvalidEmail),
		errors.Is(err, app.ErrPasswordTooWeak):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, domain.ErrDuplicateUsername):
		return apperrors.ConflictError("username already taken")
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperrors.ConflictError("email already registered")
	case err != nil:
		return apperrors.InternalError("failed to register profile", err)
	}

	if err := s.createSession(c, profile.ID); err != nil {
		return err
	}

	s.recordAudit(c, &profile.ID, domain.AuditRegister, map[string]any{"username": profile.Username})
	slog.InfoContext(ctx, "Profile registered", "profile_id", profile.ID, "username", profile.Username)

	if err := c.JSON(http.StatusOK, profileResponse(profile)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	profile, err := s.app.Authenticate(ctx, input.Email, input.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return apperrors.UnauthorizedError("invalid email or password")
	}
	if err != nil {
		return apperrors.InternalError("failed to authenticate", err)
	}

	if err := s.createSession(c, profile.ID); err != nil {
		return err
	}

	s.recordAudit(c, &profile.ID, domain.AuditLogin, nil)
	slog.InfoContext(ctx, "Profile logged in", "profile_id", profile.ID)

	if err := c.JSON(http.StatusOK, profileResponse(profile)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogout(c echo.Context) error {
	ctx := c.Request().Context()
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Error("Failed to get session during logout", "error", err)
		session, err = s.sessionStore.New(c.Request(), sessionName)
		if err != nil {
			return apperrors.InternalError("failed to create new session during logout", err)
		}
	}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save logout session", err)
	}

	s.recordAudit(c, &profileID, domain.AuditLogout, nil)
	slog.InfoContext(ctx, "Profile logged out", "profile_id", profileID)

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// createSession discards any pre-auth session and issues a fresh one, so a
// session ID fixated before login never survives authentication.
func (s *Server) createSession(c echo.Context, profileID uuid.UUID) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err == nil {
		session.Options.MaxAge = -1
		if err := session.Save(c.Request(), c.Response().Writer); err != nil {
			return apperrors.InternalError("failed to invalidate old session", err)
		}
	}

	session, err = s.sessionStore.New(c.Request(), sessionName)
	if err != nil {
		return apperrors.InternalError("failed to create new session", err)
	}

	session.Values[sessionKeyProfileID] = profileID.String()
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save session", err)
	}
	return nil
}

// recordAudit appends a security-event entry with requester metadata.
func (s *Server) recordAudit(c echo.Context, profileID *uuid.UUID, eventType string, payload map[string]any) {
	s.app.RecordAudit(domain.AuditEntry{
		ProfileID: profileID,
		EventType: eventType,
		Payload:   payload,
		IP:        clientIP(c),
		UserAgent: c.Request().UserAgent(),
	})
}
