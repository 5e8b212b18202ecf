package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

// profileView is the owner-facing profile shape. Password hashes never leave
// the service.
type profileView struct {
	ID          uuid.UUID         `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name"`
	Bio         string            `json:"bio"`
	AvatarURL   string            `json:"avatar_url"`
	SocialLinks map[string]string `json:"social_links"`
	Theme       domain.Theme      `json:"theme"`
}

func profileResponse(p *domain.Profile) profileView {
	return profileView{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		SocialLinks: p.SocialLinks,
		Theme:       p.Theme,
	}
}

func (s *Server) handleGetProfile(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	profile, err := s.app.GetProfileByID(c.Request().Context(), profileID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return apperrors.NotFoundError("profile not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to load profile", err)
	}

	if err := c.JSON(http.StatusOK, profileResponse(profile)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	var input app.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	profile, err := s.app.UpdateProfile(c.Request().Context(), profileID, input)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return apperrors.NotFoundError("profile not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to update profile", err)
	}

	s.recordAudit(c, &profileID, domain.AuditProfileUpdate, nil)

	if err := c.JSON(http.StatusOK, profileResponse(profile)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handlePublicProfile(c echo.Context) error {
	username := c.Param("username")

	profile, err := s.app.PublicProfileByUsername(c.Request().Context(), username)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return apperrors.NotFoundError("profile not found").WithField("username", username)
	}
	if err != nil {
		return apperrors.InternalError("failed to load public profile", err)
	}

	if err := c.JSON(http.StatusOK, profile); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
