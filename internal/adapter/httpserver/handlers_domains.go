package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/domain"
	apperrors "github.com/MF1DEV/vantora/internal/platform/errors"
)

func (s *Server) handleAddDomain(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	var input struct {
		Domain string `json:"domain"`
	}
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	record, err := s.app.AddDomain(c.Request().Context(), profileID, input.Domain)
	switch {
	case errors.Is(err, app.ErrInvalidHostname):
		return apperrors.ValidationError("invalid hostname").WithField("hostname", input.Domain)
	// Duplicates answer 400, not 409: the client treats a taken hostname the
	// same as a malformed one.
	case errors.Is(err, domain.ErrDuplicateHostname):
		return apperrors.ValidationError("hostname already registered").WithField("hostname", input.Domain)
	case err != nil:
		return apperrors.InternalError("failed to register domain", err)
	}

	s.recordAudit(c, &profileID, domain.AuditDomainAdd, map[string]any{"hostname": record.Hostname})

	if err := c.JSON(http.StatusOK, map[string]any{"domain": record}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListDomains(c echo.Context) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return err
	}

	domains, err := s.app.ListDomains(c.Request().Context(), profileID)
	if err != nil {
		return apperrors.InternalError("failed to list domains", err)
	}

	if err := c.JSON(http.StatusOK, map[string]any{"domains": domains}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
