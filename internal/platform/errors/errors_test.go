package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{"validation", ValidationError("bad input"), http.StatusBadRequest},
		{"unauthorized", UnauthorizedError("wrong password"), http.StatusUnauthorized},
		{"not found", NotFoundError("missing"), http.StatusNotFound},
		{"conflict", ConflictError("duplicate"), http.StatusConflict},
		{"internal", InternalError("boom", errors.New("cause")), http.StatusInternalServerError},
		{"external", ExternalError("upstream down", errors.New("cause")), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := InternalError("wrapper", cause)

	assert.ErrorIs(t, err, cause)
}

func TestError_Message(t *testing.T) {
	err := InternalError("db insert failed", errors.New("connection reset"))
	assert.Equal(t, "internal: db insert failed: connection reset", err.Error())

	err = ValidationError("missing password")
	assert.Equal(t, "validation: missing password", err.Error())
}

func TestToResponse_HidesCause(t *testing.T) {
	err := InternalError("something failed", errors.New("secret details")).
		WithField("profile_id", "p1")

	resp := err.ToResponse()
	assert.Equal(t, "something failed", resp.Error)
	assert.Equal(t, TypeInternal, resp.Type)
}

func TestAsStructuredError_Passthrough(t *testing.T) {
	original := NotFoundError("link not found")

	got := AsStructuredError(original)
	assert.Same(t, original, got)
}

func TestAsStructuredError_WrapsPlainError(t *testing.T) {
	got := AsStructuredError(errors.New("raw"))

	require.NotNil(t, got)
	assert.Equal(t, TypeInternal, got.Type)
	assert.Equal(t, "internal server error", got.Message)
}

func TestAsStructuredError_Nil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}

func TestWithField_Chainable(t *testing.T) {
	err := ValidationError("invalid hostname").
		WithField("hostname", "bad_host").
		WithField("profile_id", "p1")

	assert.Equal(t, "bad_host", err.Context["hostname"])
	assert.Equal(t, "p1", err.Context["profile_id"])
}
