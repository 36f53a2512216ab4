package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughWrapped(t *testing.T) {
	base := NewForbidden("Admin access required")
	wrapped := fmt.Errorf("handler: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Equal(t, CodeForbidden, de.Code)
	assert.Equal(t, fiber.Map{"message": "Admin access required", "code": CodeForbidden}, de.Body())
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusTooManyRequests, "slow down"))
	assert.Equal(t, CodeRateLimited, de.Code)
	assert.Equal(t, "slow down", de.Message)
	assert.Equal(t, http.StatusTooManyRequests, de.HTTPStatus)
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	de := ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
	assert.Nil(t, ToDomainError(nil))
}

func TestNotFoundIncludesDetails(t *testing.T) {
	de := ToDomainError(NewNotFound("project", map[string]any{"id": 7}))
	assert.Equal(t, "project not found", de.Message)
	assert.Equal(t, map[string]any{"id": 7}, de.Body()["details"])
}
