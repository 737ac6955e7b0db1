package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("NewDomainError", func(t *testing.T) {
		err := NewDomainError(ErrCodeNotFound, "timezone not found")

		assert.NotNil(t, err)
		assert.Equal(t, ErrCodeNotFound, err.Code)
		assert.Equal(t, "[NOT_FOUND] timezone not found", err.Error())
		assert.NotNil(t, err.Details)
		assert.Nil(t, err.Err)
	})

	t.Run("NewDomainErrorWithCause", func(t *testing.T) {
		cause := errors.New("database is locked")
		err := NewDomainErrorWithCause(ErrCodeRepository, "failed to read preferences", cause)

		assert.Equal(t, "[REPOSITORY_ERROR] failed to read preferences: database is locked", err.Error())
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("WithDetails", func(t *testing.T) {
		err := NewDomainError(ErrCodeInvalidInput, "invalid page").
			WithDetails("field", "page").
			WithDetails("value", -1)

		assert.Equal(t, "page", err.Details["field"])
		assert.Equal(t, -1, err.Details["value"])
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		code     ErrorCode
		contains string
	}{
		{"not found", ErrNotFound("timezone", "Mars/Olympus"), ErrCodeNotFound, "timezone not found"},
		{"invalid input", ErrInvalidInput("page", "must not be negative"), ErrCodeInvalidInput, "invalid page"},
		{"repository", ErrRepository("Get", errors.New("boom")), ErrCodeRepository, "repository error in Get"},
		{"timezone", ErrTimezone("Load", "empty identifier"), ErrCodeTimezone, "timezone error in Load"},
		{"timezone parse", ErrTimezoneParse("Bad/Zone", errors.New("unknown")), ErrCodeTimezone, "Bad/Zone"},
		{"timezone detection", ErrTimezoneDetection("UTC"), ErrCodeTimezone, "fallback"},
		{"locale parse", ErrLocaleParse("!!", errors.New("ill-formed")), ErrCodeLocale, "failed to parse locale"},
		{"locale unsupported", ErrLocaleUnsupported("sw-KE"), ErrCodeLocale, "unsupported locale: sw-KE"},
		{"preference", ErrPreference("Set", errors.New("readonly")), ErrCodePreference, "preference error in Set"},
		{"file", ErrFileOperationWithCause("Save", "/tmp/x", errors.New("denied")), ErrCodeFileOperation, "Save"},
		{"permission", ErrFilePermission("/tmp/x", "0600"), ErrCodeFileOperation, "insufficient permissions"},
		{"platform", ErrUnsupportedPlatform("tray", "linux"), ErrCodeUnsupportedPlatform, "tray is not available on linux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestErrorCodeHelpers(t *testing.T) {
	err := ErrNotFound("timezone", "Mars/Olympus")
	wrapped := fmt.Errorf("show: %w", err)

	assert.True(t, IsErrorCode(err, ErrCodeNotFound))
	assert.True(t, IsErrorCode(wrapped, ErrCodeNotFound))
	assert.False(t, IsErrorCode(wrapped, ErrCodeTimezone))
	assert.Equal(t, ErrCodeNotFound, GetErrorCode(wrapped))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	assert.False(t, IsErrorCode(nil, ErrCodeNotFound))
}
