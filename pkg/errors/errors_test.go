package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedAppError(t *testing.T) {
	err := fmt.Errorf("loading chat: %w", NotFound("Chat", nil))

	assert.True(t, Is(err, "NOT_FOUND"))
	assert.True(t, IsNotFound(err))
	assert.False(t, Is(err, "CONFLICT"))
	assert.False(t, Is(stderrors.New("plain"), "NOT_FOUND"))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := stderrors.New("deadline exceeded")
	err := Internal("Failed to read chat", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "deadline exceeded")
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestValidationAndRateLimitStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("Message text is required").Status)

	err := TooManyRequests("Slow down", 2400*time.Millisecond)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Contains(t, err.Message, "2s")
}
