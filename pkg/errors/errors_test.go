package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestCloneKeepsCodeAndMatchesTemplate(t *testing.T) {
	cloned := Clone(ErrSeatTaken, "seat 0-3 is taken")
	assert.Equal(t, "seat 0-3 is taken", cloned.Message)
	assert.True(t, errors.Is(cloned, ErrSeatTaken))
	assert.False(t, errors.Is(cloned, ErrAlreadyRegistered))

	wrapped := fmt.Errorf("register: %w", cloned)
	assert.True(t, errors.Is(wrapped, ErrSeatTaken))
	assert.Equal(t, http.StatusConflict, FromError(wrapped).Status)
}

func TestWithDetailsDoesNotMutateTemplate(t *testing.T) {
	err := WithDetails(ErrOutOfWindow, "", map[string]string{"window_open": "08:50"})
	assert.Equal(t, "08:50", err.Details["window_open"])
	assert.Nil(t, ErrOutOfWindow.Details)
}
