package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorHidesUntypedCause(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom at line 42"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, ErrInternal.Message, appErr.Message)
	assert.NotNil(t, appErr.Err)
}

func TestFromErrorKeepsTypedError(t *testing.T) {
	wrapped := fmt.Errorf("convert: %w", Clone(ErrValidation, "invalid date"))
	appErr := FromError(wrapped)
	assert.Equal(t, ErrValidation.Code, appErr.Code)
	assert.Equal(t, "invalid date", appErr.Message)
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(errors.New("dial tcp: timeout"), ErrRemoteUnavailable.Code, ErrRemoteUnavailable.Status, "fetch failed")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, fmt.Errorf("outer: %w", Clone(ErrCacheMiss, "")), ErrCacheMiss)
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrTermLookup, "custom")
	assert.Equal(t, "custom", clone.Message)
	assert.Equal(t, "mirrored solar term not found", ErrTermLookup.Message)
	assert.Nil(t, Clone(nil, "x"))
}
