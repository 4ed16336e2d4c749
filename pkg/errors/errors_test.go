package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	appErr := FromError(cause)

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, ErrInternal.Message, appErr.Message)
	assert.ErrorIs(t, appErr, cause)
}

func TestCloneKeepsCodeForErrorsIs(t *testing.T) {
	cloned := Clone(ErrNotFound, "observation not found")

	assert.Equal(t, "observation not found", cloned.Message)
	assert.True(t, stderrors.Is(cloned, ErrNotFound))
	assert.False(t, stderrors.Is(cloned, ErrForbidden))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorPreservesTypedError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Clone(ErrForbidden, "not your observation"))
	appErr := FromError(wrapped)

	assert.Equal(t, http.StatusForbidden, appErr.Status)
	assert.Equal(t, "not your observation", appErr.Message)
}
