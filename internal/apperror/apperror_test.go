package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("Page with %s not found", "9566c74d-1003-4c4d-bbbb-0407d1e2c649")
	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "Page with 9566c74d-1003-4c4d-bbbb-0407d1e2c649 not found", err.Message)
	assert.Nil(t, err.Unwrap())
}

func TestUnknownHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Unknown("Unknown error occurred", cause)

	assert.Equal(t, "Unknown error occurred", err.Message)
	// Error() keeps the cause for logs, Message does not.
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestInvalidInputSummarizesFields(t *testing.T) {
	err := InvalidInput([]FieldError{
		{Field: "input.site", Message: "not-a-url is not a valid URL"},
		{Field: "input.type", Message: "null should not be null"},
	})

	assert.Equal(t, KindInvalidInput, err.Kind)
	assert.Equal(t, "Input validation failed for fields: [input.site, input.type]", err.Message)
	require.Len(t, err.Fields, 2)
	assert.Equal(t, "input.site", err.Fields[0].Field)
}

func TestWrapPassesDomainErrorsThrough(t *testing.T) {
	orig := NotFound("Page with abc not found")
	assert.Same(t, orig, Wrap(orig))

	wrapped := Wrap(fmt.Errorf("outer: %w", orig))
	assert.Same(t, orig, wrapped)
}

func TestWrapDowngradesForeignErrors(t *testing.T) {
	cause := errors.New("render timeout")
	err := Wrap(cause)

	assert.Equal(t, KindUnknown, err.Kind)
	assert.Equal(t, "Unknown error occurred", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("repo: %w", NotFound("Page with x not found"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindUnknown))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}
