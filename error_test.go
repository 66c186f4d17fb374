package unfurl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dashkite/unfurl"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := unfurl.Errorf(unfurl.ELIMIT, "content size exceeds %d bytes", 1024)

	assert.Equal(t, unfurl.ELIMIT, unfurl.ErrorCode(err))
	assert.Equal(t, "content size exceeds 1024 bytes", unfurl.ErrorMessage(err))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("unfurl https://example.com: %w", unfurl.Errorf(unfurl.ENOTHTML, "not html"))

	assert.Equal(t, unfurl.ENOTHTML, unfurl.ErrorCode(err))
	assert.Equal(t, "not html", unfurl.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, unfurl.EINTERNAL, unfurl.ErrorCode(err))
	assert.Equal(t, "Internal error.", unfurl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, unfurl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, unfurl.ErrorMessage(nil))
}
