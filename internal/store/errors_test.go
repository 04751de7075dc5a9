package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailable(t *testing.T) {
	assert.NoError(t, Unavailable("find", nil))

	err := Unavailable("find settlements", context.DeadlineExceeded)
	assert.True(t, IsUnavailable(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "find settlements")

	wrapped := fmt.Errorf("search: %w", err)
	assert.True(t, IsUnavailable(wrapped))

	assert.False(t, IsUnavailable(errors.New("boom")))
}
