package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrIncompleteImplementation,
		ErrWrongDataFormat,
		ErrInvalidProtocol,
		ErrInvalidDevice,
		ErrDeviceAccess,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not be %v", a, b)
		}
	}
}

func TestSentinels_WrapAndUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("reader: fetchNext: %w", ErrInvalidProtocol)

	assert.True(t, errors.Is(wrapped, ErrInvalidProtocol))
	assert.False(t, errors.Is(wrapped, ErrWrongDataFormat))
}
