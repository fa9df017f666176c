package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetStringSlice(t *testing.T) {
	t.Run("returns empty slice with requested capacity", func(t *testing.T) {
		slice, cleanup := GetStringSlice(100)
		defer cleanup()

		require.Equal(t, 0, len(slice))
		require.GreaterOrEqual(t, cap(slice), 100)
	})

	t.Run("reuses pooled backing array when capacity sufficient", func(t *testing.T) {
		slice1, cleanup1 := GetStringSlice(50)
		slice1 = append(slice1, "x")
		ptr1 := &slice1[0]
		cleanup1()

		slice2, cleanup2 := GetStringSlice(50)
		defer cleanup2()
		slice2 = append(slice2, "y")
		ptr2 := &slice2[0]

		require.Equal(t, ptr1, ptr2, "should reuse same underlying array")
	})

	t.Run("allocates new slice when capacity insufficient", func(t *testing.T) {
		_, cleanup1 := GetStringSlice(2)
		cleanup1()

		slice2, cleanup2 := GetStringSlice(1000)
		defer cleanup2()

		require.Equal(t, 0, len(slice2))
		require.GreaterOrEqual(t, cap(slice2), 1000)
	})

	t.Run("cleanup returns slice to pool without panicking", func(t *testing.T) {
		slice, cleanup := GetStringSlice(100)
		require.NotNil(t, slice)

		require.NotPanics(t, cleanup)
	})
}

func TestSlicePoolConcurrency(t *testing.T) {
	const goroutines = 100
	done := make(chan bool, goroutines)

	for range goroutines {
		go func() {
			slice, cleanup := GetStringSlice(50)
			defer cleanup()

			slice = append(slice, "test")
			_ = slice[0]

			done <- true
		}()
	}

	for range goroutines {
		<-done
	}
}
