//go:build !assertions_disabled

package assert_test

import (
	"errors"
	"testing"

	"github.com/amp-labs/ringlet/assert"
	"github.com/stretchr/testify/require"
)

var errBroken = errors.New("graph is broken")

func TestTrue(t *testing.T) {
	t.Parallel()

	t.Run("does not panic when value is true", func(t *testing.T) {
		t.Parallel()

		require.NotPanics(t, func() {
			assert.True(true)
		})
	})

	t.Run("panics with default message", func(t *testing.T) {
		t.Parallel()

		require.PanicsWithValue(t, "assertion failed", func() {
			assert.True(false)
		})
	})

	t.Run("panics with formatted message", func(t *testing.T) {
		t.Parallel()

		require.PanicsWithValue(t, "state Check: transition 0 dangles", func() {
			assert.True(false, "state %s: transition %d dangles", "Check", 0)
		})
	})

	t.Run("panics with args when first arg is not string", func(t *testing.T) {
		t.Parallel()

		require.PanicsWithValue(t, "assertion failed: [42 test]", func() {
			assert.True(false, 42, "test")
		})
	})
}

func TestFalseAndNotNil(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() { assert.False(false) })
	require.PanicsWithValue(t, "expected false", func() { assert.False(true, "expected false") })

	require.NotPanics(t, func() { assert.NotNil(1) })
	require.PanicsWithValue(t, "value must not be nil", func() { assert.NotNil(nil, "value must not be nil") })
}

func TestCheck(t *testing.T) {
	t.Parallel()

	require.True(t, assert.Enabled)

	require.NotPanics(t, func() {
		assert.Check(func() error { return nil })
	})

	require.PanicsWithValue(t, "graph is broken", func() {
		assert.Check(func() error { return errBroken })
	})
}
