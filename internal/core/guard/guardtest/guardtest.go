// Package guardtest holds test helpers for code built on the guard.
package guardtest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/core/apperror"
	"hermes/internal/core/guard"
)

// RequireConfigurationPanic fails the test unless fn panics with the
// configuration error the guard raises for a missing sink.
func RequireConfigurationPanic(t testing.TB, fn func()) {
	t.Helper()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()

	require.NotNil(t, recovered, "expected a configuration panic")
	err, ok := recovered.(error)
	require.True(t, ok, "panic value is %T, want error", recovered)
	assert.True(t, apperror.IsConfiguration(err), "got %v", err)
	assert.True(t, errors.Is(err, guard.ErrSinkNotAttached), "got %v", err)
}
