package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequirePanicsWithError fails the test unless fn panics with an error
// matching target under errors.Is.
func RequirePanicsWithError(t *testing.T, target error, fn func()) {
	t.Helper()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()

	require.NotNil(t, recovered, "expected a panic wrapping %v", target)
	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v is not an error", recovered)
	require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
}
