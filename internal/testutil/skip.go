// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"testing"
)

// SkipGitTransportTests skips the test unless RUN_GIT_TESTS is set.
// Use this for tests that clone through a git transport rather than
// only touching repositories on disk.
//
// Run them with: RUN_GIT_TESTS=1 go test ./...
func SkipGitTransportTests(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_GIT_TESTS") == "" {
		t.Skip("Skipping git transport test (set RUN_GIT_TESTS=1 to run)")
	}
}
