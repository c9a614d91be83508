package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExecutableConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	assert.Equal(t, path, ResolveExecutable(path))
}

func TestResolveExecutableMissingConfiguredPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	// Falls through to system detection; either a real system chrome or the
	// managed-browser sentinel, never the bad path.
	resolved := ResolveExecutable(missing)
	assert.NotEqual(t, missing, resolved)
}

func TestResolveExecutableEmpty(t *testing.T) {
	resolved := ResolveExecutable("")
	if resolved != "" {
		info, err := os.Stat(resolved)
		require.NoError(t, err, "a non-empty resolution must point at a real file")
		assert.False(t, info.IsDir())
	}
}
