package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigClientLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imenik.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  log_level: info\n"), 0600))

	cfg, err := loadConfig(&RootOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Client.LogLevel, "configured level is used without the flag")

	cfg, err = loadConfig(&RootOptions{ConfigPath: path, LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Client.LogLevel)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoadConfigRejectsBadLogLevel(t *testing.T) {
	_, err := loadConfig(&RootOptions{LogLevel: "loud"})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
