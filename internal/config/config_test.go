package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.Positive(t, cfg.Workers)
	assert.Positive(t, cfg.UnitCacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(cfg.DataDir, "resources.db"), cfg.ResourcePath())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rtagsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataDir: /var/lib/rtags
workers: 3
logLevel: debug
watchDirs:
  - /src/project
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/rtags", cfg.DataDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"/src/project"}, cfg.WatchDirs)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtagsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
