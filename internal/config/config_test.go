package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	// An explicit path that does not exist is an error; loading with
	// no path falls back to defaults.
	assert.Error(t, err)

	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5580, cfg.Server.HTTPPort)
	assert.Equal(t, "nats", cfg.Queue.Type)
	assert.Equal(t, "default_detector", cfg.Detect.Algorithm)
	assert.True(t, cfg.Detect.PublishEvents)
	assert.False(t, cfg.Watcher.Enabled)
	assert.Equal(t, 60, cfg.Watcher.WindowSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  http_port: 9999
queue:
  type: memory
detect:
  algorithm: zscore
watcher:
  enabled: true
  metrics:
    - cpu_usage
  window_size: 30
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.HTTPPort)
	assert.Equal(t, "memory", cfg.Queue.Type)
	assert.Equal(t, "zscore", cfg.Detect.Algorithm)
	assert.True(t, cfg.Watcher.Enabled)
	assert.Equal(t, []string{"cpu_usage"}, cfg.Watcher.Metrics)
	assert.Equal(t, 30, cfg.Watcher.WindowSize)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{HTTPPort: 8080}}
	assert.NoError(t, cfg.Validate())

	cfg.Server.HTTPPort = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.HTTPPort = 8080
	cfg.Auth.Enabled = true
	assert.Error(t, cfg.Validate(), "auth without keys must fail")

	cfg.Auth.APIKeys = []string{"0123456789abcdef0123456789abcdef"}
	assert.NoError(t, cfg.Validate())

	cfg.Watcher.Enabled = true
	assert.Error(t, cfg.Validate(), "watcher without metrics must fail")

	cfg.Watcher.Metrics = []string{"cpu_usage"}
	assert.NoError(t, cfg.Validate())
}
