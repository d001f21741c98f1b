package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
jwt:
  secret: test-secret
prices:
  api_key: demo-key
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "demo-key", cfg.Prices.APIKey)

	// Defaults fill everything the file leaves out.
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, 60, cfg.Prices.IntervalMinutes)
	assert.Equal(t, 256, cfg.Audit.QueueSize)
	assert.True(t, cfg.Prices.Enabled)

	assert.Same(t, cfg, Get())
}
