package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.WebSocket.Address)
	assert.Equal(t, 90*time.Second, cfg.Server.LeasePeriod)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  websocket:
    address: ":9000"
  lease_period: 2m
logging:
  level: debug
  format: console
game:
  starting_cash: 30000
  tax_rate: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.WebSocket.Address)
	assert.Equal(t, 2*time.Minute, cfg.Server.LeasePeriod)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30000, cfg.Game.StartingCash)
	assert.InDelta(t, 0.2, cfg.Game.TaxRate, 1e-9)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Server.WebSocket.Address = "" }},
		{"zero lease", func(c *Config) { c.Server.LeasePeriod = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"tax over 1", func(c *Config) { c.Game.TaxRate = 1.5 }},
		{"min over max", func(c *Config) { c.Game.MinPlayers = 5; c.Game.MaxPlayers = 2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
