package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quads.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Game.Players)
	assert.Equal(t, "out", cfg.Game.OutputDir)
	assert.Equal(t, "info", cfg.Game.LogLevel)

	turnDelay, err := cfg.GetTurnDelay()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, turnDelay)

	timeout, err := cfg.GetShutdownTimeout()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, timeout)

	require.NotNil(t, cfg.Simulation)
	assert.Equal(t, 100, cfg.Simulation.Games)
}

func TestLoadFullFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
game {
  players          = 6
  turn_delay       = "5ms"
  shutdown_timeout = "30s"
  output_dir       = "transcripts"
  log_level        = "debug"
}

simulation {
  games       = 500
  parallelism = 8
  seed        = 99
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 6, cfg.Game.Players)
	assert.Equal(t, "transcripts", cfg.Game.OutputDir)
	assert.Equal(t, "debug", cfg.Game.LogLevel)

	turnDelay, err := cfg.GetTurnDelay()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, turnDelay)

	assert.Equal(t, 500, cfg.Simulation.Games)
	assert.Equal(t, 8, cfg.Simulation.Parallelism)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
}

func TestLoadBackfillsPartialFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
game {
  players = 3
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Game.Players)
	assert.Equal(t, "100ms", cfg.Game.TurnDelay)
	assert.Equal(t, "out", cfg.Game.OutputDir)
	require.NotNil(t, cfg.Simulation)
	assert.Equal(t, 100, cfg.Simulation.Games)
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `game {`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "too few players",
			mutate:  func(c *Config) { c.Game.Players = 1 },
			wantErr: "players must be at least 2",
		},
		{
			name:    "garbage turn delay",
			mutate:  func(c *Config) { c.Game.TurnDelay = "fast" },
			wantErr: "invalid turn_delay",
		},
		{
			name:    "negative turn delay",
			mutate:  func(c *Config) { c.Game.TurnDelay = "-10ms" },
			wantErr: "turn_delay must not be negative",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Game.ShutdownTimeout = "0s" },
			wantErr: "shutdown_timeout must be positive",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Game.LogLevel = "loud" },
			wantErr: "invalid log_level",
		},
		{
			name:    "zero simulation games",
			mutate:  func(c *Config) { c.Simulation.Games = -1 },
			wantErr: "simulation games must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
