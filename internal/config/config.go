// Package config loads game and simulation settings from HCL files.
//
// A config file is optional everywhere it is accepted: a missing file
// means defaults, a present file overrides field by field, and flags on
// the command line override both.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete configuration file.
type Config struct {
	Game       GameSettings        `hcl:"game,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// GameSettings configures a single game run.
type GameSettings struct {
	Players         int    `hcl:"players,optional"`
	TurnDelay       string `hcl:"turn_delay,optional"`
	ShutdownTimeout string `hcl:"shutdown_timeout,optional"`
	OutputDir       string `hcl:"output_dir,optional"`
	LogLevel        string `hcl:"log_level,optional"`
}

// SimulationSettings configures batch simulation runs.
type SimulationSettings struct {
	Games       int   `hcl:"games,optional"`
	Parallelism int   `hcl:"parallelism,optional"`
	Seed        int64 `hcl:"seed,optional"`
}

// DefaultConfig returns the configuration used when no file is present:
// the classic four player game with 100ms pacing and a one minute
// shutdown bound.
func DefaultConfig() *Config {
	return &Config{
		Game: GameSettings{
			Players:         4,
			TurnDelay:       "100ms",
			ShutdownTimeout: "1m",
			OutputDir:       "out",
			LogLevel:        "info",
		},
		Simulation: &SimulationSettings{
			Games:       100,
			Parallelism: 0,
			Seed:        1,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields
// DefaultConfig; a present file is decoded and backfilled with defaults
// for anything it leaves out.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Game.Players == 0 {
		config.Game.Players = defaults.Game.Players
	}
	if config.Game.TurnDelay == "" {
		config.Game.TurnDelay = defaults.Game.TurnDelay
	}
	if config.Game.ShutdownTimeout == "" {
		config.Game.ShutdownTimeout = defaults.Game.ShutdownTimeout
	}
	if config.Game.OutputDir == "" {
		config.Game.OutputDir = defaults.Game.OutputDir
	}
	if config.Game.LogLevel == "" {
		config.Game.LogLevel = defaults.Game.LogLevel
	}

	if config.Simulation == nil {
		config.Simulation = defaults.Simulation
	} else {
		if config.Simulation.Games == 0 {
			config.Simulation.Games = defaults.Simulation.Games
		}
		if config.Simulation.Seed == 0 {
			config.Simulation.Seed = defaults.Simulation.Seed
		}
	}

	return &config, nil
}

// GetTurnDelay returns the parsed inter-round delay.
func (c *Config) GetTurnDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Game.TurnDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid turn_delay %q: %w", c.Game.TurnDelay, err)
	}
	return d, nil
}

// GetShutdownTimeout returns the parsed shutdown bound.
func (c *Config) GetShutdownTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Game.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdown_timeout %q: %w", c.Game.ShutdownTimeout, err)
	}
	return d, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Game.Players < 2 {
		return fmt.Errorf("players must be at least 2, got %d", c.Game.Players)
	}
	if d, err := c.GetTurnDelay(); err != nil {
		return err
	} else if d < 0 {
		return fmt.Errorf("turn_delay must not be negative, got %s", d)
	}
	if d, err := c.GetShutdownTimeout(); err != nil {
		return err
	} else if d <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", d)
	}
	switch c.Game.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.Game.LogLevel)
	}

	if c.Simulation != nil {
		if c.Simulation.Games < 1 {
			return fmt.Errorf("simulation games must be at least 1, got %d", c.Simulation.Games)
		}
		if c.Simulation.Parallelism < 0 {
			return fmt.Errorf("simulation parallelism must not be negative, got %d", c.Simulation.Parallelism)
		}
	}
	return nil
}
