package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lox/quads/cmd/quads/shared"
	"github.com/lox/quads/internal/config"
	"github.com/lox/quads/internal/game"
	"github.com/lox/quads/internal/gameid"
	"github.com/lox/quads/internal/pack"
	"github.com/lox/quads/internal/randutil"
	"github.com/lox/quads/internal/transcript"
)

// PlayCmd runs a single game and writes player and deck transcripts.
type PlayCmd struct {
	Config   string         `short:"c" default:"quads.hcl" help:"Path to HCL configuration file"`
	Pack     string         `short:"p" help:"Path to a pack file (generated when omitted)"`
	Players  int            `short:"n" help:"Number of players (overrides config)"`
	Seed     *int64         `help:"RNG seed for a generated pack (optional)"`
	Output   string         `short:"o" help:"Transcript output directory (overrides config)"`
	Delay    *time.Duration `help:"Pause between rounds (overrides config)"`
	Timeout  *time.Duration `help:"Shutdown timeout (overrides config)"`
	LogLevel string         `short:"l" help:"Log level (overrides config)"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	// Apply command line overrides
	if c.Players > 0 {
		cfg.Game.Players = c.Players
	}
	if c.Output != "" {
		cfg.Game.OutputDir = c.Output
	}
	if c.LogLevel != "" {
		cfg.Game.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := shared.SetupLogger(cfg.Game.LogLevel)

	turnDelay, err := cfg.GetTurnDelay()
	if err != nil {
		return err
	}
	if c.Delay != nil {
		turnDelay = *c.Delay
	}
	shutdownTimeout, err := cfg.GetShutdownTimeout()
	if err != nil {
		return err
	}
	if c.Timeout != nil {
		shutdownTimeout = *c.Timeout
	}

	var cards []game.Card
	if c.Pack != "" {
		cards, err = pack.Load(c.Pack, cfg.Game.Players)
		if err != nil {
			return err
		}
		logger.Info("loaded pack", "path", c.Pack, "cards", len(cards))
	} else {
		seed := time.Now().UnixNano()
		if c.Seed != nil {
			seed = *c.Seed
		}
		cards = pack.Generate(cfg.Game.Players, randutil.New(seed))
		logger.Info("generated pack", "players", cfg.Game.Players, "seed", seed)
	}

	id, err := gameid.New()
	if err != nil {
		return err
	}

	writer, err := transcript.NewWriter(cfg.Game.OutputDir, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close transcripts", "error", err)
		}
	}()

	bus := game.NewEventBus()
	bus.Subscribe(writer)

	g, err := game.New(cards, game.Config{
		Players:         cfg.Game.Players,
		TurnDelay:       turnDelay,
		ShutdownTimeout: shutdownTimeout,
		Logger:          logger.With("game", id),
		Events:          bus,
	})
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)

	start := time.Now()
	runErr := g.Run(ctx)
	duration := time.Since(start)

	if runErr != nil && !errors.Is(runErr, game.ErrShutdownTimeout) && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	switch {
	case g.Winner() != nil:
		fmt.Println(winnerStyle.Render(fmt.Sprintf("Player %d wins", g.Winner().ID())) +
			fmt.Sprintf(" in %d rounds (%v)", g.Rounds(), duration.Truncate(time.Millisecond)))
	case errors.Is(runErr, context.Canceled):
		fmt.Println(timeoutStyle.Render("Interrupted") +
			fmt.Sprintf(" after %d rounds (%v)", g.Rounds(), duration.Truncate(time.Millisecond)))
	default:
		fmt.Println(timeoutStyle.Render("No winner") +
			fmt.Sprintf(" after %d rounds (%v)", g.Rounds(), duration.Truncate(time.Millisecond)))
	}
	fmt.Printf("transcripts written to %s\n", writer.Dir())

	return nil
}
