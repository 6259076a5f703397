package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lox/quads/cmd/quads/shared"
	"github.com/lox/quads/internal/config"
	"github.com/lox/quads/internal/sim"
)

// SimulateCmd runs a batch of games and reports aggregate statistics.
type SimulateCmd struct {
	Config      string        `short:"c" default:"quads.hcl" help:"Path to HCL configuration file"`
	Games       int           `short:"g" help:"Number of games to run (overrides config)"`
	Players     int           `short:"n" help:"Number of players per game (overrides config)"`
	Parallelism int           `short:"j" help:"Concurrent games, 0 for GOMAXPROCS (overrides config)"`
	Seed        *int64        `help:"Batch seed (overrides config)"`
	Delay       time.Duration `help:"Pause between rounds (default none, games free-run)"`
	LogLevel    string        `short:"l" help:"Log level (overrides config)"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	// Apply command line overrides
	if c.Games > 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Players > 0 {
		cfg.Game.Players = c.Players
	}
	if c.Parallelism > 0 {
		cfg.Simulation.Parallelism = c.Parallelism
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.LogLevel != "" {
		cfg.Game.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := shared.SetupLogger(cfg.Game.LogLevel)

	gameTimeout, err := cfg.GetShutdownTimeout()
	if err != nil {
		return err
	}

	runner, err := sim.New(sim.Config{
		Games:       cfg.Simulation.Games,
		Players:     cfg.Game.Players,
		Parallelism: cfg.Simulation.Parallelism,
		Seed:        cfg.Simulation.Seed,
		TurnDelay:   c.Delay,
		GameTimeout: gameTimeout,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)

	start := time.Now()
	stats, err := runner.Run(ctx)
	duration := time.Since(start)
	if err != nil {
		return err
	}

	printStats(stats, duration)
	return nil
}

func printStats(stats *sim.Stats, duration time.Duration) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("player"),
		headerStyle.Render("wins"),
		headerStyle.Render("win rate"))

	for _, id := range stats.Winners() {
		fmt.Fprintf(w, "%s\t%d\t%s\n",
			playerStyle.Render(fmt.Sprintf("%d", id)),
			stats.Wins[id],
			winStyle.Render(fmt.Sprintf("%.1f%%", stats.WinRate(id)*100)))
	}

	w.Flush()

	fmt.Printf("\n%d games in %v\n", stats.Games, duration.Truncate(time.Millisecond))
	fmt.Printf("mean %.1f rounds per game (min %d, max %d)\n", stats.MeanRounds(), stats.MinRounds, stats.MaxRounds)
	if stats.TimedOut > 0 {
		fmt.Println(timeoutStyle.Render(fmt.Sprintf("%d games timed out without a winner", stats.TimedOut)))
	}
}
