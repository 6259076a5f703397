// Package sim runs batches of games and aggregates their outcomes.
//
// Each game plays an independently generated pack derived from the batch
// seed, so a whole simulation replays from one number. Games run
// concurrently up to a parallelism bound; per-game transcripts are off by
// default because a thousand games of transcript files help nobody.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/quads/internal/game"
	"github.com/lox/quads/internal/gameid"
	"github.com/lox/quads/internal/pack"
	"github.com/lox/quads/internal/randutil"
)

// DefaultGameTimeout bounds a single simulated game. Generated packs
// converge fast; anything hitting this is stuck, not slow.
const DefaultGameTimeout = 10 * time.Second

// Config holds configuration for running simulations.
type Config struct {
	Games       int
	Players     int
	Parallelism int           // concurrent games; 0 means GOMAXPROCS
	Seed        int64         // batch seed; game i derives seed Seed+i
	TurnDelay   time.Duration // usually zero, simulations free-run
	GameTimeout time.Duration // per-game shutdown bound; 0 means DefaultGameTimeout
	Logger      *log.Logger
}

// Runner executes game simulations.
type Runner struct {
	config Config
	logger *log.Logger
}

// New creates a new runner with the given configuration.
func New(config Config) (*Runner, error) {
	if config.Games < 1 {
		return nil, fmt.Errorf("simulation needs at least 1 game, got %d", config.Games)
	}
	if config.Players < 2 {
		return nil, fmt.Errorf("simulation needs at least 2 players, got %d", config.Players)
	}
	if config.Parallelism < 0 {
		return nil, fmt.Errorf("parallelism must not be negative, got %d", config.Parallelism)
	}
	if config.GameTimeout == 0 {
		config.GameTimeout = DefaultGameTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{config: config, logger: logger.WithPrefix("sim")}, nil
}

// Run executes the whole batch and returns aggregate statistics. A game
// that hits its shutdown bound counts as timed out and the batch carries
// on; a cancelled context aborts the batch.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	parallelism := r.config.Parallelism
	if parallelism == 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	r.logger.Info("starting simulation",
		"games", r.config.Games,
		"players", r.config.Players,
		"parallelism", parallelism,
		"seed", r.config.Seed)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	results := make(chan GameResult, parallelism)

	for i := 0; i < r.config.Games; i++ {
		seed := r.config.Seed + int64(i)
		g.Go(func() error {
			result, err := r.playGame(ctx, seed)
			if err != nil {
				return err
			}
			select {
			case results <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	var waitErr error
	go func() {
		waitErr = g.Wait()
		close(results)
	}()

	stats := NewStats()
	for result := range results {
		stats.Add(result)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("simulation aborted: %w", waitErr)
	}
	if err := stats.Validate(); err != nil {
		return nil, err
	}

	r.logger.Info("simulation complete",
		"games", stats.Games,
		"timed_out", stats.TimedOut,
		"mean_rounds", fmt.Sprintf("%.1f", stats.MeanRounds()))
	return stats, nil
}

// playGame runs one game over a pack generated from seed.
func (r *Runner) playGame(ctx context.Context, seed int64) (GameResult, error) {
	id, err := gameid.New()
	if err != nil {
		return GameResult{}, err
	}
	cards := pack.Generate(r.config.Players, randutil.New(seed))

	instance, err := game.New(cards, game.Config{
		Players:         r.config.Players,
		TurnDelay:       r.config.TurnDelay,
		ShutdownTimeout: r.config.GameTimeout,
		Logger:          r.logger.With("game", id),
	})
	if err != nil {
		return GameResult{}, fmt.Errorf("game %s (seed %d): %w", id, seed, err)
	}

	start := time.Now()
	err = instance.Run(ctx)
	result := GameResult{
		ID:       id,
		Seed:     seed,
		Rounds:   instance.Rounds(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		if w := instance.Winner(); w != nil {
			result.Winner = w.ID()
		}
		r.logger.Debug("game finished",
			"game", id, "seed", seed, "winner", result.Winner, "rounds", result.Rounds)
	case errors.Is(err, game.ErrShutdownTimeout):
		// Reported in the stats, never fatal to the batch.
		result.TimedOut = true
		r.logger.Warn("game hit its shutdown bound", "game", id, "seed", seed)
	default:
		return GameResult{}, fmt.Errorf("game %s (seed %d): %w", id, seed, err)
	}
	return result, nil
}
