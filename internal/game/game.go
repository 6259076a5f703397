package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Default pacing and shutdown bounds, matching the classic game rules.
const (
	DefaultTurnDelay       = 100 * time.Millisecond
	DefaultShutdownTimeout = time.Minute
)

// ErrShutdownTimeout is returned by Wait when players were still running at
// the shutdown deadline and had to be force-stopped. The final output pass
// still runs, so the error is a report, not a failure.
var ErrShutdownTimeout = errors.New("shutdown timeout elapsed")

// PackSize returns the number of cards a game of n players requires: four
// per hand plus four per deck.
func PackSize(n int) int {
	return 2 * HandSize * n
}

// Config holds configuration for a single game.
type Config struct {
	// Players is the number of players (and decks) in the ring. At least 2.
	Players int

	// TurnDelay is the pause each player takes between rounds. Zero
	// disables pacing, which is what simulations and tests want.
	TurnDelay time.Duration

	// ShutdownTimeout bounds Wait: players still running when it elapses
	// are force-stopped. Zero means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger receives game progress. Nil discards it.
	Logger *log.Logger

	// Events receives transcript events. Nil installs an empty bus.
	Events EventBus

	// Clock drives delays and the shutdown deadline. Nil means the real
	// clock; tests inject a mock.
	Clock quartz.Clock
}

// Game coordinates one full game: it owns the ring of players and decks,
// elects the single winner, winds every player down and triggers the final
// deck output exactly once.
//
// End-of-game state (ended, winner) changes only under the game's own
// mutex, and only from false to ended. The done channel closes in the same
// critical section, giving players a select-friendly view of the flag.
// Fan-out signals that take other locks, breaking the barrier and
// interrupting the decks, happen strictly after the mutex is released.
type Game struct {
	players []*Player
	decks   []*Deck
	barrier *Barrier
	events  EventBus
	logger  *log.Logger
	clock   quartz.Clock

	turnDelay       time.Duration
	shutdownTimeout time.Duration

	mu      sync.Mutex
	started bool
	ended   bool
	winner  *Player

	done        chan struct{}
	finished    chan struct{}
	active      atomic.Int32
	finalOutput sync.Once
}

// New creates a game from a dealt-out pack. The pack must hold exactly
// PackSize(cfg.Players) cards with no negative ranks; violations reject the
// whole game before any player exists. The first 4n cards are dealt
// round-robin to hands, the rest round-robin to decks drawing from the back
// of the pack.
func New(pack []Card, cfg Config) (*Game, error) {
	n := cfg.Players
	if n < 2 {
		return nil, fmt.Errorf("game needs at least 2 players, got %d", n)
	}
	if len(pack) != PackSize(n) {
		return nil, fmt.Errorf("pack must contain exactly %d cards for %d players, got %d", PackSize(n), n, len(pack))
	}
	for i, c := range pack {
		if c.Rank() < 0 {
			return nil, fmt.Errorf("%w: rank %d at pack position %d", ErrInvalidCard, c.Rank(), i+1)
		}
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Events == nil {
		cfg.Events = NewEventBus()
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	barrier, err := NewBarrier(n)
	if err != nil {
		return nil, err
	}

	g := &Game{
		barrier:         barrier,
		events:          cfg.Events,
		logger:          cfg.Logger,
		clock:           cfg.Clock,
		turnDelay:       cfg.TurnDelay,
		shutdownTimeout: cfg.ShutdownTimeout,
		done:            make(chan struct{}),
		finished:        make(chan struct{}),
	}

	g.decks = make([]*Deck, n)
	for i := 0; i < n; i++ {
		d, err := NewDeck(i + 1)
		if err != nil {
			return nil, err
		}
		g.decks[i] = d
	}

	// Player i draws from deck i and discards to deck i+1, wrapping
	// around, which closes the ring.
	g.players = make([]*Player, n)
	for i := 1; i <= n; i++ {
		p, err := NewPlayer(i, g.decks[(i-1)%n], g.decks[i%n], g)
		if err != nil {
			return nil, err
		}
		g.players[i-1] = p
	}

	if err := g.deal(pack); err != nil {
		return nil, err
	}
	return g, nil
}

// deal hands out the first 4n cards round-robin across hands, then
// distributes the remainder round-robin across decks taking cards from the
// back of the pack. Both orders are observable in transcripts and must not
// change.
func (g *Game) deal(pack []Card) error {
	n := len(g.players)
	handCards := HandSize * n
	for i := 0; i < handCards; i++ {
		if err := g.players[i%n].AddToHand(pack[i]); err != nil {
			return fmt.Errorf("dealing to player %d: %w", i%n+1, err)
		}
	}
	deckIndex := 0
	for i := len(pack) - 1; i >= handCards; i-- {
		g.decks[deckIndex].Push(pack[i])
		deckIndex = (deckIndex + 1) % n
	}
	return nil
}

// Start launches every player's run loop on its own goroutine. It returns
// immediately; Wait observes completion.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return errors.New("game already started")
	}
	g.started = true
	g.active.Store(int32(len(g.players)))
	g.logger.Info("game started", "players", len(g.players), "decks", len(g.decks))
	for _, p := range g.players {
		go p.run()
	}
	return nil
}

// Wait blocks until every player has exited, the shutdown timeout elapses
// or ctx is cancelled. On timeout or cancellation it force-stops the ring
// and still waits for the players, which all unblock promptly because every
// blocking point observes the stop. The final deck output pass runs exactly
// once before Wait returns, whichever path got here first.
func (g *Game) Wait(ctx context.Context) error {
	g.mu.Lock()
	started := g.started
	g.mu.Unlock()
	if !started {
		return errors.New("game not started")
	}

	timedOut := make(chan struct{})
	timer := g.clock.AfterFunc(g.shutdownTimeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	var err error
	select {
	case <-g.finished:
	case <-timedOut:
		g.logger.Warn("players still running at shutdown deadline, forcing stop",
			"timeout", g.shutdownTimeout, "active", g.active.Load())
		g.forceStop()
		<-g.finished
		err = ErrShutdownTimeout
	case <-ctx.Done():
		g.forceStop()
		<-g.finished
		err = ctx.Err()
	}
	g.writeFinalOutput()
	return err
}

// Run starts the game and waits for it to finish.
func (g *Game) Run(ctx context.Context) error {
	if err := g.Start(); err != nil {
		return err
	}
	return g.Wait(ctx)
}

// declareWinner ends the game with p as winner. The first claim wins; every
// later one returns false. The done channel closes inside the critical
// section; the barrier break and deck interrupts fan out after it, so no
// other lock is ever taken under the game mutex.
func (g *Game) declareWinner(p *Player) bool {
	g.mu.Lock()
	if g.ended {
		g.mu.Unlock()
		return false
	}
	g.ended = true
	g.winner = p
	close(g.done)
	g.mu.Unlock()

	g.logger.Info("game over", "winner", p.ID(), "rounds", g.Rounds())
	g.barrier.Break()
	for _, d := range g.decks {
		d.Interrupt()
	}
	return true
}

// forceStop ends the game without a winner and releases every blocked
// player. Safe to call after a winner was declared; the signals are
// idempotent.
func (g *Game) forceStop() {
	g.mu.Lock()
	if !g.ended {
		g.ended = true
		close(g.done)
	}
	g.mu.Unlock()

	g.barrier.Break()
	for _, d := range g.decks {
		d.Interrupt()
	}
}

// playerFinished records one player's terminal exit. The last exit closes
// finished and, when the game has ended, triggers the final output pass.
// The pass is guarded by a sync.Once rather than the counter alone, so a
// second trigger from Wait's timeout path cannot run it again.
func (g *Game) playerFinished() {
	if g.active.Add(-1) != 0 {
		return
	}
	close(g.finished)
	if g.Ended() {
		g.writeFinalOutput()
	}
}

// writeFinalOutput publishes each deck's remaining contents, once per game.
func (g *Game) writeFinalOutput() {
	g.finalOutput.Do(func() {
		for _, d := range g.decks {
			g.events.Publish(NewDeckContentsEvent(d.ID(), d.Snapshot()))
		}
	})
}

// Ended reports whether the game has ended, by victory or force-stop.
func (g *Game) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}

// Winner returns the winning player, or nil while the game is running or
// after a stop with no winner.
func (g *Game) Winner() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

// Players returns the players in ring order.
func (g *Game) Players() []*Player {
	return g.players
}

// Decks returns the decks in ring order.
func (g *Game) Decks() []*Deck {
	return g.decks
}

// Rounds returns the number of completed round rendezvous so far.
func (g *Game) Rounds() int {
	return g.barrier.Generation()
}

// Done returns a channel that closes when the game ends. Players select on
// it to cut delays short.
func (g *Game) Done() <-chan struct{} {
	return g.done
}
