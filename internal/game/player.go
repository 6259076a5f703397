package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// HandSize is the number of cards a player holds between turns. Four cards
// of one rank is a winning hand.
const HandSize = 4

var (
	// ErrHandFull is returned by AddToHand when the hand already holds
	// HandSize cards.
	ErrHandFull = errors.New("hand is full")

	// ErrInvalidCard is returned by AddToHand for a card with a negative
	// rank, which no valid pack can contain.
	ErrInvalidCard = errors.New("invalid card")

	// ErrGameOver is returned by PlayTurn once the game has ended.
	ErrGameOver = errors.New("game is over")
)

// Player is one autonomous participant in the ring. It holds a private
// four-card hand, draws from the deck on its left and discards to the deck
// on its right, and runs its whole game life on a single goroutine started
// by the game.
//
// The hand is guarded by the player's own mutex. During a turn the player
// takes locks strictly one at a time: the left deck's while drawing, its
// own while exchanging, the right deck's while discarding. No two locks
// are ever held together, so the ring cannot form a cycle of waiters.
type Player struct {
	id      int
	left    *Deck
	right   *Deck
	game    *Game
	barrier *Barrier
	logger  *log.Logger

	mu   sync.Mutex
	hand []Card
	won  bool
}

// NewPlayer creates a player that draws from left and discards to right.
func NewPlayer(id int, left, right *Deck, g *Game) (*Player, error) {
	if id < 1 {
		return nil, fmt.Errorf("player id must be positive, got %d", id)
	}
	if left == nil || right == nil {
		return nil, fmt.Errorf("player %d needs a deck on each side", id)
	}
	return &Player{
		id:      id,
		left:    left,
		right:   right,
		game:    g,
		barrier: g.barrier,
		logger:  g.logger.With("player", id),
		hand:    make([]Card, 0, HandSize+1),
	}, nil
}

// ID returns the player's identifier. Identifiers run from 1 to the number
// of players; the discard policy compares card ranks against this value.
func (p *Player) ID() int {
	return p.id
}

// Hand returns a copy of the player's current hand in hand order.
func (p *Player) Hand() []Card {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyCards(p.hand)
}

// AddToHand appends a card to the hand. The initial deal uses this; during
// play the exchange in PlayTurn keeps the hand at HandSize internally.
func (p *Player) AddToHand(c Card) error {
	if c.Rank() < 0 {
		return fmt.Errorf("%w: rank %d", ErrInvalidCard, c.Rank())
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.hand) >= HandSize {
		return ErrHandFull
	}
	p.hand = append(p.hand, c)
	return nil
}

// HasWon reports whether the hand holds four cards of one rank.
func (p *Player) HasWon() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return isWinningHand(p.hand)
}

func isWinningHand(hand []Card) bool {
	counts := make(map[int]int, HandSize)
	for _, c := range hand {
		counts[c.Rank()]++
		if counts[c.Rank()] == HandSize {
			return true
		}
	}
	return false
}

// Won reports whether this player's victory claim succeeded.
func (p *Player) Won() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.won
}

// ChooseDiscard returns the card the discard policy would give up: the
// first card in hand order whose rank differs from the player's id, or the
// first card outright when every rank matches. The scan order is part of
// the game's observable behaviour, so it must stay stable.
func (p *Player) ChooseDiscard() (Card, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.hand) == 0 {
		return Card{}, errors.New("empty hand has no discard")
	}
	return p.hand[p.discardIndex()], nil
}

// discardIndex applies the discard policy to the current hand. Callers
// hold p.mu.
func (p *Player) discardIndex() int {
	for i, c := range p.hand {
		if c.Rank() != p.id {
			return i
		}
	}
	return 0
}

// exchange adds the drawn card and removes the policy discard in one
// critical section, so no observer can ever see a hand of five cards. The
// drawn card takes part in the discard scan, which means an unwanted draw
// can bounce straight out again.
func (p *Player) exchange(drawn Card) Card {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hand = append(p.hand, drawn)
	i := p.discardIndex()
	discarded := p.hand[i]
	p.hand = append(p.hand[:i], p.hand[i+1:]...)
	return discarded
}

// PlayTurn executes one atomic exchange: draw from the left deck, swap the
// drawn card against the policy discard, push the discard to the right
// deck, then publish the turn event. A Pop blocked on an empty deck
// returns ErrDeckInterrupted once the game ends, which PlayTurn passes
// through unchanged.
func (p *Player) PlayTurn() error {
	if p.game.Ended() {
		return ErrGameOver
	}
	drawn, err := p.left.Pop()
	if err != nil {
		return err
	}
	discarded := p.exchange(drawn)
	p.right.Push(discarded)
	p.game.events.Publish(NewTurnEvent(p.id, drawn, p.left.ID(), discarded, p.right.ID(), p.Hand()))
	p.logger.Debug("turn complete",
		"drew", drawn,
		"from", p.left.ID(),
		"discarded", discarded,
		"to", p.right.ID())
	return nil
}

// run is the player's game loop, executed on its own goroutine. Every exit
// path goes through the deferred playerFinished so the game's active
// player count stays exact.
func (p *Player) run() {
	defer p.game.playerFinished()

	p.game.events.Publish(NewInitialHandEvent(p.id, p.Hand()))

	// A hand dealt winning ends the game before any turn is played.
	if p.HasWon() {
		if p.claimVictory() {
			return
		}
		p.exitAsLoser()
		return
	}

	for !p.game.Ended() {
		if err := p.PlayTurn(); err != nil {
			break
		}
		if err := p.barrier.Wait(); err != nil {
			break
		}
		if p.HasWon() {
			if p.claimVictory() {
				return
			}
			break
		}
		p.pause()
	}
	p.exitAsLoser()
}

// claimVictory tries to end the game with this player as winner. Exactly
// one claim per game succeeds; the loser of a simultaneous claim gets
// false and exits like everyone else.
func (p *Player) claimVictory() bool {
	if !p.game.declareWinner(p) {
		return false
	}
	p.mu.Lock()
	p.won = true
	p.mu.Unlock()
	p.logger.Info("wins", "hand", Cards(p.Hand()))
	p.game.events.Publish(NewWinEvent(p.id, p.Hand()))
	return true
}

// exitAsLoser publishes the loss notification for a player that saw
// another player win. A game stopped without a winner produces none.
func (p *Player) exitAsLoser() {
	winner := p.game.Winner()
	if winner == nil || winner.ID() == p.id {
		return
	}
	p.logger.Debug("exits", "winner", winner.ID())
	p.game.events.Publish(NewLossEvent(p.id, winner.ID(), p.Hand()))
}

// pause waits out the configured inter-round delay, returning early when
// the game ends meanwhile. The delay paces the simulation for humans
// reading logs; correctness never depends on it.
func (p *Player) pause() {
	if p.game.turnDelay <= 0 {
		return
	}
	fired := make(chan struct{})
	timer := p.game.clock.AfterFunc(p.game.turnDelay, func() {
		close(fired)
	})
	defer timer.Stop()

	select {
	case <-fired:
	case <-p.game.done:
	}
}
