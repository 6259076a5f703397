package game

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDeckInterrupted is returned by Pop when the deck has been interrupted
// and holds no card. It signals end of game to a blocked consumer, not a
// fault.
var ErrDeckInterrupted = errors.New("deck interrupted")

// Deck is the FIFO card queue sitting between two neighbouring players in
// the ring. The player on one side pushes discards onto the tail, the
// player on the other side draws from the head, blocking while the deck is
// empty.
//
// Every queue operation runs under a single deck-scoped mutex. A consumer
// blocked in Pop waits on the deck's condition variable and holds no other
// lock, so a starved player never stalls the rest of the ring.
type Deck struct {
	id int

	mu          sync.Mutex
	nonEmpty    *sync.Cond
	cards       []Card
	interrupted bool
}

// NewDeck creates an empty deck with the given identifier.
func NewDeck(id int) (*Deck, error) {
	if id < 0 {
		return nil, fmt.Errorf("deck id must not be negative, got %d", id)
	}
	d := &Deck{id: id}
	d.nonEmpty = sync.NewCond(&d.mu)
	return d, nil
}

// ID returns the deck's identifier.
func (d *Deck) ID() int {
	return d.id
}

// Push appends a card at the tail and wakes one consumer that may be
// blocked in Pop. The deck has no capacity bound, so Push never blocks.
func (d *Deck) Push(c Card) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cards = append(d.cards, c)
	d.nonEmpty.Signal()
}

// Pop removes and returns the card at the head. While the deck is empty Pop
// blocks until a card is pushed or the deck is interrupted. Cards queued
// before an interrupt remain poppable, so an interrupted deck still drains
// in order; only an empty interrupted deck returns ErrDeckInterrupted.
func (d *Deck) Pop() (Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.cards) == 0 && !d.interrupted {
		d.nonEmpty.Wait()
	}
	if len(d.cards) == 0 {
		return Card{}, ErrDeckInterrupted
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

// Interrupt marks the deck interrupted and wakes every blocked consumer.
// The flag is a one-way latch: once set, no Pop ever blocks again. The
// game interrupts all decks when a winner is declared so that a player
// parked on an empty deck does not wait for a card that will never come.
func (d *Deck) Interrupt() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interrupted = true
	d.nonEmpty.Broadcast()
}

// Interrupted reports whether the deck has been interrupted.
func (d *Deck) Interrupted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interrupted
}

// Len returns the number of cards currently queued.
func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

// Snapshot returns a copy of the deck's contents in queue order, head
// first. The final transcript records each deck through this.
func (d *Deck) Snapshot() []Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
