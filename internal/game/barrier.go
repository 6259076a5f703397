package game

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBarrierBroken is returned by Wait once the barrier has been broken.
// Players treat it as the end-of-round-synchronisation signal, not a fault.
var ErrBarrierBroken = errors.New("barrier broken")

// Barrier is a reusable rendezvous for a fixed number of parties. Each
// round every party blocks in Wait until the last one arrives; then all are
// released together and the barrier resets for the next round.
//
// The rendezvous keeps the ring in lockstep: no player starts round n+1
// while a neighbour is still finishing round n, which bounds every deck at
// a handful of cards. A winner stops arriving, so the game breaks the
// barrier when declaring one; waiters past and future then get
// ErrBarrierBroken instead of blocking forever.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	arrived    int
	generation int
	broken     bool
}

// NewBarrier creates a barrier for the given number of parties.
func NewBarrier(parties int) (*Barrier, error) {
	if parties < 1 {
		return nil, fmt.Errorf("barrier needs at least 1 party, got %d", parties)
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b, nil
}

// Parties returns the number of parties the barrier synchronises.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties have arrived, then releases the whole
// generation at once. It returns ErrBarrierBroken when the barrier is
// already broken or breaks while waiting; a generation that completed
// before the break still counts as a successful rendezvous.
func (b *Barrier) Wait() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken {
		return ErrBarrierBroken
	}

	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return nil
	}

	gen := b.generation
	for gen == b.generation && !b.broken {
		b.cond.Wait()
	}
	if b.broken && gen == b.generation {
		return ErrBarrierBroken
	}
	return nil
}

// Break breaks the barrier permanently, releasing every current waiter.
func (b *Barrier) Break() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broken = true
	b.cond.Broadcast()
}

// Broken reports whether the barrier has been broken.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broken
}

// Generation returns the number of completed rendezvous. The game reads it
// as the round counter.
func (b *Barrier) Generation() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}
