// Package game implements a concurrent pass-the-pack card game.
//
// A game is a ring of n players and n decks: player i draws from deck i
// and discards to deck i+1, all players acting concurrently on their own
// goroutines. Each player holds four cards and plays one draw/discard
// exchange per round; the first hand holding four cards of one rank wins.
// The main type is Game, which deals the pack, runs the ring and elects
// the single winner.
//
// # Basic Usage
//
// Create a game from a pack of 8n cards and run it to completion:
//
//	g, err := game.New(pack, game.Config{
//	    Players:   4,
//	    TurnDelay: 100 * time.Millisecond,
//	    Logger:    logger,
//	    Events:    bus,
//	})
//	if err != nil {
//	    return err
//	}
//	err = g.Run(ctx)
//
// Subscribers on the event bus receive the transcript stream: initial
// hands, turns, the win, the losses and the final deck contents.
//
// # Deterministic Testing
//
// For deterministic testing, disable pacing and inject a mock clock:
//
//	g, err := game.New(pack, game.Config{
//	    Players: 2,
//	    Clock:   quartz.NewMock(t),
//	})
//
// With TurnDelay zero the ring free-runs. The barrier keeps rounds in
// lockstep, so a fixed pack produces the same draws for every player on
// every run; only event interleaving varies, plus which claim wins when
// two players complete a hand in the same round.
//
// # Architecture
//
// Game delegates responsibilities to specialized components:
//   - Deck: a blocking FIFO guarded by one mutex and condition variable
//   - Barrier: a reusable rendezvous keeping all players in round lockstep
//   - Player: the per-goroutine turn loop and discard policy
//   - EventBus: synchronous fan-out of transcript events to observers
//
// Players never hold two locks at once. A turn takes the left deck's lock,
// then the hand's, then the right deck's, strictly one at a time, so the
// ring cannot form a cycle of waiters even though neighbouring players
// share decks in both directions.
package game
