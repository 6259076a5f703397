package game

import (
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events. One game emits an initial
// hand per player, a turn event per completed exchange, exactly one win,
// a loss per non-winning player and a deck contents event per deck.
const (
	EventTypeInitialHand  EventType = "initial_hand"
	EventTypeTurn         EventType = "turn"
	EventTypeWin          EventType = "win"
	EventTypeLoss         EventType = "loss"
	EventTypeDeckContents EventType = "deck_contents"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any observable event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// InitialHandEvent is published once per player, after dealing and before
// the first turn.
type InitialHandEvent struct {
	Player    int
	Hand      []Card
	timestamp time.Time
}

func (e InitialHandEvent) EventType() EventType { return EventTypeInitialHand }
func (e InitialHandEvent) Timestamp() time.Time { return e.timestamp }

// NewInitialHandEvent creates a new initial hand event
func NewInitialHandEvent(player int, hand []Card) InitialHandEvent {
	return InitialHandEvent{
		Player:    player,
		Hand:      copyCards(hand),
		timestamp: time.Now(),
	}
}

// TurnEvent is published when a player completes a draw/discard exchange.
// Hand is the four-card hand after the exchange.
type TurnEvent struct {
	Player    int
	Drawn     Card
	FromDeck  int
	Discarded Card
	ToDeck    int
	Hand      []Card
	timestamp time.Time
}

func (e TurnEvent) EventType() EventType { return EventTypeTurn }
func (e TurnEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnEvent creates a new turn event
func NewTurnEvent(player int, drawn Card, fromDeck int, discarded Card, toDeck int, hand []Card) TurnEvent {
	return TurnEvent{
		Player:    player,
		Drawn:     drawn,
		FromDeck:  fromDeck,
		Discarded: discarded,
		ToDeck:    toDeck,
		Hand:      copyCards(hand),
		timestamp: time.Now(),
	}
}

// WinEvent is published exactly once per game, by the player whose victory
// claim succeeded.
type WinEvent struct {
	Player    int
	Hand      []Card
	timestamp time.Time
}

func (e WinEvent) EventType() EventType { return EventTypeWin }
func (e WinEvent) Timestamp() time.Time { return e.timestamp }

// NewWinEvent creates a new win event
func NewWinEvent(player int, hand []Card) WinEvent {
	return WinEvent{
		Player:    player,
		Hand:      copyCards(hand),
		timestamp: time.Now(),
	}
}

// LossEvent is published by each non-winning player as it learns of the
// winner and exits.
type LossEvent struct {
	Player    int
	Winner    int
	Hand      []Card
	timestamp time.Time
}

func (e LossEvent) EventType() EventType { return EventTypeLoss }
func (e LossEvent) Timestamp() time.Time { return e.timestamp }

// NewLossEvent creates a new loss event
func NewLossEvent(player, winner int, hand []Card) LossEvent {
	return LossEvent{
		Player:    player,
		Winner:    winner,
		Hand:      copyCards(hand),
		timestamp: time.Now(),
	}
}

// DeckContentsEvent is published once per deck after the game has ended,
// recording the deck's remaining cards head first.
type DeckContentsEvent struct {
	Deck      int
	Cards     []Card
	timestamp time.Time
}

func (e DeckContentsEvent) EventType() EventType { return EventTypeDeckContents }
func (e DeckContentsEvent) Timestamp() time.Time { return e.timestamp }

// NewDeckContentsEvent creates a new deck contents event
func NewDeckContentsEvent(deck int, cards []Card) DeckContentsEvent {
	return DeckContentsEvent{
		Deck:      deck,
		Cards:     copyCards(cards),
		timestamp: time.Now(),
	}
}

func copyCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus. Player goroutines publish
// concurrently, so the subscriber list is guarded; delivery itself is
// synchronous on the publisher's goroutine.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
