package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/statistics"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeShuffle      EventType = "shuffle"
	EventTypeBetPlaced    EventType = "bet_placed"
	EventTypeBetRejected  EventType = "bet_rejected"
	EventTypeDeal         EventType = "deal"
	EventTypePlayerAction EventType = "player_action"
	EventTypeDealerTurn   EventType = "dealer_turn"
	EventTypeDealerDraw   EventType = "dealer_draw"
	EventTypeRoundEnd     EventType = "round_end"
	EventTypeGameOver     EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

type stamp struct {
	at time.Time
}

func (s stamp) Timestamp() time.Time { return s.at }

// RoundStartEvent is published when a round begins, before the bet is taken
type RoundStartEvent struct {
	Round         int
	Bankroll      int
	Wins          int
	Losses        int
	Pushes        int
	WinPercentage float64
	HasWinRate    bool // false until a round has completed
	stamp
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// ShuffleReason explains why the deck was shuffled
type ShuffleReason string

const (
	ShuffleNewGame    ShuffleReason = "new_game"
	ShufflePeriodic   ShuffleReason = "periodic"
	ShuffleDoubleDown ShuffleReason = "double_down"
)

// ShuffleEvent is published whenever the deck is shuffled
type ShuffleEvent struct {
	Reason         ShuffleReason
	Round          int
	CardsRemaining int
	stamp
}

func (e ShuffleEvent) EventType() EventType { return EventTypeShuffle }

// BetPlacedEvent is published once a bet has been accepted and debited
type BetPlacedEvent struct {
	Bet      int
	Bankroll int
	stamp
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }

// BetRejectedEvent is published when a bet response is refused
type BetRejectedEvent struct {
	Input    string
	Err      error // wraps ErrMalformedBet, ErrNonPositiveBet or ErrUnaffordableBet
	Bankroll int
	stamp
}

func (e BetRejectedEvent) EventType() EventType { return EventTypeBetRejected }

// DealEvent is published after the four opening cards are dealt
type DealEvent struct {
	Player        []deck.Card
	Dealer        []deck.Card // second card is face down
	PlayerValue   evaluator.Valuation
	DealerVisible evaluator.Valuation
	Bet           int
	Bankroll      int
	stamp
}

func (e DealEvent) EventType() EventType { return EventTypeDeal }

// PlayerActionEvent is published when the player hits, stands or doubles down
type PlayerActionEvent struct {
	Action   Action
	Forced   bool       // stand imposed after a double down
	Drawn    *deck.Card // card received, nil for a stand
	Hand     []deck.Card
	Value    evaluator.Valuation
	Bet      int
	Bankroll int
	stamp
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }

// DealerTurnEvent is published at every step of the dealer's turn
type DealerTurnEvent struct {
	Hand     []deck.Card
	Value    evaluator.Valuation
	Revealed bool // this step turned the hole card face up
	stamp
}

func (e DealerTurnEvent) EventType() EventType { return EventTypeDealerTurn }

// DealerDrawEvent is published when the dealer takes a card
type DealerDrawEvent struct {
	Drawn deck.Card
	Hand  []deck.Card
	Value evaluator.Valuation
	stamp
}

func (e DealerDrawEvent) EventType() EventType { return EventTypeDealerDraw }

// RoundEndEvent is published once a round is settled
type RoundEndEvent struct {
	Round       int
	Outcome     Outcome
	Bet         int
	Payout      int
	Bankroll    int
	Player      []deck.Card
	Dealer      []deck.Card
	PlayerValue evaluator.Valuation
	DealerValue evaluator.Valuation
	stamp
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }

// GameOverReason explains why a session ended
type GameOverReason string

const (
	GameOverQuit        GameOverReason = "quit"
	GameOverBankrupt    GameOverReason = "bankrupt"
	GameOverInputClosed GameOverReason = "input_closed"
)

// GameOverEvent is published exactly once, when the session ends
type GameOverEvent struct {
	Reason   GameOverReason
	Bankroll int
	Stats    statistics.Statistics
	Duration time.Duration
	stamp
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to the EventSubscriber interface.
// Functions are not comparable, so a SubscriberFunc cannot be unsubscribed.
type SubscriberFunc func(event GameEvent)

// OnEvent calls f
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus.
// Subscribers run on the publishing goroutine, in subscription order.
type SimpleEventBus struct {
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
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

func cloneCards(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
