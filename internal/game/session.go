package game

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/statistics"
)

// Session is the mutable state of a game. Only the engine changes it.
type Session struct {
	Bankroll    int
	Bet         int // 0 between rounds
	Round       int
	DoubledDown bool
	Player      []deck.Card
	Dealer      []deck.Card
	Stats       statistics.Statistics
}

// Snapshot is a read-only copy of the session for callers and tests
type Snapshot struct {
	Phase          Phase
	Bankroll       int
	Bet            int
	Round          int
	Wins           int
	Losses         int
	Pushes         int
	DoubledDown    bool
	Player         []deck.Card
	Dealer         []deck.Card
	PlayerValue    evaluator.Valuation
	DealerValue    evaluator.Valuation
	CardsRemaining int
}

func (s *Session) snapshot(phase Phase, remaining int) Snapshot {
	return Snapshot{
		Phase:          phase,
		Bankroll:       s.Bankroll,
		Bet:            s.Bet,
		Round:          s.Round,
		Wins:           s.Stats.Wins,
		Losses:         s.Stats.Losses,
		Pushes:         s.Stats.Pushes,
		DoubledDown:    s.DoubledDown,
		Player:         cloneCards(s.Player),
		Dealer:         cloneCards(s.Dealer),
		PlayerValue:    evaluator.Evaluate(s.Player),
		DealerValue:    evaluator.Evaluate(s.Dealer),
		CardsRemaining: remaining,
	}
}

// CardsInPlay returns every card held by either hand
func (s Snapshot) CardsInPlay() int {
	return len(s.Player) + len(s.Dealer)
}
