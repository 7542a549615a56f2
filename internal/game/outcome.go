package game

import "github.com/lox/blackjack/internal/evaluator"

// Outcome is how a round ended for the player
type Outcome int

const (
	Loss Outcome = iota
	Win
	Push
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// Resolve decides a round once both hands are final.
// A player bust loses even if the dealer also busts; otherwise a dealer bust
// wins, and failing both the higher best total wins with equal totals pushing.
func Resolve(player, dealer evaluator.Valuation) Outcome {
	switch {
	case player.Busted:
		return Loss
	case dealer.Busted:
		return Win
	case player.Best > dealer.Best:
		return Win
	case player.Best < dealer.Best:
		return Loss
	default:
		return Push
	}
}

// Payout returns what goes back to the bankroll for a settled bet.
// The bet was already debited when placed, so a win returns twice the bet,
// a push returns the stake, and a loss returns nothing.
func Payout(outcome Outcome, bet int) int {
	switch outcome {
	case Win:
		return 2 * bet
	case Push:
		return bet
	default:
		return 0
	}
}
