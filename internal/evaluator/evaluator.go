// Package evaluator computes blackjack hand values.
//
// A hand's value is not a single number: every Ace may count as 1 or 11, so a
// hand has a set of possible totals. Evaluate returns that set together with
// the two facts the game cares about, whether the hand is bust and the best
// total that does not exceed 21.
//
//	v := evaluator.Evaluate(deck.MustParseCards("As6h"))
//	// v.Totals == []int{7, 17}, v.Best == 17, v.IsSoft17() == true
//
// Valuations are plain values computed from a snapshot of the cards; nothing
// is cached on the hand, so a valuation can never go stale.
package evaluator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Blackjack is the highest total a hand can have without busting
const Blackjack = 21

// DealerStandsOn is the total at which the dealer stops drawing, unless soft
const DealerStandsOn = 17

// Valuation describes every way a hand can be counted
type Valuation struct {
	Totals []int // distinct possible totals, ascending
	Busted bool  // the smallest total exceeds 21
	Best   int   // largest total <= 21, or 0 when busted
}

// Evaluate values a hand. Face-down cards are counted: visibility is
// presentation, not game state.
//
// Starting from {0}, each non-Ace adds its value to every total and each Ace
// splits every total into +1 and +11. Duplicates are merged as they appear so
// the set never holds more than one entry per distinct total.
func Evaluate(cards []deck.Card) Valuation {
	totals := []int{0}
	for _, card := range cards {
		values := card.Values()
		if len(values) == 0 {
			continue
		}
		next := make([]int, 0, len(totals)*len(values))
		for _, total := range totals {
			for _, v := range values {
				next = append(next, total+v)
			}
		}
		slices.Sort(next)
		totals = slices.Compact(next)
	}

	v := Valuation{Totals: totals}
	if totals[0] > Blackjack {
		v.Busted = true
		return v
	}
	for _, total := range totals {
		if total <= Blackjack {
			v.Best = total
		}
	}
	return v
}

// EvaluateVisible values only the face-up cards, which is what an observer can see
func EvaluateVisible(cards []deck.Card) Valuation {
	visible := make([]deck.Card, 0, len(cards))
	for _, c := range cards {
		if !c.FaceDown {
			visible = append(visible, c)
		}
	}
	return Evaluate(visible)
}

// Min returns the smallest possible total
func (v Valuation) Min() int {
	if len(v.Totals) == 0 {
		return 0
	}
	return v.Totals[0]
}

// IsSoft reports whether the best total counts an Ace as 11
func (v Valuation) IsSoft() bool {
	return !v.Busted && v.Best != v.Min()
}

// IsSoft17 reports whether 17 appears among the totals above the smallest one.
// Such a hand only reaches 17 by counting an Ace as 11, and the dealer must hit it.
// Ace+6 ({7, 17}) is soft; Ace+6+10 ({17, 27}) is hard because 17 is the minimum.
func (v Valuation) IsSoft17() bool {
	if len(v.Totals) < 2 {
		return false
	}
	return slices.Contains(v.Totals[1:], DealerStandsOn)
}

// DealerMustHit reports whether a dealer holding this hand has to draw:
// below 17, or on a soft 17. A bust hand never draws.
func (v Valuation) DealerMustHit() bool {
	if v.Busted {
		return false
	}
	return v.Best < DealerStandsOn || v.IsSoft17()
}

// String renders the hand value, e.g. "17", "7/17" or "bust (22)"
func (v Valuation) String() string {
	if v.Busted {
		return fmt.Sprintf("bust (%d)", v.Min())
	}
	var parts []string
	for _, total := range v.Totals {
		if total <= Blackjack {
			parts = append(parts, fmt.Sprintf("%d", total))
		}
	}
	return strings.Join(parts, "/")
}
