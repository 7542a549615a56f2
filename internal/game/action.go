package game

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Action is a choice the player makes on their turn
type Action int

const (
	Hit Action = iota
	Stand
	DoubleDown
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case DoubleDown:
		return "double down"
	default:
		return "unknown"
	}
}

// Key returns the single-letter response that selects the action
func (a Action) Key() string {
	switch a {
	case Hit:
		return "h"
	case Stand:
		return "s"
	case DoubleDown:
		return "d"
	default:
		return "?"
	}
}

// Bet validation errors. They never leave the engine: a rejected bet is
// reported as a BetRejectedEvent and the player is asked again.
var (
	ErrMalformedBet    = errors.New("please enter an integer")
	ErrNonPositiveBet  = errors.New("bet must be greater than zero")
	ErrUnaffordableBet = errors.New("you must enter something you can afford")
)

// ParseBet validates a bet response against the bankroll.
// The amount must be a whole number, positive, and no more than the bankroll.
// "100" and "100.0" are both accepted; "12.5" is not.
func ParseBet(input string, bankroll int) (int, error) {
	input = strings.TrimSpace(input)
	amount, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%q: %w", input, ErrMalformedBet)
	}
	if amount != math.Trunc(amount) {
		return 0, fmt.Errorf("%q is not a whole number: %w", input, ErrMalformedBet)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%q: %w", input, ErrNonPositiveBet)
	}
	if amount > float64(bankroll) {
		return 0, fmt.Errorf("%q exceeds bankroll of %d: %w", input, bankroll, ErrUnaffordableBet)
	}
	return int(amount), nil
}

// ParseAction maps a response to an action using its first letter, ignoring case.
// Double down is only recognised when canDouble is true.
func ParseAction(input string, canDouble bool) (Action, bool) {
	switch firstLetter(input) {
	case 'h':
		return Hit, true
	case 's':
		return Stand, true
	case 'd':
		if canDouble {
			return DoubleDown, true
		}
	}
	return 0, false
}

// ParseContinue maps a yes/no response. ok is false for anything else.
func ParseContinue(input string) (again bool, ok bool) {
	switch firstLetter(input) {
	case 'y':
		return true, true
	case 'n':
		return false, true
	}
	return false, false
}

func firstLetter(input string) rune {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(input)
	return unicode.ToLower(r)
}
