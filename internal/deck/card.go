package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in deck-building order
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in deck-building order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r >= Two && r <= Ten {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// Values returns the blackjack values the rank can count as.
// Aces count as either 1 or 11, court cards as 10, everything else as its pip count.
func (r Rank) Values() []int {
	switch {
	case r == Ace:
		return []int{1, 11}
	case r >= Jack && r <= King:
		return []int{10}
	case r >= Two && r <= Ten:
		return []int{int(r)}
	default:
		return nil
	}
}

// FaceDownString is how a hidden card is rendered
const FaceDownString = "??"

// Card represents a playing card. Suit and Rank identify the card;
// FaceDown only controls whether it is shown.
type Card struct {
	Suit     Suit
	Rank     Rank
	FaceDown bool
}

// NewCard creates a new face-up card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "♠A"),
// or "??" when the card is face down.
func (c Card) String() string {
	if c.FaceDown {
		return FaceDownString
	}
	return fmt.Sprintf("%s%s", c.Suit, c.Rank)
}

// Notation returns the compact two-character form used by ParseCards (e.g., "As", "Th")
func (c Card) Notation() string {
	rank := c.Rank.String()
	if c.Rank == Ten {
		rank = "T"
	}
	return rank + string("shdc"[c.Suit])
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsFaceCard returns true if the card is a face card (J, Q, K)
func (c Card) IsFaceCard() bool {
	return c.Rank >= Jack && c.Rank <= King
}

// Values returns the blackjack values of the card's rank
func (c Card) Values() []int {
	return c.Rank.Values()
}

// SameAs reports whether two cards share identity, ignoring visibility
func (c Card) SameAs(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Revealed returns a face-up copy of the card
func (c Card) Revealed() Card {
	c.FaceDown = false
	return c
}

// Hidden returns a face-down copy of the card
func (c Card) Hidden() Card {
	c.FaceDown = true
	return c
}
