package deck

import (
	"errors"
	"fmt"
)

// Size is the number of cards in a full deck
const Size = 52

// ErrEmptyDeck is returned when drawing from a deck with no cards left
var ErrEmptyDeck = errors.New("deck is empty")

// Shuffler permutes n elements using swap. *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is a stack of cards. The top of the deck is the end of the slice;
// cards returned with PutBottom go to the front.
type Deck struct {
	cards    []Card
	shuffler Shuffler
}

// NewDeck creates a standard 52-card deck in suit then rank order. It is not shuffled.
func NewDeck(shuffler Shuffler) *Deck {
	d := &Deck{
		cards:    make([]Card, 0, Size),
		shuffler: shuffler,
	}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// NewStackedDeck creates a deck whose draw order is exactly the given cards:
// the first card is drawn first.
func NewStackedDeck(shuffler Shuffler, drawOrder []Card) *Deck {
	d := &Deck{
		cards:    make([]Card, len(drawOrder)),
		shuffler: shuffler,
	}
	for i, c := range drawOrder {
		d.cards[len(drawOrder)-1-i] = c
	}
	return d
}

// NewStackedFullDeck creates a full 52-card deck where the given cards are
// drawn first, followed by the rest of the deck in suit then rank order.
func NewStackedFullDeck(shuffler Shuffler, top []Card) (*Deck, error) {
	order := make([]Card, 0, Size)
	seen := make(map[Card]bool, Size)
	for _, c := range top {
		c = c.Revealed()
		if seen[c] {
			return nil, fmt.Errorf("duplicate card %s in stacked deck", c.Notation())
		}
		seen[c] = true
		order = append(order, c)
	}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := NewCard(suit, rank)
			if !seen[c] {
				order = append(order, c)
			}
		}
	}
	return NewStackedDeck(shuffler, order), nil
}

// Shuffle randomizes the order of the remaining cards in place
func (d *Deck) Shuffle() {
	if d.shuffler == nil {
		return
	}
	d.shuffler.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	top := len(d.cards) - 1
	card := d.cards[top]
	d.cards = d.cards[:top]
	return card, nil
}

// PutBottom returns cards to the bottom of the deck, face up, keeping their order.
// The first card given ends up at the very bottom.
func (d *Deck) PutBottom(cards ...Card) {
	if len(cards) == 0 {
		return
	}
	merged := make([]Card, 0, len(cards)+len(d.cards))
	for _, c := range cards {
		merged = append(merged, c.Revealed())
	}
	d.cards = append(merged, d.cards...)
}

// Peek returns the top card without removing it from the deck
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the deck from bottom to top
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
