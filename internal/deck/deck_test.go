package deck

import (
	"testing"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reverseShuffler struct{ calls int }

func (r *reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	r.calls++
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func assertFullDeck(t *testing.T, cards []Card) {
	t.Helper()
	require.Len(t, cards, Size)
	seen := make(map[Card]bool, Size)
	for _, c := range cards {
		assert.False(t, c.FaceDown, "card %s should be face up", c.Notation())
		assert.False(t, seen[c], "duplicate card %s", c.Notation())
		seen[c] = true
	}
}

func TestNewDeck(t *testing.T) {
	d := NewDeck(nil)
	assert.Equal(t, Size, d.CardsRemaining())
	assertFullDeck(t, d.Cards())
}

func TestDrawFromTop(t *testing.T) {
	d := NewStackedDeck(nil, MustParseCards("AsKh2c"))

	for _, want := range MustParseCards("AsKh2c") {
		got, err := d.Draw()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.True(t, d.IsEmpty())

	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestPutBottom(t *testing.T) {
	d := NewStackedDeck(nil, MustParseCards("2c3c"))
	d.PutBottom(NewCard(Spades, Ace).Hidden(), NewCard(Hearts, King))

	var drawn []Card
	for !d.IsEmpty() {
		c, err := d.Draw()
		require.NoError(t, err)
		drawn = append(drawn, c)
	}

	// Recycled cards come out last, face up, and the first one given is the very bottom.
	assert.Equal(t, MustParseCards("2c3cKhAs"), drawn)
}

func TestShuffle(t *testing.T) {
	t.Run("nil shuffler leaves order", func(t *testing.T) {
		d := NewDeck(nil)
		before := d.Cards()
		d.Shuffle()
		assert.Equal(t, before, d.Cards())
	})

	t.Run("uses injected shuffler", func(t *testing.T) {
		s := &reverseShuffler{}
		d := NewStackedDeck(s, MustParseCards("AsKh2c"))
		d.Shuffle()
		assert.Equal(t, 1, s.calls)
		top, ok := d.Peek()
		require.True(t, ok)
		assert.Equal(t, NewCard(Clubs, Two), top)
	})

	t.Run("seeded rng is reproducible and keeps every card", func(t *testing.T) {
		a := NewDeck(randutil.New(42))
		b := NewDeck(randutil.New(42))
		a.Shuffle()
		b.Shuffle()
		assert.Equal(t, a.Cards(), b.Cards())
		assert.NotEqual(t, NewDeck(nil).Cards(), a.Cards())
		assertFullDeck(t, a.Cards())
	})
}

func TestNewStackedFullDeck(t *testing.T) {
	d, err := NewStackedFullDeck(nil, MustParseCards("9hTs6dAc"))
	require.NoError(t, err)
	assertFullDeck(t, d.Cards())

	for _, want := range MustParseCards("9hTs6dAc") {
		got, err := d.Draw()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = NewStackedFullDeck(nil, MustParseCards("AsAs"))
	assert.Error(t, err)
}
