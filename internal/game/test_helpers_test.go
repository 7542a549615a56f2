package game

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// scriptedPrompter answers prompts from a fixed list and reports EOF when it runs out
type scriptedPrompter struct {
	lines    []string
	requests []PromptRequest
}

func script(lines ...string) *scriptedPrompter {
	return &scriptedPrompter{lines: lines}
}

func (p *scriptedPrompter) Prompt(_ context.Context, req PromptRequest) (string, error) {
	p.requests = append(p.requests, req)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) count(kind PromptKind) int {
	n := 0
	for _, r := range p.requests {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// countingShuffler records shuffles without changing the deck order
type countingShuffler struct {
	calls int
}

func (s *countingShuffler) Shuffle(int, func(i, j int)) {
	s.calls++
}

// eventRecorder captures every published event in order
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func eventsOf[T GameEvent](r *eventRecorder) []T {
	var out []T
	for _, e := range r.events {
		if typed, ok := e.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

func lastEvent[T GameEvent](t *testing.T, r *eventRecorder) T {
	t.Helper()
	all := eventsOf[T](r)
	require.NotEmpty(t, all, "no %T published", *new(T))
	return all[len(all)-1]
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

type testTable struct {
	engine   *Engine
	prompter *scriptedPrompter
	events   *eventRecorder
	shuffler *countingShuffler
	clock    *quartz.Mock
}

// newTestTable builds an engine whose deck deals drawOrder first (dealer,
// player, dealer face down, player, then hits) followed by the rest of the deck.
func newTestTable(t *testing.T, drawOrder string, bankroll int, lines ...string) *testTable {
	t.Helper()

	shuffler := &countingShuffler{}
	d, err := deck.NewStackedFullDeck(shuffler, deck.MustParseCards(drawOrder))
	require.NoError(t, err)

	tt := &testTable{
		prompter: script(lines...),
		events:   &eventRecorder{},
		shuffler: shuffler,
		clock:    quartz.NewMock(t),
	}
	tt.engine = NewEngine(tt.prompter, quietLogger(),
		WithDeck(d),
		WithBankroll(bankroll),
		WithClock(tt.clock))
	tt.engine.EventBus().Subscribe(tt.events)
	return tt
}

func (tt *testTable) run(t *testing.T) {
	t.Helper()
	require.NoError(t, tt.engine.Run(context.Background()))
}

// stepUntil steps the engine until it is about to execute phase
func (tt *testTable) stepUntil(t *testing.T, phase Phase) {
	t.Helper()
	for i := 0; tt.engine.Phase() != phase; i++ {
		require.Less(t, i, 100, "never reached %s", phase)
		done, err := tt.engine.Step(context.Background())
		require.NoError(t, err)
		require.False(t, done, "session ended before %s", phase)
	}
}

func requireFullDeck(t *testing.T, cards []deck.Card) {
	t.Helper()
	require.Len(t, cards, deck.Size)
	seen := make(map[deck.Card]bool, deck.Size)
	for _, c := range cards {
		require.False(t, c.FaceDown, "card %s left face down", c.Notation())
		require.False(t, seen[c], "card %s duplicated", c.Notation())
		seen[c] = true
	}
}
