package history

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/game"
)

// Recorder builds a Session from game events.
// It implements game.EventSubscriber.
type Recorder struct {
	mu      sync.Mutex
	session Session
	current *Round
	random  io.Reader
	logger  *log.Logger
	done    bool
}

// NewRecorder creates a recorder for a session played with seed.
// random feeds the session ID and may be nil.
func NewRecorder(seed int64, random io.Reader, logger *log.Logger) *Recorder {
	return &Recorder{
		session: Session{Variant: Variant, Seed: seed},
		random:  random,
		logger:  logger.WithPrefix("history"),
	}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session.Started.IsZero() {
		r.start(event)
	}

	switch e := event.(type) {
	case game.RoundStartEvent:
		if e.Round == 1 {
			r.session.StartingBankroll = e.Bankroll
		}
		r.current = &Round{Number: e.Round}

	case game.BetPlacedEvent:
		if r.current != nil {
			r.current.Bet = e.Bet
		}

	case game.DealEvent:
		r.action("deal player %s", strings.Join(notation(e.Player), " "))
		r.action("deal dealer %s", strings.Join(notation(e.Dealer), " "))

	case game.PlayerActionEvent:
		if e.Action == game.DoubleDown && r.current != nil {
			r.current.DoubledDown = true
		}
		switch {
		case e.Forced:
			// implied by the double down
		case e.Drawn != nil:
			r.action("player %s %s", verb(e.Action), e.Drawn.Notation())
		default:
			r.action("player %s", verb(e.Action))
		}

	case game.DealerTurnEvent:
		if e.Revealed && len(e.Hand) > 1 {
			r.action("dealer reveal %s", e.Hand[1].Notation())
		}

	case game.DealerDrawEvent:
		r.action("dealer hit %s", e.Drawn.Notation())

	case game.RoundEndEvent:
		r.finishRound(e)

	case game.GameOverEvent:
		r.finishSession(e)
	}
}

func (r *Recorder) start(event game.GameEvent) {
	at := event.Timestamp()
	r.session.Started = at
	r.session.Time = at.Format("15:04:05")
	r.session.TimeZone = at.Location().String()
	r.session.Day = at.Day()
	r.session.Month = int(at.Month())
	r.session.Year = at.Year()

	id, err := NewSessionID(at, r.random)
	if err != nil {
		r.logger.Warn("Failed to generate session ID", "error", err)
		return
	}
	r.session.ID = id
}

func (r *Recorder) action(format string, args ...any) {
	if r.current == nil {
		return
	}
	r.current.Actions = append(r.current.Actions, fmt.Sprintf(format, args...))
}

func (r *Recorder) finishRound(e game.RoundEndEvent) {
	if r.current == nil {
		r.current = &Round{Number: e.Round}
	}
	round := r.current
	round.Bet = e.Bet
	round.Player = notation(e.Player)
	round.Dealer = notation(e.Dealer)
	round.PlayerTotal = total(e.PlayerValue)
	round.DealerTotal = total(evaluator.EvaluateVisible(e.Dealer))
	round.Outcome = e.Outcome.String()
	round.Payout = e.Payout
	round.Bankroll = e.Bankroll

	r.session.Rounds = append(r.session.Rounds, *round)
	r.current = nil
}

func (r *Recorder) finishSession(e game.GameOverEvent) {
	stats := e.Stats
	pct, _ := stats.WinPercentage()

	r.session.FinishingBankroll = e.Bankroll
	r.session.Ended = string(e.Reason)
	r.session.DurationSeconds = e.Duration.Seconds()
	r.session.Summary = Summary{
		Rounds:        stats.Rounds,
		Wins:          stats.Wins,
		Losses:        stats.Losses,
		Pushes:        stats.Pushes,
		WinPercentage: pct,
		Net:           stats.Net,
		Wagered:       stats.Wagered,
		DoubleDowns:   stats.DoubleDowns,
	}
	if r.session.StartingBankroll == 0 && len(r.session.Rounds) == 0 {
		r.session.StartingBankroll = e.Bankroll
	}
	r.done = true
	r.logger.Debug("Session recorded", "id", r.session.ID, "rounds", len(r.session.Rounds))
}

// Session returns a copy of what has been recorded so far
func (r *Recorder) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.session
	s.Rounds = append([]Round(nil), r.session.Rounds...)
	return s
}

// Done reports whether the session has ended
func (r *Recorder) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Save writes the recorded session to filename
func (r *Recorder) Save(filename string) error {
	s := r.Session()
	if err := Save(filename, &s); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	r.logger.Info("Saved session history", "file", filename, "rounds", len(s.Rounds))
	return nil
}

func notation(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		if c.FaceDown {
			out[i] = deck.FaceDownString
			continue
		}
		out[i] = c.Notation()
	}
	return out
}

func verb(a game.Action) string {
	switch a {
	case game.Hit:
		return "hit"
	case game.Stand:
		return "stand"
	case game.DoubleDown:
		return "double"
	default:
		return a.String()
	}
}

// total is the best total, or the lowest one for a bust
func total(v evaluator.Valuation) int {
	if v.Busted {
		return v.Min()
	}
	return v.Best
}
