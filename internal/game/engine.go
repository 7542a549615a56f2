package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/statistics"
)

const (
	// DefaultBankroll is the starting bankroll when none is given
	DefaultBankroll = 500

	// ReshuffleEvery is how often, in rounds, the deck is shuffled before dealing
	ReshuffleEvery = 6
)

// errSessionEnded signals that the prompter closed; Step turns it into GameOver
var errSessionEnded = errors.New("session ended by player")

// EngineOption configures an Engine during creation.
type EngineOption func(*engineConfig)

type engineConfig struct {
	bankroll int
	deck     *deck.Deck
	shuffler deck.Shuffler
	clock    quartz.Clock
	bus      EventBus
}

// WithBankroll sets the starting bankroll (default 500)
func WithBankroll(bankroll int) EngineOption {
	return func(c *engineConfig) { c.bankroll = bankroll }
}

// WithDeck plays with the given deck instead of a fresh 52-card deck
func WithDeck(d *deck.Deck) EngineOption {
	return func(c *engineConfig) { c.deck = d }
}

// WithShuffler sets the random source used by a fresh deck
func WithShuffler(s deck.Shuffler) EngineOption {
	return func(c *engineConfig) { c.shuffler = s }
}

// WithClock sets the clock used for event timestamps and session duration
func WithClock(clock quartz.Clock) EngineOption {
	return func(c *engineConfig) { c.clock = clock }
}

// WithEventBus publishes events on an existing bus
func WithEventBus(bus EventBus) EngineOption {
	return func(c *engineConfig) { c.bus = bus }
}

// Engine drives a blackjack session as an explicit state machine.
// Each call to Step performs one phase of the game; Run loops until the
// session is over. The engine is not safe for concurrent use.
type Engine struct {
	deck     *deck.Deck
	prompter Prompter
	bus      EventBus
	clock    quartz.Clock
	logger   *log.Logger

	phase     Phase
	session   Session
	mustStand bool
	startedAt time.Time
}

// NewEngine creates an engine in PhaseNewGame
func NewEngine(prompter Prompter, logger *log.Logger, opts ...EngineOption) *Engine {
	if prompter == nil {
		panic("prompter is required")
	}

	cfg := &engineConfig{
		bankroll: DefaultBankroll,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.deck == nil {
		cfg.deck = deck.NewDeck(cfg.shuffler)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Engine{
		deck:     cfg.deck,
		prompter: prompter,
		bus:      cfg.bus,
		clock:    cfg.clock,
		logger:   logger.WithPrefix("engine"),
		phase:    PhaseNewGame,
		session:  Session{Bankroll: cfg.bankroll},
	}
}

// EventBus returns the bus the engine publishes on
func (e *Engine) EventBus() EventBus {
	return e.bus
}

// Phase returns the phase the next Step will execute
func (e *Engine) Phase() Phase {
	return e.phase
}

// Snapshot returns a copy of the current session state
func (e *Engine) Snapshot() Snapshot {
	return e.session.snapshot(e.phase, e.deck.CardsRemaining())
}

// Run steps the state machine until the session ends or ctx is cancelled
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := e.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step executes the current phase and moves to the next one.
// It returns done once the session is over.
func (e *Engine) Step(ctx context.Context) (bool, error) {
	from := e.phase

	var err error
	switch e.phase {
	case PhaseNewGame:
		e.newGame()
	case PhaseNewRound:
		err = e.newRound(ctx)
	case PhasePlayersTurn:
		err = e.playersTurn(ctx)
	case PhaseDealersTurn:
		err = e.dealersTurn()
	case PhaseEndRound:
		err = e.endRound(ctx)
	case PhaseGameOver:
		return true, nil
	default:
		return false, fmt.Errorf("unknown phase %d", e.phase)
	}

	if errors.Is(err, errSessionEnded) {
		e.gameOver(GameOverInputClosed)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", from, err)
	}

	e.logger.Debug("Phase transition", "from", from, "to", e.phase, "round", e.session.Round)
	return e.phase == PhaseGameOver, nil
}

func (e *Engine) newGame() {
	e.startedAt = e.clock.Now()
	e.shuffle(ShuffleNewGame)
	e.logger.Info("New game", "bankroll", e.session.Bankroll)
	e.phase = PhaseNewRound
}

func (e *Engine) newRound(ctx context.Context) error {
	s := &e.session
	s.Round++

	pct, hasPct := s.Stats.WinPercentage()
	e.bus.Publish(RoundStartEvent{
		Round:         s.Round,
		Bankroll:      s.Bankroll,
		Wins:          s.Stats.Wins,
		Losses:        s.Stats.Losses,
		Pushes:        s.Stats.Pushes,
		WinPercentage: pct,
		HasWinRate:    hasPct,
		stamp:         e.stamp(),
	})

	if s.Round%ReshuffleEvery == 0 {
		e.shuffle(ShufflePeriodic)
	}

	e.recycle()

	if s.Bankroll <= 0 {
		e.logger.Info("Player is out of money", "round", s.Round)
		e.gameOver(GameOverBankrupt)
		return nil
	}

	bet, err := e.takeBet(ctx)
	if err != nil {
		return err
	}
	s.Bankroll -= bet
	s.Bet = bet
	e.logger.Info("Bet placed", "round", s.Round, "bet", bet, "bankroll", s.Bankroll)
	e.bus.Publish(BetPlacedEvent{Bet: bet, Bankroll: s.Bankroll, stamp: e.stamp()})

	// Dealer, player, dealer face down, player.
	for i := 0; i < 4; i++ {
		card, err := e.draw()
		if err != nil {
			return err
		}
		switch i {
		case 0:
			s.Dealer = append(s.Dealer, card)
		case 2:
			s.Dealer = append(s.Dealer, card.Hidden())
		default:
			s.Player = append(s.Player, card)
		}
	}

	e.bus.Publish(DealEvent{
		Player:        cloneCards(s.Player),
		Dealer:        cloneCards(s.Dealer),
		PlayerValue:   evaluator.Evaluate(s.Player),
		DealerVisible: evaluator.EvaluateVisible(s.Dealer),
		Bet:           s.Bet,
		Bankroll:      s.Bankroll,
		stamp:         e.stamp(),
	})

	e.phase = PhasePlayersTurn
	return nil
}

func (e *Engine) takeBet(ctx context.Context) (int, error) {
	s := &e.session
	for {
		line, err := e.ask(ctx, PromptRequest{
			Kind:     PromptBet,
			Message:  "How much would you like to bet? (integer value)",
			Bankroll: s.Bankroll,
		})
		if err != nil {
			return 0, err
		}

		bet, err := ParseBet(line, s.Bankroll)
		if err != nil {
			e.logger.Debug("Bet rejected", "input", line, "error", err)
			e.bus.Publish(BetRejectedEvent{Input: line, Err: err, Bankroll: s.Bankroll, stamp: e.stamp()})
			continue
		}
		return bet, nil
	}
}

func (e *Engine) playersTurn(ctx context.Context) error {
	s := &e.session

	if evaluator.Evaluate(s.Player).Busted {
		e.logger.Debug("Player busted", "hand", s.Player)
		e.mustStand = false
		e.phase = PhaseEndRound
		return nil
	}

	if e.mustStand {
		e.mustStand = false
		e.publishPlayerAction(Stand, true, nil)
		e.phase = PhaseDealersTurn
		return nil
	}

	canDouble := s.Bankroll >= s.Bet
	options := []Action{Hit, Stand}
	message := "Would you like to hit (h) or stand (s)?"
	if canDouble {
		options = append(options, DoubleDown)
		message = "Would you like to hit (h), stand (s), or double down (d)?"
	}

	var action Action
	for {
		line, err := e.ask(ctx, PromptRequest{
			Kind:     PromptAction,
			Message:  message,
			Options:  options,
			Bankroll: s.Bankroll,
			Bet:      s.Bet,
		})
		if err != nil {
			return err
		}
		var ok bool
		if action, ok = ParseAction(line, canDouble); ok {
			break
		}
		e.logger.Debug("Unrecognised action", "input", line, "canDouble", canDouble)
	}

	switch action {
	case Hit:
		card, err := e.draw()
		if err != nil {
			return err
		}
		s.Player = append(s.Player, card)
		e.publishPlayerAction(Hit, false, &card)

	case Stand:
		e.publishPlayerAction(Stand, false, nil)
		e.phase = PhaseDealersTurn

	case DoubleDown:
		s.Bankroll -= s.Bet
		s.Bet += s.Bet
		s.DoubledDown = true
		card, err := e.draw()
		if err != nil {
			return err
		}
		s.Player = append(s.Player, card)
		e.publishPlayerAction(DoubleDown, false, &card)
		e.shuffle(ShuffleDoubleDown)
		e.logger.Info("Double down", "bet", s.Bet, "bankroll", s.Bankroll)
		e.mustStand = true
	}
	return nil
}

func (e *Engine) publishPlayerAction(action Action, forced bool, drawn *deck.Card) {
	s := &e.session
	e.bus.Publish(PlayerActionEvent{
		Action:   action,
		Forced:   forced,
		Drawn:    drawn,
		Hand:     cloneCards(s.Player),
		Value:    evaluator.Evaluate(s.Player),
		Bet:      s.Bet,
		Bankroll: s.Bankroll,
		stamp:    e.stamp(),
	})
}

func (e *Engine) dealersTurn() error {
	s := &e.session

	revealed := false
	for i, c := range s.Dealer {
		if c.FaceDown {
			s.Dealer[i] = c.Revealed()
			revealed = true
		}
	}

	value := evaluator.Evaluate(s.Dealer)
	e.bus.Publish(DealerTurnEvent{
		Hand:     cloneCards(s.Dealer),
		Value:    value,
		Revealed: revealed,
		stamp:    e.stamp(),
	})

	if !value.DealerMustHit() {
		e.phase = PhaseEndRound
		return nil
	}

	card, err := e.draw()
	if err != nil {
		return err
	}
	s.Dealer = append(s.Dealer, card)
	e.bus.Publish(DealerDrawEvent{
		Drawn: card,
		Hand:  cloneCards(s.Dealer),
		Value: evaluator.Evaluate(s.Dealer),
		stamp: e.stamp(),
	})
	return nil
}

func (e *Engine) endRound(ctx context.Context) error {
	s := &e.session

	if s.Bet > 0 {
		e.settle()
	}

	for {
		line, err := e.ask(ctx, PromptRequest{
			Kind:     PromptContinue,
			Message:  "Do you want to play again? (y/n)",
			Bankroll: s.Bankroll,
		})
		if err != nil {
			return err
		}
		again, ok := ParseContinue(line)
		if !ok {
			continue
		}
		if again {
			e.phase = PhaseNewRound
		} else {
			e.gameOver(GameOverQuit)
		}
		return nil
	}
}

func (e *Engine) settle() {
	s := &e.session
	playerValue := evaluator.Evaluate(s.Player)
	dealerValue := evaluator.Evaluate(s.Dealer)

	outcome := Resolve(playerValue, dealerValue)
	payout := Payout(outcome, s.Bet)
	s.Bankroll += payout
	s.Stats.Add(statistics.RoundResult{
		Stake:        s.Bet,
		Net:          payout - s.Bet,
		DoubledDown:  s.DoubledDown,
		PlayerBusted: playerValue.Busted,
		DealerBusted: dealerValue.Busted,
	})

	e.logger.Info("Round settled",
		"round", s.Round,
		"outcome", outcome,
		"player", playerValue.Best,
		"dealer", dealerValue.Best,
		"bet", s.Bet,
		"payout", payout,
		"bankroll", s.Bankroll)

	e.bus.Publish(RoundEndEvent{
		Round:       s.Round,
		Outcome:     outcome,
		Bet:         s.Bet,
		Payout:      payout,
		Bankroll:    s.Bankroll,
		Player:      cloneCards(s.Player),
		Dealer:      cloneCards(s.Dealer),
		PlayerValue: playerValue,
		DealerValue: dealerValue,
		stamp:       e.stamp(),
	})

	s.Bet = 0
}

func (e *Engine) gameOver(reason GameOverReason) {
	s := &e.session
	stats := s.Stats
	stats.Values = append([]int(nil), s.Stats.Values...)

	var duration time.Duration
	if !e.startedAt.IsZero() {
		duration = e.clock.Since(e.startedAt)
	}

	if err := stats.Validate(); err != nil {
		e.logger.Error("Statistics out of balance", "error", err)
	}
	e.logger.Info("Game over", "reason", reason, "bankroll", s.Bankroll, "rounds", stats.Rounds)
	e.bus.Publish(GameOverEvent{
		Reason:   reason,
		Bankroll: s.Bankroll,
		Stats:    stats,
		Duration: duration,
		stamp:    e.stamp(),
	})
	e.phase = PhaseGameOver
}

// recycle returns both hands to the bottom of the deck, player's first
func (e *Engine) recycle() {
	s := &e.session
	if len(s.Player) == 0 && len(s.Dealer) == 0 {
		return
	}
	e.deck.PutBottom(append(cloneCards(s.Player), s.Dealer...)...)
	s.Player = s.Player[:0]
	s.Dealer = s.Dealer[:0]
	s.Bet = 0
	s.DoubledDown = false
}

func (e *Engine) shuffle(reason ShuffleReason) {
	e.deck.Shuffle()
	e.logger.Debug("Deck shuffled", "reason", reason, "cards", e.deck.CardsRemaining())
	e.bus.Publish(ShuffleEvent{
		Reason:         reason,
		Round:          e.session.Round,
		CardsRemaining: e.deck.CardsRemaining(),
		stamp:          e.stamp(),
	})
}

// draw takes the top card. An empty deck means the 52-card bookkeeping is
// broken, which is reported as an error rather than a user-facing message.
func (e *Engine) draw() (deck.Card, error) {
	card, err := e.deck.Draw()
	if err != nil {
		return deck.Card{}, fmt.Errorf("draw for round %d: %w", e.session.Round, err)
	}
	return card, nil
}

func (e *Engine) ask(ctx context.Context, req PromptRequest) (string, error) {
	line, err := e.prompter.Prompt(ctx, req)
	if errors.Is(err, io.EOF) || errors.Is(err, ErrQuit) {
		e.logger.Info("Input closed", "prompt", req.Kind, "error", err)
		return "", errSessionEnded
	}
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", req.Kind, err)
	}
	return line, nil
}

func (e *Engine) stamp() stamp {
	return stamp{at: e.clock.Now()}
}
