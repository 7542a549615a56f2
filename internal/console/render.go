package console

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/game"
)

const separator = "------------------------------"

// Renderer prints game events as plain lines of text.
// It implements game.EventSubscriber.
type Renderer struct {
	out    io.Writer
	styles *Styles
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, styles *Styles) *Renderer {
	if styles == nil {
		styles = NewStyles(out, false)
	}
	return &Renderer{out: out, styles: styles}
}

// OnEvent implements game.EventSubscriber
func (r *Renderer) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		r.roundStart(e)
	case game.ShuffleEvent:
		r.shuffle(e)
	case game.BetRejectedEvent:
		r.println(r.styles.Error.Render(BetRejection(e.Err)))
	case game.BetPlacedEvent:
		r.println(r.balance(e.Bankroll))
	case game.DealEvent:
		r.println(r.hand("Dealers hand:", e.Dealer))
		r.println(r.hand("Players hand:", e.Player))
	case game.PlayerActionEvent:
		r.playerAction(e)
	case game.DealerTurnEvent:
		if e.Revealed {
			r.println("")
			r.println(r.styles.Heading.Render("Dealers turn"))
		}
		r.println(r.hand("Dealers hand:", e.Hand))
	case game.DealerDrawEvent:
		r.println(r.styles.Info.Render("Dealer draws " + e.Drawn.String()))
	case game.RoundEndEvent:
		r.roundEnd(e)
	case game.GameOverEvent:
		r.gameOver(e)
	}
}

func (r *Renderer) roundStart(e game.RoundStartEvent) {
	r.println("")
	r.println(r.styles.Separator.Render(separator))
	r.println(r.styles.Heading.Render(fmt.Sprintf("Round %d", e.Round)))
	r.println(fmt.Sprintf("Wins: %d", e.Wins))
	r.println(fmt.Sprintf("Losses: %d", e.Losses))
	if e.Pushes > 0 {
		r.println(fmt.Sprintf("Pushes: %d", e.Pushes))
	}
	if e.HasWinRate {
		r.println(fmt.Sprintf("Win percentage: %.1f%%", e.WinPercentage))
	}
	r.println(r.balance(e.Bankroll))
}

func (r *Renderer) shuffle(e game.ShuffleEvent) {
	switch e.Reason {
	case game.ShufflePeriodic:
		r.println(r.styles.Warning.Render("Shuffling deck..."))
	case game.ShuffleDoubleDown:
		r.println(r.styles.Info.Render("Deck shuffled"))
	}
}

func (r *Renderer) playerAction(e game.PlayerActionEvent) {
	switch e.Action {
	case game.Hit:
		r.println("Hit")
		r.println(r.hand("Players hand:", e.Hand))
	case game.Stand:
		if e.Forced {
			r.println(r.styles.Info.Render("Standing after double down"))
		} else {
			r.println("Stand")
		}
	case game.DoubleDown:
		r.println(r.styles.Warning.Render("Double down"))
		r.println(fmt.Sprintf("Bet: $%d", e.Bet))
		r.println(r.balance(e.Bankroll))
		r.println(r.hand("Players hand:", e.Hand))
	}
}

func (r *Renderer) roundEnd(e game.RoundEndEvent) {
	r.println("")
	switch {
	case e.PlayerValue.Busted:
		r.println(r.styles.Error.Render("YOU BUSTED"))
	case e.DealerValue.Busted:
		r.println(r.styles.Success.Render("DEALER BUSTED"))
	}
	r.println(r.hand("Dealers hand:", e.Dealer))
	r.println(r.hand("Players hand:", e.Player))

	switch e.Outcome {
	case game.Win:
		r.println(r.styles.Success.Render(fmt.Sprintf("You win! +$%d", e.Payout-e.Bet)))
	case game.Push:
		r.println(r.styles.Warning.Render("Push. Your bet is returned"))
	default:
		r.println(r.styles.Error.Render(fmt.Sprintf("You lose! -$%d", e.Bet)))
	}
	r.println(r.balance(e.Bankroll))
}

func (r *Renderer) gameOver(e game.GameOverEvent) {
	r.println("")
	r.println(r.styles.Separator.Render(separator))
	if e.Reason == game.GameOverBankrupt {
		r.println(r.styles.Error.Render("You're out of money. Game over."))
	}
	r.println(e.Stats.Summary())
	if spread := e.Stats.Spread(); spread != "" {
		r.println(r.styles.Info.Render(spread))
	}
	if e.Duration > 0 {
		r.println(fmt.Sprintf("Played for %s", e.Duration.Round(time.Second)))
	}
	r.println(r.balance(e.Bankroll))
	r.println(r.styles.Title.Render("Goodbye!"))
}

func (r *Renderer) balance(bankroll int) string {
	return "Balance: " + r.styles.Money.Render(fmt.Sprintf("$%d", bankroll))
}

// hand shows only what the player can see, so a hidden hole card is not counted
func (r *Renderer) hand(label string, cards []deck.Card) string {
	value := evaluator.EvaluateVisible(cards)
	return fmt.Sprintf("%s %s %s", label, FormatCards(r.styles, cards), r.styles.Value.Render("("+value.String()+")"))
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}

// FormatCards renders a hand with red and black suits styled apart
func FormatCards(styles *Styles, cards []deck.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		switch {
		case c.FaceDown:
			parts = append(parts, styles.Hidden.Render(c.String()))
		case c.IsRed():
			parts = append(parts, styles.RedCard.Render(c.String()))
		default:
			parts = append(parts, styles.BlackCard.Render(c.String()))
		}
	}
	return strings.Join(parts, " ")
}

// BetRejection turns a bet validation error into a message for the player
func BetRejection(err error) string {
	switch {
	case errors.Is(err, game.ErrUnaffordableBet):
		return "Invalid input. You must enter something you can afford"
	case errors.Is(err, game.ErrNonPositiveBet):
		return "Invalid input. Your bet must be greater than zero"
	default:
		return "Invalid input. Please enter an integer"
	}
}
