package tui

import (
	"fmt"

	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/game"
)

// applyEvent updates the display state and writes the log lines for one event
func (m *TUIModel) applyEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		m.round = e.Round
		m.bankroll = e.Bankroll
		m.wins, m.losses, m.pushes = e.Wins, e.Losses, e.Pushes
		m.bet = 0
		m.player, m.dealer = nil, nil
		m.lastResult = ""
		m.AddLogEntry("")
		m.AddLogEntryAndScrollToShow(HeaderStyle.Render(fmt.Sprintf(" ROUND %d ", e.Round)))

	case game.ShuffleEvent:
		switch e.Reason {
		case game.ShufflePeriodic:
			m.AddLogEntry(WarningStyle.Render("Shuffling deck..."))
		case game.ShuffleDoubleDown:
			m.AddLogEntry(InfoStyle.Render("Deck shuffled"))
		default:
			m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("Fresh deck of %d cards shuffled", e.CardsRemaining)))
		}

	case game.BetRejectedEvent:
		m.AddLogEntry(ErrorStyle.Render(console.BetRejection(e.Err)))

	case game.BetPlacedEvent:
		m.bet = e.Bet
		m.bankroll = e.Bankroll
		m.AddLogEntry(fmt.Sprintf("You bet $%d", e.Bet))

	case game.DealEvent:
		m.player, m.dealer = e.Player, e.Dealer
		m.AddLogEntry(fmt.Sprintf("Dealer shows %s", m.formatHand(e.Dealer)))
		m.AddLogEntry(fmt.Sprintf("Dealt to you %s", m.formatHand(e.Player)))

	case game.PlayerActionEvent:
		m.player = e.Hand
		m.bet = e.Bet
		m.bankroll = e.Bankroll
		switch {
		case e.Action == game.Hit:
			m.AddLogEntry(fmt.Sprintf("You hit: %s", m.formatHand(e.Hand)))
		case e.Action == game.DoubleDown:
			m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("You double down to $%d", e.Bet)) +
				": " + m.formatHand(e.Hand))
		case e.Forced:
			m.AddLogEntry(fmt.Sprintf("You stand on %d after doubling down", e.Value.Best))
		default:
			m.AddLogEntry(fmt.Sprintf("You stand on %d", e.Value.Best))
		}

	case game.DealerTurnEvent:
		m.dealer = e.Hand
		if e.Revealed {
			m.AddLogEntry(fmt.Sprintf("Dealer reveals %s", m.formatHand(e.Hand)))
		}
		if !e.Value.Busted && !e.Value.DealerMustHit() {
			m.AddLogEntry(fmt.Sprintf("Dealer stands on %d", e.Value.Best))
		}

	case game.DealerDrawEvent:
		m.dealer = e.Hand
		m.AddLogEntry(fmt.Sprintf("Dealer hits: %s", m.formatHand(e.Hand)))

	case game.RoundEndEvent:
		m.player, m.dealer = e.Player, e.Dealer
		m.bankroll = e.Bankroll
		m.bet = 0
		switch {
		case e.PlayerValue.Busted:
			m.AddLogEntry(ErrorStyle.Render("YOU BUSTED"))
		case e.DealerValue.Busted:
			m.AddLogEntry(SuccessStyle.Render("DEALER BUSTED"))
		}
		switch e.Outcome {
		case game.Win:
			m.wins++
			m.lastResult = SuccessStyle.Render(fmt.Sprintf("Won $%d", e.Payout-e.Bet))
		case game.Push:
			m.pushes++
			m.lastResult = WarningStyle.Render("Push")
		default:
			m.losses++
			m.lastResult = ErrorStyle.Render(fmt.Sprintf("Lost $%d", e.Bet))
		}
		m.AddLogEntry(m.lastResult + fmt.Sprintf(" (balance $%d)", e.Bankroll))

	case game.GameOverEvent:
		m.gameOver = true
		m.prompt = nil
		m.bankroll = e.Bankroll
		m.AddLogEntry("")
		if e.Reason == game.GameOverBankrupt {
			m.AddLogEntry(ErrorStyle.Render("You're out of money. Game over."))
		}
		m.AddLogEntry(e.Stats.Summary())
		m.AddLogEntry(HeaderStyle.Render(" Goodbye! "))
	}
}
