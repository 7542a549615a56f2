package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func TestDealerHitsToNineteenAndWins(t *testing.T) {
	// Dealer 9 and hidden 6, player 10+7. Dealer draws a 4.
	tt := newTestTable(t, "9hTs6d7c4s", 500, "100", "s", "n")
	tt.run(t)

	snap := tt.engine.Snapshot()
	assert.Equal(t, PhaseGameOver, snap.Phase)
	assert.Equal(t, 400, snap.Bankroll)
	assert.Equal(t, 1, snap.Losses)
	assert.Equal(t, 0, snap.Wins)

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Loss, end.Outcome)
	assert.Equal(t, 17, end.PlayerValue.Best)
	assert.Equal(t, 19, end.DealerValue.Best)
	assert.Equal(t, 100, end.Bet)
	assert.Equal(t, 0, end.Payout)

	assert.Equal(t, []EventType{
		EventTypeShuffle,
		EventTypeRoundStart,
		EventTypeBetPlaced,
		EventTypeDeal,
		EventTypePlayerAction,
		EventTypeDealerTurn,
		EventTypeDealerDraw,
		EventTypeDealerTurn,
		EventTypeRoundEnd,
		EventTypeGameOver,
	}, tt.events.types())

	turns := eventsOf[DealerTurnEvent](tt.events)
	require.Len(t, turns, 2)
	assert.True(t, turns[0].Revealed)
	assert.Equal(t, 15, turns[0].Value.Best)
	assert.False(t, turns[1].Revealed)
	assert.Equal(t, 19, turns[1].Value.Best)

	over := lastEvent[GameOverEvent](t, tt.events)
	assert.Equal(t, GameOverQuit, over.Reason)
	assert.Equal(t, 400, over.Bankroll)
	assert.Equal(t, 1, over.Stats.Rounds)
}

func TestNaturalBeatsNineteen(t *testing.T) {
	// Dealer 10 and hidden 9, player Ace+King.
	tt := newTestTable(t, "TdAs9cKh", 500, "50", "s", "n")
	tt.run(t)

	snap := tt.engine.Snapshot()
	assert.Equal(t, 550, snap.Bankroll)
	assert.Equal(t, 1, snap.Wins)

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Win, end.Outcome)
	assert.Equal(t, 21, end.PlayerValue.Best)
	assert.False(t, end.PlayerValue.Busted)
	assert.Equal(t, 100, end.Payout)
}

func TestDealOrderAndHoleCard(t *testing.T) {
	tt := newTestTable(t, "9hTs6d7c", 500, "100")
	tt.stepUntil(t, PhasePlayersTurn)

	snap := tt.engine.Snapshot()
	assert.Equal(t, deck.MustParseCards("Ts7c"), snap.Player)
	require.Len(t, snap.Dealer, 2)
	assert.Equal(t, deck.NewCard(deck.Hearts, deck.Nine), snap.Dealer[0])
	assert.True(t, snap.Dealer[1].FaceDown, "dealer's second card is dealt face down")
	assert.True(t, snap.Dealer[1].SameAs(deck.NewCard(deck.Diamonds, deck.Six)))
	assert.Equal(t, 100, snap.Bet)
	assert.Equal(t, 400, snap.Bankroll)
	assert.Equal(t, 1, snap.Round)
	assert.Equal(t, deck.Size-4, snap.CardsRemaining)

	deal := lastEvent[DealEvent](t, tt.events)
	assert.Equal(t, 17, deal.PlayerValue.Best)
	assert.Equal(t, 9, deal.DealerVisible.Best, "hole card is not visible")
	assert.Equal(t, "??", deal.Dealer[1].String())
}

func TestDoubleDown(t *testing.T) {
	// Dealer 10 and hidden 7, player 5+6 doubles and draws a 9.
	tt := newTestTable(t, "Th5s7c6d9h", 500, "100", "d", "n")
	tt.stepUntil(t, PhasePlayersTurn)
	assert.Equal(t, 1, tt.shuffler.calls, "shuffled once at game start")

	done, err := tt.engine.Step(context.Background())
	require.NoError(t, err)
	require.False(t, done)

	snap := tt.engine.Snapshot()
	assert.Equal(t, 300, snap.Bankroll, "bet debited a second time")
	assert.Equal(t, 200, snap.Bet)
	assert.Len(t, snap.Player, 3, "exactly one card drawn")
	assert.True(t, snap.DoubledDown)
	assert.Equal(t, 2, tt.shuffler.calls, "deck shuffled after doubling")
	assert.Equal(t, PhasePlayersTurn, snap.Phase)

	// The player never gets another choice: the next step stands for them.
	done, err = tt.engine.Step(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	assert.Equal(t, PhaseDealersTurn, tt.engine.Phase())

	actions := eventsOf[PlayerActionEvent](tt.events)
	require.Len(t, actions, 2)
	assert.Equal(t, DoubleDown, actions[0].Action)
	require.NotNil(t, actions[0].Drawn)
	assert.Equal(t, deck.NewCard(deck.Hearts, deck.Nine), *actions[0].Drawn)
	assert.Equal(t, Stand, actions[1].Action)
	assert.True(t, actions[1].Forced)

	tt.run(t)
	assert.Equal(t, 1, tt.prompter.count(PromptAction))

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Win, end.Outcome)
	assert.Equal(t, 200, end.Bet)
	assert.Equal(t, 700, tt.engine.Snapshot().Bankroll)

	shuffles := eventsOf[ShuffleEvent](tt.events)
	require.Len(t, shuffles, 2)
	assert.Equal(t, ShuffleNewGame, shuffles[0].Reason)
	assert.Equal(t, ShuffleDoubleDown, shuffles[1].Reason)
}

func TestDoubleDownBustEndsRound(t *testing.T) {
	// Player 10+6 doubles into a King.
	tt := newTestTable(t, "9hTs8c6dKh", 500, "100", "d", "n")
	tt.run(t)

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Loss, end.Outcome)
	assert.True(t, end.PlayerValue.Busted)
	assert.Equal(t, 300, tt.engine.Snapshot().Bankroll)
	assert.Empty(t, eventsOf[DealerTurnEvent](tt.events), "dealer does not play after a player bust")
}

func TestDoubleDownOnlyWhenAffordable(t *testing.T) {
	// Betting the whole bankroll leaves nothing to double with; "d" is ignored.
	tt := newTestTable(t, "9hTs8c6d", 500, "500", "d", "double", "s", "n")
	tt.run(t)

	require.GreaterOrEqual(t, len(tt.prompter.requests), 2)
	action := tt.prompter.requests[1]
	assert.Equal(t, PromptAction, action.Kind)
	assert.Equal(t, []Action{Hit, Stand}, action.Options)
	assert.Equal(t, 3, tt.prompter.count(PromptAction))

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Loss, end.Outcome) // 16 against 17
	assert.Equal(t, 0, tt.engine.Snapshot().Bankroll)
}

func TestDealerSoftSeventeen(t *testing.T) {
	t.Run("hits soft 17", func(t *testing.T) {
		// Dealer Ace and hidden 6, player 10+8. Dealer draws a 2 for 19.
		tt := newTestTable(t, "AsTs6h8c2d", 500, "100", "s", "n")
		tt.run(t)

		draws := eventsOf[DealerDrawEvent](tt.events)
		require.Len(t, draws, 1)
		assert.Equal(t, deck.NewCard(deck.Diamonds, deck.Two), draws[0].Drawn)

		end := lastEvent[RoundEndEvent](t, tt.events)
		assert.Equal(t, 19, end.DealerValue.Best)
		assert.Equal(t, Loss, end.Outcome)
	})

	t.Run("stands on hard 17", func(t *testing.T) {
		tt := newTestTable(t, "ThTs7h8c", 500, "100", "s", "n")
		tt.run(t)

		assert.Empty(t, eventsOf[DealerDrawEvent](tt.events))
		end := lastEvent[RoundEndEvent](t, tt.events)
		assert.Equal(t, 17, end.DealerValue.Best)
		assert.Equal(t, Win, end.Outcome)
		assert.Equal(t, 600, tt.engine.Snapshot().Bankroll)
	})
}

func TestPushReturnsStake(t *testing.T) {
	tt := newTestTable(t, "ThTs8h8c", 500, "100", "s", "n")
	tt.run(t)

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Push, end.Outcome)
	assert.Equal(t, 100, end.Payout)

	snap := tt.engine.Snapshot()
	assert.Equal(t, 500, snap.Bankroll)
	assert.Equal(t, 0, snap.Wins)
	assert.Equal(t, 0, snap.Losses)
	assert.Equal(t, 1, snap.Pushes)
}

func TestPlayerBust(t *testing.T) {
	// Player 10+5 hits a King. The dealer never acts.
	tt := newTestTable(t, "ThTs7h5cKd", 500, "100", "hit", "n")
	tt.run(t)

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Loss, end.Outcome)
	assert.True(t, end.PlayerValue.Busted)
	assert.True(t, end.Dealer[1].FaceDown, "hole card stays down when the dealer does not play")
	assert.Empty(t, eventsOf[DealerTurnEvent](tt.events))
	assert.Equal(t, 400, tt.engine.Snapshot().Bankroll)
	assert.Equal(t, 1, tt.prompter.count(PromptAction))
}

func TestDealerBust(t *testing.T) {
	tt := newTestTable(t, "ThTs6h8cKd", 500, "100", "S", "N")
	tt.run(t)

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Win, end.Outcome)
	assert.True(t, end.DealerValue.Busted)
	assert.Equal(t, 600, tt.engine.Snapshot().Bankroll)
}

func TestHitThenStand(t *testing.T) {
	tt := newTestTable(t, "ThTs7h2c5d", 500, "100", "h", "s", "n")
	tt.run(t)

	actions := eventsOf[PlayerActionEvent](tt.events)
	require.Len(t, actions, 2)
	assert.Equal(t, Hit, actions[0].Action)
	assert.Equal(t, 17, actions[0].Value.Best)
	assert.Equal(t, Stand, actions[1].Action)
	assert.False(t, actions[1].Forced)

	end := lastEvent[RoundEndEvent](t, tt.events)
	assert.Equal(t, Push, end.Outcome)
}

func TestBetValidation(t *testing.T) {
	tt := newTestTable(t, "ThTs8h8c", 500, "abc", "600", "0", "-5", "12.5", "", "100", "s", "n")
	tt.run(t)

	rejected := eventsOf[BetRejectedEvent](tt.events)
	require.Len(t, rejected, 6)
	assert.ErrorIs(t, rejected[0].Err, ErrMalformedBet)
	assert.ErrorIs(t, rejected[1].Err, ErrUnaffordableBet)
	assert.ErrorIs(t, rejected[2].Err, ErrNonPositiveBet)
	assert.ErrorIs(t, rejected[3].Err, ErrNonPositiveBet)
	assert.ErrorIs(t, rejected[4].Err, ErrMalformedBet)
	assert.ErrorIs(t, rejected[5].Err, ErrMalformedBet)

	for _, r := range rejected {
		assert.Equal(t, 500, r.Bankroll, "rejections leave the bankroll alone")
	}

	placed := lastEvent[BetPlacedEvent](t, tt.events)
	assert.Equal(t, 100, placed.Bet)
	assert.Equal(t, 400, placed.Bankroll)
}

func TestUnrecognisedInputIsReprompted(t *testing.T) {
	tt := newTestTable(t, "ThTs8h8c", 500, "100", "", "x", "  s  ", "maybe", "no")
	tt.run(t)

	assert.Equal(t, 3, tt.prompter.count(PromptAction))
	assert.Equal(t, 2, tt.prompter.count(PromptContinue))
	assert.Equal(t, PhaseGameOver, tt.engine.Phase())
}

func TestBankruptcyEndsSession(t *testing.T) {
	tt := newTestTable(t, "9hTs6d7c4s", 100, "100", "s", "y")
	tt.run(t)

	over := lastEvent[GameOverEvent](t, tt.events)
	assert.Equal(t, GameOverBankrupt, over.Reason)
	assert.Equal(t, 0, over.Bankroll)

	starts := eventsOf[RoundStartEvent](tt.events)
	require.Len(t, starts, 2)
	assert.Equal(t, 2, starts[1].Round)
	assert.Equal(t, 0, starts[1].Bankroll)
	assert.Equal(t, 1, tt.prompter.count(PromptBet), "no bet is asked for with an empty bankroll")
}

func TestRoundStartReportsWinRate(t *testing.T) {
	tt := newTestTable(t, "TdAs9cKh", 500, "50", "s", "y", "50", "s", "n")
	tt.run(t)

	starts := eventsOf[RoundStartEvent](tt.events)
	require.Len(t, starts, 2)
	assert.False(t, starts[0].HasWinRate)
	assert.True(t, starts[1].HasWinRate)
	assert.Equal(t, 1, starts[1].Wins)
	assert.InDelta(t, 100.0, starts[1].WinPercentage, 1e-9)
	assert.Equal(t, 550, starts[1].Bankroll)
}

func TestHandsAreRecycled(t *testing.T) {
	shuffler := &countingShuffler{}
	d, err := deck.NewStackedFullDeck(shuffler, deck.MustParseCards("9hTs6d7c4s"))
	require.NoError(t, err)

	var engine *Engine
	checked := false
	prompter := PrompterFunc(func(_ context.Context, req PromptRequest) (string, error) {
		snap := engine.Snapshot()
		switch req.Kind {
		case PromptBet:
			if snap.Round == 2 {
				// Both hands are back in the deck, face up, before the next deal.
				assert.Equal(t, 0, snap.CardsInPlay())
				requireFullDeck(t, engine.deck.Cards())
				bottom := engine.deck.Cards()[:5]
				assert.Equal(t, deck.MustParseCards("Ts7c9h6d4s"), bottom, "player's hand then dealer's hand")
				checked = true
				return "", ErrQuit
			}
			return "100", nil
		case PromptAction:
			return "s", nil
		default:
			return "y", nil
		}
	})

	engine = NewEngine(prompter, quietLogger(), WithDeck(d))
	require.NoError(t, engine.Run(context.Background()))
	assert.True(t, checked)
}

func TestPeriodicReshuffle(t *testing.T) {
	shuffler := &countingShuffler{}
	events := &eventRecorder{}

	var engine *Engine
	prompter := PrompterFunc(func(_ context.Context, req PromptRequest) (string, error) {
		switch req.Kind {
		case PromptBet:
			return "1", nil
		case PromptAction:
			return "s", nil
		default:
			if engine.Snapshot().Round >= 7 {
				return "n", nil
			}
			return "y", nil
		}
	})
	engine = NewEngine(prompter, quietLogger(), WithShuffler(shuffler))
	engine.EventBus().Subscribe(events)
	require.NoError(t, engine.Run(context.Background()))

	var periodic []ShuffleEvent
	for _, s := range eventsOf[ShuffleEvent](events) {
		if s.Reason == ShufflePeriodic {
			periodic = append(periodic, s)
		}
	}
	require.Len(t, periodic, 1)
	assert.Equal(t, 6, periodic[0].Round)
	assert.Equal(t, 2, shuffler.calls)
	assert.Len(t, eventsOf[RoundEndEvent](events), 7)
}

func TestInputClosed(t *testing.T) {
	tt := newTestTable(t, "9hTs6d7c", 500, "100")
	tt.run(t)

	over := lastEvent[GameOverEvent](t, tt.events)
	assert.Equal(t, GameOverInputClosed, over.Reason)
	assert.Equal(t, PhaseGameOver, tt.engine.Phase())

	done, err := tt.engine.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, done, "stepping a finished session is a no-op")
}

func TestPrompterErrorAborts(t *testing.T) {
	boom := errors.New("terminal went away")
	engine := NewEngine(PrompterFunc(func(context.Context, PromptRequest) (string, error) {
		return "", boom
	}), quietLogger())

	err := engine.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "NewRound")
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(script("100"), quietLogger())
	assert.ErrorIs(t, engine.Run(ctx), context.Canceled)
	assert.Equal(t, PhaseNewGame, engine.Phase())
}

func TestEmptyDeckIsAnError(t *testing.T) {
	d := deck.NewStackedDeck(nil, deck.MustParseCards("9hTs6d"))
	engine := NewEngine(script("100"), quietLogger(), WithDeck(d))

	err := engine.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, deck.ErrEmptyDeck)
}

func TestSessionDuration(t *testing.T) {
	tt := newTestTable(t, "ThTs8h8c", 500, "100", "s")
	tt.stepUntil(t, PhaseEndRound)
	tt.clock.Advance(10 * time.Minute).MustWait(context.Background())
	tt.run(t)

	over := lastEvent[GameOverEvent](t, tt.events)
	assert.Equal(t, GameOverInputClosed, over.Reason)
	assert.Equal(t, 10*time.Minute, over.Duration)
	assert.Equal(t, tt.clock.Now(), over.Timestamp())
}
