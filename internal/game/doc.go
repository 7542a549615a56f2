// Package game implements single-player blackjack against an automated dealer.
//
// The main type is Engine, an explicit state machine that moves a Session
// through its phases one Step at a time:
//
//	NewGame -> NewRound -> PlayersTurn -> DealersTurn -> EndRound -> NewRound ...
//
// The engine never reads or writes text itself. Input comes from an injected
// Prompter and everything that happens is published as a GameEvent on an
// EventBus, so a front end only has to answer prompts and render events.
//
// # Basic Usage
//
//	engine := game.NewEngine(prompter, logger,
//	    game.WithBankroll(500),
//	    game.WithShuffler(randutil.New(seed)))
//	engine.EventBus().Subscribe(renderer)
//	if err := engine.Run(ctx); err != nil {
//	    return err
//	}
//
// # Deterministic Testing
//
// Supply a stacked deck and a scripted prompter to drive a round exactly:
//
//	d, _ := deck.NewStackedFullDeck(nil, deck.MustParseCards("9hTs6d7c4s"))
//	engine := game.NewEngine(script("100", "s", "n"), logger, game.WithDeck(d))
//
// A nil shuffler leaves the deck order untouched, so the cards come out in
// the order given: dealer, player, dealer (face down), player, then hits.
//
// # House Rules
//
// Dealer stands on hard 17 and hits soft 17. The deck is reshuffled when the
// game starts, every sixth round, and straight after a double down. Used
// cards go back to the bottom of the deck between rounds, so all 52 cards
// stay in play for the whole session.
package game
