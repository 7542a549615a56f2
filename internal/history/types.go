// Package history records a blackjack session round by round and saves it
// as a TOML document once the session is over.
package history

import "time"

// Variant identifies the game in a saved history
const Variant = "blackjack"

// Session is the saved record of one game
type Session struct {
	ID                string  `toml:"session"`
	Variant           string  `toml:"variant"`
	Seed              int64   `toml:"seed,omitempty"`
	StartingBankroll  int     `toml:"starting_bankroll"`
	FinishingBankroll int     `toml:"finishing_bankroll"`
	Ended             string  `toml:"ended,omitempty"`
	Time              string  `toml:"time,omitempty"`
	TimeZone          string  `toml:"time_zone,omitempty"`
	Day               int     `toml:"day,omitempty"`
	Month             int     `toml:"month,omitempty"`
	Year              int     `toml:"year,omitempty"`
	DurationSeconds   float64 `toml:"duration_seconds"`
	Summary           Summary `toml:"summary"`
	Rounds            []Round `toml:"rounds,omitempty"`

	Started time.Time `toml:"-"`
}

// Summary mirrors the statistics shown at the end of a session
type Summary struct {
	Rounds        int     `toml:"rounds"`
	Wins          int     `toml:"wins"`
	Losses        int     `toml:"losses"`
	Pushes        int     `toml:"pushes"`
	WinPercentage float64 `toml:"win_percentage"`
	Net           int     `toml:"net"`
	Wagered       int     `toml:"wagered"`
	DoubleDowns   int     `toml:"double_downs"`
}

// Round is one settled round. Cards use two-character notation ("Th", "As")
// and a hole card the player never saw is written as "??".
type Round struct {
	Number      int      `toml:"round"`
	Bet         int      `toml:"bet"`
	DoubledDown bool     `toml:"doubled_down,omitempty"`
	Player      []string `toml:"player"`
	Dealer      []string `toml:"dealer"`
	PlayerTotal int      `toml:"player_total"`
	DealerTotal int      `toml:"dealer_total"`
	Actions     []string `toml:"actions"`
	Outcome     string   `toml:"outcome"`
	Payout      int      `toml:"payout"`
	Bankroll    int      `toml:"finishing_bankroll"`
}
