package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult represents the outcome of a single blackjack round from the player's side
type RoundResult struct {
	Stake        int  // Total amount wagered, including any double down
	Net          int  // Bankroll change once the round settles: +stake, -stake or 0
	DoubledDown  bool // Player doubled down this round
	PlayerBusted bool // Player went over 21
	DealerBusted bool // Dealer went over 21
}

// Statistics tracks a player's results over a session
type Statistics struct {
	Rounds int
	Wins   int
	Losses int
	Pushes int

	Net     int     // Sum of all round nets
	SumNet2 float64 // Sum of squares for variance calculation
	Values  []int   // Every round's net, in play order

	Wagered       int // Total amount staked
	DoubleDowns   int
	DoubleDownNet int
	PlayerBusts   int
	DealerBusts   int

	BiggestWin  int
	BiggestLoss int // Stored as a positive amount
}

// Add incorporates a settled round into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.Net += net
	s.SumNet2 += float64(net) * float64(net)
	s.Values = append(s.Values, net)
	s.Wagered += result.Stake

	switch {
	case net > 0:
		s.Wins++
		if net > s.BiggestWin {
			s.BiggestWin = net
		}
	case net < 0:
		s.Losses++
		if -net > s.BiggestLoss {
			s.BiggestLoss = -net
		}
	default:
		s.Pushes++
	}

	if result.DoubledDown {
		s.DoubleDowns++
		s.DoubleDownNet += net
	}
	if result.PlayerBusted {
		s.PlayerBusts++
	}
	if result.DealerBusted {
		s.DealerBusts++
	}
}

// WinPercentage returns wins as a percentage of completed rounds, and false
// when no round has completed yet
func (s *Statistics) WinPercentage() (float64, bool) {
	if s.Rounds == 0 {
		return 0, false
	}
	return 100 * float64(s.Wins) / float64(s.Rounds), true
}

// Mean returns the average net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Net) / float64(s.Rounds)
}

// Variance returns the sample variance of round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of round results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median round result
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]int, len(s.Values))
	copy(sorted, s.Values)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return float64(sorted[n/2])
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("outcome mismatch: wins=%d losses=%d pushes=%d rounds=%d",
			s.Wins, s.Losses, s.Pushes, s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("recorded %d values for %d rounds", len(s.Values), s.Rounds)
	}
	sum := 0
	for _, v := range s.Values {
		sum += v
	}
	if sum != s.Net {
		return fmt.Errorf("ledger mismatch: net=%d, sum of rounds=%d", s.Net, sum)
	}
	return nil
}

// Summary returns a one-line human readable summary
func (s *Statistics) Summary() string {
	pct, ok := s.WinPercentage()
	if !ok {
		return "No rounds played"
	}
	return fmt.Sprintf("%d rounds: %d won, %d lost, %d pushed (%.1f%% wins), net %+d",
		s.Rounds, s.Wins, s.Losses, s.Pushes, pct, s.Net)
}

// Spread describes how round results were distributed, or "" with fewer
// than two rounds
func (s *Statistics) Spread() string {
	if s.Rounds < 2 {
		return ""
	}
	return fmt.Sprintf("Per round: mean %+.2f, median %+.1f, std dev %.2f (best %+d, worst %+d)",
		s.Mean(), s.Median(), s.StdDev(), s.BiggestWin, -s.BiggestLoss)
}
