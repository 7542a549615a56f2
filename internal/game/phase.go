package game

// Phase represents the current phase of the game state machine.
type Phase int

const (
	PhaseNewGame     Phase = iota // deck not yet shuffled
	PhaseNewRound                 // collecting the bet and dealing
	PhasePlayersTurn              // player hits, stands or doubles down
	PhaseDealersTurn              // dealer draws to 17
	PhaseEndRound                 // settling and asking to play again
	PhaseGameOver                 // session finished
)

var phaseNames = map[Phase]string{
	PhaseNewGame:     "NewGame",
	PhaseNewRound:    "NewRound",
	PhasePlayersTurn: "PlayersTurn",
	PhaseDealersTurn: "DealersTurn",
	PhaseEndRound:    "EndRound",
	PhaseGameOver:    "GameOver",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}
