package game

import (
	"context"
	"errors"
)

// ErrQuit is returned by a Prompter when the player wants to leave immediately
var ErrQuit = errors.New("player quit")

// PromptKind identifies what the engine is asking for
type PromptKind int

const (
	PromptBet PromptKind = iota
	PromptAction
	PromptContinue
)

// String returns the string representation of a prompt kind
func (k PromptKind) String() string {
	switch k {
	case PromptBet:
		return "bet"
	case PromptAction:
		return "action"
	case PromptContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// PromptRequest is a single question put to the player
type PromptRequest struct {
	Kind     PromptKind
	Message  string
	Options  []Action // Only set for PromptAction
	Bankroll int
	Bet      int
}

// Prompter supplies the player's responses.
// Prompt blocks until a line of input is available. Returning io.EOF or
// ErrQuit ends the session; the engine validates everything else itself and
// asks again when the response makes no sense.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (string, error)
}

// PrompterFunc adapts a function to the Prompter interface
type PrompterFunc func(ctx context.Context, req PromptRequest) (string, error)

// Prompt calls f
func (f PrompterFunc) Prompt(ctx context.Context, req PromptRequest) (string, error) {
	return f(ctx, req)
}
