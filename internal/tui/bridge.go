package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// Bridge connects a game engine to the TUI model.
// It subscribes to the engine's events and answers its prompts with
// whatever the player types into the model's input field.
type Bridge struct {
	tui     *TUIModel
	program *tea.Program
	logger  *log.Logger
}

// NewBridge creates a new bridge. Until a program is attached, messages are
// applied to the model directly, which is how test mode drives it.
func NewBridge(tui *TUIModel, logger *log.Logger) *Bridge {
	return &Bridge{
		tui:    tui,
		logger: logger.WithPrefix("bridge"),
	}
}

// Attach routes all further updates through a running Bubble Tea program
func (b *Bridge) Attach(program *tea.Program) {
	b.program = program
}

// OnEvent implements game.EventSubscriber
func (b *Bridge) OnEvent(event game.GameEvent) {
	b.send(eventMsg{event: event})
}

// Prompt implements game.Prompter
func (b *Bridge) Prompt(ctx context.Context, req game.PromptRequest) (string, error) {
	b.send(promptMsg{request: req})

	input, cont, err := b.tui.WaitForAction(ctx)
	if err != nil {
		return "", fmt.Errorf("wait for %s: %w", req.Kind, err)
	}
	if !cont {
		b.logger.Debug("Player quit", "prompt", req.Kind)
		return "", game.ErrQuit
	}
	return input, nil
}

func (b *Bridge) send(msg tea.Msg) {
	if b.program != nil {
		b.program.Send(msg)
		return
	}
	b.tui.Update(msg)
}
