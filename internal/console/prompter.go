package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lox/blackjack/internal/game"
)

// Prompter asks questions on out and reads one line of answer from in.
// It implements game.Prompter; end of input is reported as io.EOF.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	styles  *Styles
}

// NewPrompter creates a prompter reading lines from in
func NewPrompter(in io.Reader, out io.Writer, styles *Styles) *Prompter {
	if styles == nil {
		styles = NewStyles(out, false)
	}
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		styles:  styles,
	}
}

// Prompt implements game.Prompter. Typing "quit" leaves the game at once.
func (p *Prompter) Prompt(ctx context.Context, req game.PromptRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if req.Kind == game.PromptAction {
		fmt.Fprintln(p.out)
	}
	fmt.Fprintln(p.out, p.styles.Prompt.Render(req.Message))
	fmt.Fprint(p.out, "--> ")

	if !p.scanner.Scan() {
		fmt.Fprintln(p.out)
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}

	line := strings.TrimSpace(p.scanner.Text())
	if strings.EqualFold(line, "quit") {
		return "", game.ErrQuit
	}
	return line, nil
}
