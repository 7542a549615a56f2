package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// Run starts a session with the settings from the config file and flags
func (c *CLI) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger, err := newLogger(logFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	if c.Bankroll != "" {
		bankroll, err := parseBankroll(c.Bankroll)
		if err != nil {
			logger.Warn("Ignoring bankroll argument", "arg", c.Bankroll, "error", err, "default", game.DefaultBankroll)
			fmt.Fprintf(os.Stderr, "Invalid bankroll %q, starting with $%d\n", c.Bankroll, game.DefaultBankroll)
			bankroll = game.DefaultBankroll
		}
		cfg.Session.Bankroll = bankroll
	}

	seed := randutil.Resolve(cfg.Session.Seed, time.Now())
	logger.Info("Starting session",
		"version", version,
		"bankroll", cfg.Session.Bankroll,
		"seed", seed,
		"mode", cfg.UI.Mode)

	bus := game.NewEventBus()
	opts := []game.EngineOption{
		game.WithBankroll(cfg.Session.Bankroll),
		game.WithShuffler(randutil.New(seed)),
		game.WithEventBus(bus),
	}

	var recorder *history.Recorder
	if cfg.Session.History != "" {
		recorder = history.NewRecorder(seed, nil, logger)
		bus.Subscribe(recorder)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UI.Mode == config.ModeTUI {
		err = runTUI(ctx, os.Stdout, logger, cfg.ColorEnabled(), opts)
	} else {
		err = runConsole(ctx, os.Stdin, os.Stdout, logger, cfg.ColorEnabled(), opts)
	}
	if err != nil {
		return err
	}

	if recorder != nil && recorder.Done() {
		return recorder.Save(cfg.Session.History)
	}
	return nil
}

// applyOverrides layers command line flags over the file configuration
func (c *CLI) applyOverrides(cfg *config.Config) {
	if c.Seed != 0 {
		cfg.Session.Seed = c.Seed
	}
	if c.TUI {
		cfg.UI.Mode = config.ModeTUI
	}
	if c.NoColor {
		color := false
		cfg.UI.Color = &color
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}
	if c.History != "" {
		cfg.Session.History = c.History
	}
	if c.Debug {
		cfg.UI.LogLevel = "debug"
	}
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
		Level:           lvl,
	}), nil
}

// parseBankroll accepts a positive whole number of dollars
func parseBankroll(arg string) (int, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount != math.Trunc(amount) {
		return 0, fmt.Errorf("%v is not a whole number", amount)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("bankroll must be positive")
	}
	if amount > math.MaxInt32 {
		return 0, fmt.Errorf("bankroll %v is too large", amount)
	}
	return int(amount), nil
}

func runConsole(ctx context.Context, in io.Reader, out io.Writer, logger *log.Logger, color bool, opts []game.EngineOption) error {
	styles := console.NewStyles(out, color)
	fmt.Fprintln(out, styles.Title.Render(" ♠ ♥ Blackjack ♦ ♣ "))

	engine := game.NewEngine(console.NewPrompter(in, out, styles), logger, opts...)
	engine.EventBus().Subscribe(console.NewRenderer(out, styles))

	err := engine.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("Interrupted")
		return nil
	}
	return err
}

// runTUI runs the engine and the Bubble Tea program side by side.
// Whichever finishes first with an error stops the other.
func runTUI(ctx context.Context, out io.Writer, logger *log.Logger, color bool, opts []game.EngineOption) error {
	if !color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	model := tui.NewTUIModel(logger)
	bridge := tui.NewBridge(model, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	bridge.Attach(program)

	engine := game.NewEngine(bridge, logger, opts...)
	engine.EventBus().Subscribe(bridge)

	var final *game.GameOverEvent
	engine.EventBus().Subscribe(game.SubscriberFunc(func(event game.GameEvent) {
		if over, ok := event.(game.GameOverEvent); ok {
			final = &over
		}
	}))

	g.Go(func() error {
		err := engine.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			model.SendQuitSignal()
		}
		return err
	})
	g.Go(func() error {
		// The engine may be waiting on input nobody will give once the UI is gone
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if final != nil {
		console.NewRenderer(out, console.NewStyles(out, color)).OnEvent(*final)
	}
	return nil
}
