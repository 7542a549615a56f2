package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/game"
)

// TUIModel represents the Bubble Tea model for the blackjack table
type TUIModel struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog      []string
	actionResult chan ActionResult
	quitSignal   chan bool
	quitting     bool
	focusedPane  int // 0 = log, 1 = input

	// Display state, driven by game events
	round      int
	bankroll   int
	bet        int
	wins       int
	losses     int
	pushes     int
	player     []deck.Card
	dealer     []deck.Card
	prompt     *game.PromptRequest
	gameOver   bool
	lastResult string

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode      bool
	capturedLog   []string               // For test assertions
	eventCallback func(eventType string) // Callback for test event synchronization
}

// ActionResult represents one line submitted by the player
type ActionResult struct {
	Input    string
	Continue bool // false when the player asked to quit
	Error    error
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// eventMsg carries a game event onto the Bubble Tea goroutine
type eventMsg struct {
	event game.GameEvent
}

// promptMsg tells the model the engine is waiting for input
type promptMsg struct {
	request game.PromptRequest
}

// NewTUIModel creates a new TUI model
func NewTUIModel(logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(logger *log.Logger, testMode bool) *TUIModel {
	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter your bet"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		logger:       logger.WithPrefix("tui"),
		logViewport:  vp,
		actionInput:  ti,
		gameLog:      []string{},
		actionResult: make(chan ActionResult, 1),
		quitSignal:   make(chan bool, 1),
		focusedPane:  1, // Start with input focused
		testMode:     testMode,
		capturedLog:  []string{},
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForQuit())
}

// listenForQuit returns a command that listens for quit signals
func (m *TUIModel) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case eventMsg:
		m.applyEvent(msg.event)
		m.notifyEventCallback(msg.event.EventType().String())
		return m, nil

	case promptMsg:
		req := msg.request
		m.prompt = &req
		m.notifyEventCallback("prompt")
		return m, nil

	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.submit(ActionResult{Continue: false})
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				if m.gameOver {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
				m.processAction(m.actionInput.Value())
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Always update viewport (for scrolling)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(1)).
		Width(atLeastOne(m.width - 2)).
		Height(atLeastOne(actionHeight)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := atLeastOne(m.height - actionHeight - 4)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = atLeastOne(m.width - sidebarWidth - 4)
	m.logViewport.Height = paneHeight

	// On first proper sizing, reset to top to avoid starting scrolled down
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoTop()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(0)).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *TUIModel) borderColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return lipgloss.Color("#04B575")
	}
	return lipgloss.Color("#626262")
}

func atLeastOne(n int) int {
	return max(n, 1)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane shows the bankroll and the running record
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(" Blackjack "))
	content.WriteString("\n\n")
	if m.round > 0 {
		content.WriteString(fmt.Sprintf("Round: %d\n", m.round))
	}
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: $%d", m.bankroll)))
	content.WriteString("\n")
	if m.bet > 0 {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%d", m.bet)))
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Record:"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  Wins: %d\n", m.wins))
	content.WriteString(fmt.Sprintf("  Losses: %d\n", m.losses))
	content.WriteString(fmt.Sprintf("  Pushes: %d\n", m.pushes))
	if played := m.wins + m.losses + m.pushes; played > 0 {
		content.WriteString(fmt.Sprintf("  Win rate: %.1f%%\n", float64(m.wins)/float64(played)*100))
	}
	if m.lastResult != "" {
		content.WriteString("\n")
		content.WriteString(m.lastResult)
	}

	return content.String()
}

// renderActionPane renders the hands, the options and the input field
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	if len(m.player) > 0 {
		content.WriteString(m.renderHandInfo())
		content.WriteString("\n")
	}

	switch {
	case m.gameOver:
		content.WriteString(HandInfoStyle.Render("Game over"))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Press Enter to exit"
	case m.prompt == nil:
		content.WriteString(HandInfoStyle.Render("Waiting..."))
		content.WriteString("\n")
	default:
		content.WriteString(m.renderAvailableActions())
		content.WriteString("\n")
		m.actionInput.Placeholder = placeholderFor(m.prompt.Kind)
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(HelpStyle.Render(
			"Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(HelpStyle.Render(
			"Tab to scroll log • Enter to submit • 'quit' or Ctrl+C to leave"))
	}

	return content.String()
}

func placeholderFor(kind game.PromptKind) string {
	switch kind {
	case game.PromptBet:
		return "Enter your bet"
	case game.PromptAction:
		return "h, s or d"
	default:
		return "y or n"
	}
}

// renderHandInfo renders both hands as the player can see them
func (m *TUIModel) renderHandInfo() string {
	return HandInfoStyle.Render(fmt.Sprintf("Dealer: %s  You: %s",
		m.formatHand(m.dealer), m.formatHand(m.player)))
}

// renderAvailableActions renders what the engine is currently asking for
func (m *TUIModel) renderAvailableActions() string {
	var actions []string

	switch m.prompt.Kind {
	case game.PromptBet:
		actions = append(actions, WarningStyle.Render(fmt.Sprintf("[bet 1-%d]", m.prompt.Bankroll)))
	case game.PromptAction:
		for _, a := range m.prompt.Options {
			switch a {
			case game.Hit:
				actions = append(actions, SuccessStyle.Render("[h]it"))
			case game.Stand:
				actions = append(actions, ErrorStyle.Render("[s]tand"))
			case game.DoubleDown:
				actions = append(actions, WarningStyle.Render(fmt.Sprintf("[d]ouble to $%d", 2*m.prompt.Bet)))
			}
		}
	case game.PromptContinue:
		actions = append(actions, SuccessStyle.Render("[y]es"), ErrorStyle.Render("[n]o"))
	}

	return ActionsStyle.Render(m.prompt.Message + "  " + strings.Join(actions, " "))
}

// formatCards formats cards with colors
func (m *TUIModel) formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	var formatted []string
	for _, card := range cards {
		switch {
		case card.FaceDown:
			formatted = append(formatted, HiddenCardStyle.Render(card.String()))
		case card.IsRed():
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}

	return "[" + strings.Join(formatted, " ") + "]"
}

// formatHand formats cards followed by their visible value
func (m *TUIModel) formatHand(cards []deck.Card) string {
	return fmt.Sprintf("%s (%s)", m.formatCards(cards), evaluator.EvaluateVisible(cards))
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddLogEntryAndScrollToShow adds an entry and scrolls to show it at the top
func (m *TUIModel) AddLogEntryAndScrollToShow(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.SetYOffset(len(m.gameLog) - 1)
	}
}

// processAction hands a submitted line to whoever is waiting in WaitForAction
func (m *TUIModel) processAction(input string) {
	input = strings.TrimSpace(input)
	if m.prompt == nil {
		m.logger.Debug("Ignoring input while no prompt is open", "input", input)
		return
	}

	if strings.EqualFold(input, "quit") {
		m.submit(ActionResult{Continue: false})
		return
	}
	if input != "" {
		m.AddLogEntry(InfoStyle.Render("> " + input))
	}
	m.submit(ActionResult{Input: input, Continue: true})
}

func (m *TUIModel) submit(result ActionResult) {
	select {
	case m.actionResult <- result:
		m.prompt = nil
	default:
		m.logger.Debug("Action channel full, dropping input", "input", result.Input)
	}
}

// WaitForAction blocks until the player submits a line or ctx is done
func (m *TUIModel) WaitForAction(ctx context.Context) (string, bool, error) {
	select {
	case result := <-m.actionResult:
		return result.Input, result.Continue, result.Error
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// SendQuitSignal signals the TUI to quit gracefully
func (m *TUIModel) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
		// Channel is full, quit signal already sent
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction programmatically submits a line (test mode only)
func (m *TUIModel) InjectAction(input string) error {
	if !m.testMode {
		return fmt.Errorf("action injection only available in test mode")
	}

	select {
	case m.actionResult <- ActionResult{
		Input:    input,
		Continue: !strings.EqualFold(strings.TrimSpace(input), "quit"),
	}:
		m.prompt = nil
		return nil
	default:
		return fmt.Errorf("action channel full")
	}
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// IsGameOver reports whether the session has finished
func (m *TUIModel) IsGameOver() bool {
	return m.gameOver
}

// SetEventCallback sets a callback function for test event synchronization
func (m *TUIModel) SetEventCallback(callback func(eventType string)) {
	if m.testMode {
		m.eventCallback = callback
	}
}

// notifyEventCallback calls the event callback if in test mode
func (m *TUIModel) notifyEventCallback(eventType string) {
	if m.testMode && m.eventCallback != nil {
		m.eventCallback(eventType)
	}
}
