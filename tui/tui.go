// Package tui provides a Bubble Tea terminal UI for the game.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/anatolia/session"
	"github.com/nathoo/anatolia/types"
)

// rawLine is an output line kept unwrapped so a resize can re-wrap it.
type rawLine struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for the game TUI.
type Model struct {
	session *session.Controller

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the session into the Update loop.
type gameOutputMsg struct {
	input string   // echoed player input (empty for the opening screen)
	lines []string // output lines
	meta  bool     // output of a /command
}

// New creates a TUI model wired to the given session.
func New(s *session.Controller) Model {
	ti := textinput.New()
	ti.Prompt = s.Prompt()
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: s,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(s *session.Controller) error {
	m := New(s)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the main menu.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		return gameOutputMsg{lines: m.session.Start()}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize fits the viewport above the status bar and input line.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1)

	if m.ready {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	} else {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	}
	m.refreshViewport()
}

// handleKey covers the keys the model owns. Anything else goes to the
// text input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit, true
	case "enter":
		next, cmd := m.handleEnter()
		return next, cmd, true
	case "up":
		if prev, ok := m.history.Prev(); ok {
			m.recall(prev)
		}
		return m, nil, true
	case "down":
		next, _ := m.history.Next()
		m.recall(next)
		return m, nil, true
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) recall(cmd string) {
	m.input.SetValue(cmd)
	m.input.CursorEnd()
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.history.ResetCursor()

	playing := m.session.State() == session.Playing
	if input == "" && playing {
		return m, nil
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		m.history.Push(input)
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, meta: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if playing {
		m.history.Push(input)
		cmd, ok := m.repeat(input)
		if !ok {
			m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"Nothing to repeat."}, meta: true})
			return m, nil
		}
		input = cmd
	}

	output := m.session.Handle(input)
	if m.session.Cleared() {
		m.rawLines = nil
	}
	if playing && m.trace {
		output = append(output, formatTrace(m.session.Last())...)
	}
	m.input.Prompt = m.session.Prompt()
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})

	if m.session.Done() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// repeat expands "again"/"g" to the previous game command and remembers
// anything else. It reports false when there is nothing to repeat.
func (m *Model) repeat(input string) (string, bool) {
	switch strings.ToLower(input) {
	case "again", "g":
		return m.lastCmd, m.lastCmd != ""
	}
	m.lastCmd = input
	return input, true
}

// appendOutput adds the echoed input and its output to the transcript.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, kind: kindInput})
	}
	for _, line := range msg.lines {
		kind := kindMeta
		if !msg.meta {
			kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rawLine{text: line, kind: kind})
	}
	m.rawLines = append(m.rawLines, rawLine{}) // turn separator

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles the transcript at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)

	styled := make([]string, len(m.rawLines))
	for i, rl := range m.rawLines {
		if rl.text != "" {
			styled[i] = renderLineKind(wordwrap.String(rl.text, width), rl.kind)
		}
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return cmdHelp(), false

	case "/state":
		return m.stateLines(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func cmdHelp() []string {
	return []string{
		"System:",
		"  /quit         — Exit immediately",
		"  /help         — Show this help",
		"  /state        — Show session and player state",
		"  /trace        — Toggle debug trace output",
		"",
		"Game commands:",
		"  go <dir> (n/s/e/w)  — Move to a neighbouring region",
		"  talk                — Talk to the local character",
		"  explore             — Search the region for its relic",
		"  look (l) / map (m)  — Describe where you are",
		"  status (i)          — Wisdom, artifacts and quests",
		"  save [name]         — Save your progress",
		"  load [number]       — List or load saves",
		"  fight               — Confront the apocalypse",
		"  again (g)           — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

// stateLines summarises the session for /state.
func (m *Model) stateLines() []string {
	e := m.session.Engine()
	if e == nil {
		return []string{fmt.Sprintf("No game in progress (%s).", m.session.State())}
	}
	lines := []string{
		fmt.Sprintf("Session: %s", e.ID),
		fmt.Sprintf("Mode: %s", e.Mode()),
		fmt.Sprintf("Turn: %d", e.State.TurnCount),
	}
	return append(lines, e.Status().Output...)
}

func formatTrace(result types.Result) []string {
	var lines []string
	if result.Err != nil {
		lines = append(lines, fmt.Sprintf("[trace] Error: %v", result.Err))
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
