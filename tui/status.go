package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/anatolia/engine"
)

var titleCase = cases.Title(language.English)

// directionList title-cases exit labels for display: "east,west" -> "East, West".
func directionList(exits []string) string {
	names := make([]string, len(exits))
	for i, dir := range exits {
		names[i] = titleCase.String(dir)
	}
	return strings.Join(names, ", ")
}

// renderStatusBar produces a full-width inverted status line. While playing
// it shows the region, its directions, wisdom, artifacts and the turn count;
// otherwise it names the current screen.
func (m Model) renderStatusBar() string {
	left, right := m.statusText()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

func (m Model) statusText() (string, string) {
	e := m.session.Engine()
	if e == nil || e.Mode() == engine.ModeOver {
		return " " + m.session.Title(), titleCase.String(strings.ReplaceAll(m.session.State().String(), "_", " ")) + " "
	}

	p := e.Player()
	left := " ?"
	if p.Location != nil {
		left = fmt.Sprintf(" %s | %s", p.Location.Name, directionList(p.Location.Exits()))
	}

	switch e.Mode() {
	case engine.ModeConversing:
		left += " | Talking"
	case engine.ModeBattle:
		left += " | Battle!"
	}

	held, total := e.ArtifactProgress()
	right := fmt.Sprintf("Wisdom: %d | Artifacts: %d/%d | T:%d ", p.Wisdom, held, total, e.State.TurnCount)
	if lipgloss.Width(left)+lipgloss.Width(right)+2 >= m.width {
		right = fmt.Sprintf("W:%d A:%d/%d T:%d ", p.Wisdom, held, total, e.State.TurnCount)
	}
	return left, right
}
