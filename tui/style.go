package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleDirections = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleCharacters = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindHeading
	kindDirections
	kindCharacters
	kindReward
	kindDialogue
	kindSystem
	kindError
	kindTrace
	kindInput // echoed player input
	kindMeta  // output of a /command
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "===") && strings.HasSuffix(line, "==="),
		strings.HasPrefix(line, "You are in "),
		strings.HasPrefix(line, "THE END"):
		return kindHeading
	case strings.HasPrefix(line, "Available directions:"):
		return kindDirections
	case strings.HasPrefix(line, "Characters you can talk to:"):
		return kindCharacters
	case strings.HasPrefix(line, "You received:"),
		strings.HasPrefix(line, "You have found the"),
		strings.HasPrefix(line, "New Quest:"):
		return kindReward
	case strings.HasPrefix(line, "You cannot"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "There's no one"),
		strings.HasPrefix(line, "Error"),
		strings.HasPrefix(line, "Save failed"),
		strings.HasPrefix(line, "Invalid choice"),
		strings.HasPrefix(line, "That's not a valid choice"):
		return kindError
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindNarration
	}
}

// containsQuotedSpeech reports whether a line carries a spoken phrase in
// single quotes. Apostrophes inside words ("dragon's") are not quotes.
func containsQuotedSpeech(line string) bool {
	runes := []rune(line)
	open := -1
	for i, r := range runes {
		if r != '\'' {
			continue
		}
		prevLetter := i > 0 && isLetter(runes[i-1])
		nextLetter := i+1 < len(runes) && isLetter(runes[i+1])
		if prevLetter && nextLetter {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		if i-open-1 > 5 {
			return true
		}
		open = -1
	}
	return false
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// renderLineKind applies the style for kind to an already wrapped line.
func renderLineKind(text string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(text)
	case kindDirections:
		return styledLabel(text, styleDirections)
	case kindCharacters:
		return styledLabel(text, styleCharacters)
	case kindReward:
		return styleReward.Render(text)
	case kindDialogue:
		return styleDialogue.Render(text)
	case kindSystem:
		return styleSystem.Render(text)
	case kindError:
		return styleError.Render(text)
	case kindTrace:
		return styleTrace.Render(text)
	case kindInput:
		return stylePlayerInput.Render(text)
	case kindMeta:
		return styledSystemMsg(text)
	default:
		return styleNarration.Render(text)
	}
}

// styledLabel renders "Label: values" with the values in style.
func styledLabel(line string, style lipgloss.Style) string {
	label, rest, ok := strings.Cut(line, ":")
	if !ok {
		return style.Render(line)
	}
	return styleNarration.Render(label+":") + style.Render(rest)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
