package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/anatolia/engine"
	"github.com/nathoo/anatolia/engine/save"
	"github.com/nathoo/anatolia/engine/world"
	"github.com/nathoo/anatolia/session"
	"github.com/nathoo/anatolia/types"
)

// testDefs returns a two-region game for TUI testing.
func testDefs() *world.Defs {
	return &world.Defs{
		Game: types.GameDef{
			Title:  "Test Game",
			Width:  1,
			Height: 2,
			Start:  "hall",
			Intro:  "Welcome to the test.",
		},
		Locations: []types.LocationDef{
			{ID: "hall", Name: "Hall", Description: "A grand hall.", At: types.Coordinate{X: 0, Y: 0},
				Exits: map[string]string{"north": "garden"},
				NPC: &types.NPCDef{Name: "Gardener", Description: "Muddy boots.", Secret: "Seed",
					Topics: []types.TopicDef{{Keyword: "roses", Response: "Prune them in spring."}}}},
			{ID: "garden", Name: "Garden", Description: "A peaceful garden.", At: types.Coordinate{X: 0, Y: 1},
				Exits: map[string]string{"south": "hall"}},
		},
		Gates: map[string][]string{
			world.GateFinalBattle: {"Seed", "Trowel"},
			world.GateApocalypse:  {"Seed"},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	s := session.New(testDefs(), engine.Options{Store: save.NewStore(t.TempDir())})
	m := New(s)
	m = m.appendOutput(gameOutputMsg{lines: s.Start()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

// submit types input and presses Enter.
func submit(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(input)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func transcript(m Model) string {
	var b strings.Builder
	for _, rl := range m.rawLines {
		b.WriteString(rl.text)
		b.WriteByte('\n')
	}
	return b.String()
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"You are in Karadeniz Yaylalari", kindHeading},
		{"=== Your Status ===", kindHeading},
		{"THE END - Coward's Ending Achieved!", kindHeading},
		{"Available directions: east, west", kindDirections},
		{"Characters you can talk to: Ayse Teyze (Tea Master)", kindCharacters},
		{"You received: Ancient Tea Cup", kindReward},
		{"New Quest: Find the tea cup", kindReward},
		{"You have found the Sacred Olive Branch!", kindReward},
		{"[Game saved]", kindSystem},
		{"[trace] Events: 2", kindTrace},
		{"You cannot go that way.", kindError},
		{"There's no one here to talk to.", kindError},
		{"I don't understand that command. Type 'help' for a list of commands.", kindError},
		{"Error: Current location is invalid. Returning to main menu...", kindError},
		{"The dragon roars: 'Foolish mortal! You dare challenge me?'", kindDialogue},
		{"A land of green hills.", kindNarration},
		{"", kindNarration},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestContainsQuotedSpeech(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"'Welcome, traveler. Sit and drink with me.'", true},
		{"The dragon's wings and the fisherman's nets.", false}, // apostrophes only
		{"No quotes here.", false},
		{"'Hi'", false}, // too short
		{"She says 'the tea cup holds the truth.'", true},
	}
	for _, tt := range tests {
		got := containsQuotedSpeech(tt.line)
		if got != tt.want {
			t.Errorf("containsQuotedSpeech(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestDirectionList(t *testing.T) {
	got := directionList([]string{"east", "north", "west"})
	if got != "East, North, West" {
		t.Errorf("directionList = %q", got)
	}
	if got := directionList(nil); got != "" {
		t.Errorf("directionList(nil) = %q, want empty", got)
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")
	h.Push("explore")

	for _, want := range []string{"explore", "go north", "look", "look"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_SkipsRepeatsAndBlanks(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look")
	h.Push("   ")

	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev()
	h.Prev()
	h.ResetCursor()

	prev, ok := h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north' after reset, got %q", prev)
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)

	if _, quit := m.handleMeta("/quit"); !quit {
		t.Error("expected quit=true for /quit")
	}
	if _, quit := m.handleMeta("/exit"); !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}
	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/quit", "/state", "talk", "explore", "save"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/state")
	if !strings.Contains(strings.Join(output, "\n"), "No game in progress (main_menu)") {
		t.Errorf("expected menu notice, got %v", output)
	}

	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "Tester")
	output, _ = m.handleMeta("/state")
	joined := strings.Join(output, "\n")
	for _, want := range []string{"Turn: 0", "Mode: exploring", "Name: Tester", "Location: Hall"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in state output:\n%s", want, joined)
		}
	}
}

func TestEnter_MenuToPlay(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "1")
	if m.input.Prompt != "Enter your name, traveler: " {
		t.Errorf("prompt = %q", m.input.Prompt)
	}
	m, _ = submit(t, m, "Tester")
	m, _ = submit(t, m, "north")

	out := transcript(m)
	for _, want := range []string{"Welcome to the test.", "Welcome, Tester!", "You are in Garden"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in transcript:\n%s", want, out)
		}
	}
	if m.history.Len() != 1 {
		t.Errorf("history holds %d entries, want only in-game commands", m.history.Len())
	}
}

func TestEnter_EmptyInputIgnoredWhilePlaying(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "Tester")

	before := len(m.rawLines)
	m, _ = submit(t, m, "   ")
	if len(m.rawLines) != before {
		t.Error("empty input should not produce output")
	}
}

func TestEnter_Again(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "Tester")

	m, _ = submit(t, m, "again")
	if !strings.Contains(transcript(m), "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat.'")
	}

	m, _ = submit(t, m, "look")
	m, _ = submit(t, m, "g")
	if n := strings.Count(transcript(m), "A grand hall."); n != 3 {
		t.Errorf("expected 3 descriptions, got %d", n)
	}
}

func TestEnter_ClearResetsTranscript(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "Tester")
	m, _ = submit(t, m, "clear")

	if strings.Contains(transcript(m), "Welcome, Tester!") {
		t.Error("expected earlier output to be cleared")
	}
}

func TestEnter_ExitQuitsProgram(t *testing.T) {
	m := newTestModel(t)
	m, cmd := submit(t, m, "4")

	if !m.quitting || cmd == nil {
		t.Fatal("expected the program to quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestStatusBar(t *testing.T) {
	m := newTestModel(t)
	left, right := m.statusText()
	if !strings.Contains(left, "Test Game") || !strings.Contains(right, "Main Menu") {
		t.Errorf("menu status = %q / %q", left, right)
	}

	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "Tester")
	m, _ = submit(t, m, "talk")
	m, _ = submit(t, m, "secret object")

	left, right = m.statusText()
	if !strings.Contains(left, "Hall | North") || !strings.Contains(left, "Talking") {
		t.Errorf("left = %q", left)
	}
	if !strings.Contains(right, "Artifacts: 1/2") {
		t.Errorf("right = %q", right)
	}
}

func TestRefreshViewport_Wraps(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 12, Height: 10})
	m = next.(Model)
	m = m.appendOutput(gameOutputMsg{lines: []string{"the quick brown fox jumps over"}})

	if m.viewport.TotalLineCount() < 3 {
		t.Errorf("expected wrapped output, got %d lines", m.viewport.TotalLineCount())
	}
}
