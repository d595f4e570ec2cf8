// Package engine provides the session Engine: it owns the map and the
// playthrough state and exposes one method per player command. Step parses
// raw input and dispatches through a fixed command table.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nathoo/anatolia/engine/dialogue"
	"github.com/nathoo/anatolia/engine/ending"
	"github.com/nathoo/anatolia/engine/events"
	"github.com/nathoo/anatolia/engine/parser"
	"github.com/nathoo/anatolia/engine/save"
	"github.com/nathoo/anatolia/engine/state"
	"github.com/nathoo/anatolia/engine/world"
	"github.com/nathoo/anatolia/logger"
	"github.com/nathoo/anatolia/types"
)

var (
	// ErrNoLocation is reported when the player has no valid current location.
	ErrNoLocation = errors.New("current location is invalid")
	// ErrNoNPC is reported when there is no one to talk to.
	ErrNoNPC = errors.New("there's no one here to talk to")
	// ErrWrongMode is reported when a command is not valid right now.
	ErrWrongMode = errors.New("command not available right now")
	// ErrNoStore is reported when saving or loading without a save directory.
	ErrNoStore = errors.New("saving is not configured")
	// ErrBadIndex is reported when a load index does not name a save.
	ErrBadIndex = errors.New("no save with that number")
	// ErrUnknownCommand is reported for input that names no command.
	ErrUnknownCommand = errors.New("unknown command")
)

// Mode is what the engine expects the next input to be.
type Mode int

const (
	ModeExploring  Mode = iota // top-level commands
	ModeConversing             // topics for the active NPC
	ModeBattle                 // battle menu choices
	ModeOver                   // session finished, return to the main menu
)

func (m Mode) String() string {
	switch m {
	case ModeExploring:
		return "exploring"
	case ModeConversing:
		return "conversing"
	case ModeBattle:
		return "battle"
	case ModeOver:
		return "over"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Outcome records how a session ended.
type Outcome int

const (
	OutcomeNone           Outcome = iota
	OutcomeVictory                // dragon sealed
	OutcomeDefeat                 // fled the dragon
	OutcomeApocalypseWon          // confront gate passed
	OutcomeApocalypseLost         // confront gate failed
	OutcomeQuit                   // player quit the game
	OutcomeAnomaly                // invalid location, back to the menu
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeApocalypseWon:
		return "apocalypse_won"
	case OutcomeApocalypseLost:
		return "apocalypse_lost"
	case OutcomeQuit:
		return "quit"
	case OutcomeAnomaly:
		return "anomaly"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options configure a new engine.
type Options struct {
	Store      *save.Store  // nil disables save and load
	AlignGates bool         // confront checks the final battle list
	Logger     *slog.Logger // nil discards logs
}

type command func(e *Engine, object string) types.Result

// Engine holds the game definitions and the mutable state of one playthrough.
type Engine struct {
	ID    uuid.UUID
	Defs  *world.Defs
	Map   *world.Map
	State *state.State
	Store *save.Store

	mode       Mode
	outcome    Outcome
	npc        *types.NPCDef // active conversation partner
	battle     *ending.Battle
	alignGates bool
	log        *slog.Logger
	handlers   []events.Handler
	commands   map[string]command
}

// New builds the map and a fresh playthrough.
func New(defs *world.Defs, opts Options) (*Engine, error) {
	m, err := world.New(defs)
	if err != nil {
		return nil, fmt.Errorf("building map: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		ID:         uuid.New(),
		Defs:       defs,
		Map:        m,
		State:      state.NewState(m.Start()),
		Store:      opts.Store,
		alignGates: opts.AlignGates,
	}
	e.log = logger.WithSession(log, e.ID.String())
	e.commands = commandTable()
	e.handlers = []events.Handler{
		{EventType: events.ArtifactGranted, Handle: e.onArtifactGranted},
		{Handle: e.logEvent},
	}
	return e, nil
}

// commandTable maps each canonical verb to its handler.
func commandTable() map[string]command {
	return map[string]command{
		"go":       func(e *Engine, obj string) types.Result { return e.Move(obj) },
		"talk":     func(e *Engine, _ string) types.Result { return e.BeginDialogue() },
		"explore":  func(e *Engine, _ string) types.Result { return e.Explore() },
		"look":     func(e *Engine, _ string) types.Result { return e.Look() },
		"map":      func(e *Engine, _ string) types.Result { return e.ShowMap() },
		"status":   func(e *Engine, _ string) types.Result { return e.Status() },
		"save":     func(e *Engine, obj string) types.Result { return e.Save(obj) },
		"load":     (*Engine).loadCommand,
		"confront": func(e *Engine, _ string) types.Result { return e.Confront() },
		"help":     func(e *Engine, _ string) types.Result { return e.Help() },
		"clear":    func(*Engine, string) types.Result { return types.Result{Events: []types.Event{{Type: events.ScreenCleared}}} },
		"quit":     func(e *Engine, _ string) types.Result { return e.Quit() },
	}
}

// Mode returns what the next input is interpreted as.
func (e *Engine) Mode() Mode { return e.mode }

// Outcome returns how the session ended, or OutcomeNone while playing.
func (e *Engine) Outcome() Outcome { return e.outcome }

// Player returns the player state.
func (e *Engine) Player() *state.Player { return &e.State.Player }

// SetPlayerName names the player, keeping the default for blank input.
func (e *Engine) SetPlayerName(name string) {
	if name = strings.TrimSpace(name); name != "" {
		e.State.Player.Name = name
	}
}

// Step processes one line of player input and returns the result.
func (e *Engine) Step(input string) types.Result {
	switch e.mode {
	case ModeOver:
		return types.Result{
			Output: []string{"Your journey is over. Return to the main menu to begin again."},
			Err:    ErrWrongMode,
		}
	case ModeConversing:
		return e.Respond(input)
	case ModeBattle:
		if e.alignGates && parser.Parse(input).Verb == "confront" {
			e.State.TurnCount++
			return e.Confront()
		}
		return e.UseInBattle(strings.TrimSpace(input))
	}

	intent := parser.Parse(input)
	if intent.Verb == "" {
		return types.Result{Output: []string{"What would you like to do?"}, Err: ErrUnknownCommand}
	}

	cmd, ok := e.commands[intent.Verb]
	if !ok {
		return types.Result{
			Output: []string{"I don't understand that command. Type 'help' for a list of commands."},
			Err:    fmt.Errorf("%w: %q", ErrUnknownCommand, intent.Verb),
		}
	}

	e.State.TurnCount++
	return cmd(e, intent.Object)
}

// finish runs the event handlers over r's events (single pass) and merges
// what they produce into r.
func (e *Engine) finish(r types.Result) types.Result {
	extra := events.Dispatch(r.Events, e.handlers)
	r.Output = append(r.Output, extra.Output...)
	r.Events = append(r.Events, extra.Events...)
	return r
}

// currentLocation guards against a missing location. On failure the session
// is ended so the controller returns to the main menu.
func (e *Engine) currentLocation() (*world.Location, *types.Result) {
	if loc := e.State.Player.Location; loc != nil {
		return loc, nil
	}
	e.log.Error("player has no current location")
	e.end(OutcomeAnomaly)
	return nil, &types.Result{
		Output: []string{"Error: Current location is invalid. Returning to main menu..."},
		Events: []types.Event{{Type: events.GameOver, Data: map[string]any{"outcome": "anomaly"}}},
		Err:    ErrNoLocation,
	}
}

func (e *Engine) end(o Outcome) {
	e.mode = ModeOver
	e.outcome = o
	e.npc = nil
}

func (e *Engine) requireMode(m Mode) *types.Result {
	if e.mode == m {
		return nil
	}
	return &types.Result{
		Output: []string{"You can't do that right now."},
		Err:    fmt.Errorf("%w: engine is %s", ErrWrongMode, e.mode),
	}
}

// Move follows one exit of the current location. An empty or unknown
// direction leaves the player where they are.
func (e *Engine) Move(direction string) types.Result {
	if r := e.requireMode(ModeExploring); r != nil {
		return *r
	}
	from, bad := e.currentLocation()
	if bad != nil {
		return *bad
	}

	direction = strings.ToLower(strings.TrimSpace(direction))
	if direction == "" {
		return types.Result{Output: []string{"Go where? Please specify a direction."}, Err: world.ErrNoExit}
	}
	to, ok := e.Map.Resolve(from, direction)
	if !ok {
		return types.Result{
			Output: []string{"You cannot go that way."},
			Err:    fmt.Errorf("%w: %q from %s", world.ErrNoExit, direction, from.Name),
		}
	}

	e.State.Player.Location = to
	out := []string{fmt.Sprintf("You are heading %s...", direction)}
	out = append(out, e.describe(to)...)
	return e.finish(types.Result{
		Output: out,
		Events: []types.Event{{Type: events.Moved, Data: map[string]any{
			"from": from.Name, "to": to.Name, "direction": direction,
		}}},
	})
}

// Look describes the current location.
func (e *Engine) Look() types.Result {
	loc, bad := e.currentLocation()
	if bad != nil {
		return *bad
	}
	return types.Result{Output: e.describe(loc)}
}

// ShowMap renders the compass map with the player's position.
func (e *Engine) ShowMap() types.Result {
	return types.Result{Output: strings.Split(e.Map.Compass(e.State.Player.Location), "\n")}
}

func (e *Engine) describe(loc *world.Location) []string {
	out := []string{
		fmt.Sprintf("You are in %s", loc.Name),
		loc.Description,
		"Available directions: " + strings.Join(loc.Exits(), ", "),
	}
	if loc.HasNPC() {
		out = append(out, fmt.Sprintf("Characters you can talk to: %s (%s)", loc.NPC.Name, loc.NPC.Description))
	}
	return out
}

// BeginDialogue starts a conversation with the NPC at the current location.
func (e *Engine) BeginDialogue() types.Result {
	if r := e.requireMode(ModeExploring); r != nil {
		return *r
	}
	loc, bad := e.currentLocation()
	if bad != nil {
		return *bad
	}
	if !loc.HasNPC() {
		return types.Result{Output: []string{"There's no one here to talk to."}, Err: ErrNoNPC}
	}

	e.npc = loc.NPC
	e.mode = ModeConversing
	out := []string{
		fmt.Sprintf("Talking to %s...", e.npc.Name),
		e.npc.Description,
	}
	out = append(out, e.TopicMenu()...)
	return e.finish(types.Result{
		Output: out,
		Events: []types.Event{{Type: events.DialogueStarted, Data: map[string]any{"npc": e.npc.Name}}},
	})
}

// TopicMenu lists what can be said in the active conversation.
func (e *Engine) TopicMenu() []string {
	if e.npc == nil {
		return nil
	}
	return append([]string{"What would you like to talk about?"}, dialogue.Menu(e.npc)...)
}

// Respond answers one topic in the active conversation. A topic earns one
// wisdom point; the secret is added to the player's artifacts.
func (e *Engine) Respond(topic string) types.Result {
	if r := e.requireMode(ModeConversing); r != nil {
		return *r
	}

	npc := e.npc
	reply := dialogue.Respond(npc, topic, e.State)
	r := types.Result{Output: []string{reply.Text}}

	switch reply.Kind {
	case dialogue.ReplyTopic:
		e.State.Player.AddWisdom()
		r.Events = append(r.Events, types.Event{Type: events.WisdomGained, Data: map[string]any{
			"npc": npc.Name, "wisdom": e.State.Player.Wisdom,
		}})
	case dialogue.ReplySecret:
		r.Output = append(r.Output, fmt.Sprintf("You received: %s", reply.Artifact))
		if e.State.Player.AddArtifact(reply.Artifact) {
			r.Events = append(r.Events, types.Event{Type: events.ArtifactGranted, Data: map[string]any{
				"artifact": reply.Artifact, "source": npc.Name,
			}})
		}
	case dialogue.ReplyLeave:
		e.npc = nil
		e.mode = ModeExploring
		r.Events = append(r.Events, types.Event{Type: events.DialogueEnded, Data: map[string]any{"npc": npc.Name}})
	}
	return e.finish(r)
}

// EndDialogue leaves the active conversation.
func (e *Engine) EndDialogue() types.Result {
	return e.Respond(dialogue.LeaveKeyword)
}

// Explore completes the quest at the current location, if there is one.
func (e *Engine) Explore() types.Result {
	if r := e.requireMode(ModeExploring); r != nil {
		return *r
	}
	loc, bad := e.currentLocation()
	if bad != nil {
		return *bad
	}

	quest, ok := e.Defs.Quests[loc.ID]
	if !ok {
		return types.Result{Output: []string{"You search the area but find nothing of note."}}
	}
	if e.State.Player.HasCompletedQuest(loc.Name) {
		return types.Result{Output: []string{fmt.Sprintf("You have already uncovered the secrets of %s.", loc.Name)}}
	}

	e.State.Player.CompleteQuest(loc.Name)
	r := types.Result{
		Output: []string{
			fmt.Sprintf("New Quest: %s", quest.Description),
			fmt.Sprintf("You have found the %s!", quest.Artifact),
		},
		Events: []types.Event{{Type: events.QuestCompleted, Data: map[string]any{"quest": loc.Name}}},
	}
	if e.State.Player.AddArtifact(quest.Artifact) {
		r.Events = append(r.Events, types.Event{Type: events.ArtifactGranted, Data: map[string]any{
			"artifact": quest.Artifact, "source": loc.Name,
		}})
	}
	return e.finish(r)
}

// HasAllRequiredArtifacts reports whether the final battle gate is met.
func (e *Engine) HasAllRequiredArtifacts() bool {
	return e.State.Player.HasAll(e.Defs.Gates[world.GateFinalBattle])
}

// ApocalypseRequirements returns the list the confront gate checks.
func (e *Engine) ApocalypseRequirements() []string {
	if e.alignGates {
		return e.Defs.Gates[world.GateFinalBattle]
	}
	return e.Defs.Gates[world.GateApocalypse]
}

// ArtifactProgress counts the gate artifacts held against every artifact any
// gate asks for. Artifacts outside the gates are not counted.
func (e *Engine) ArtifactProgress() (held, total int) {
	seen := make(map[string]bool)
	for _, list := range e.Defs.Gates {
		for _, name := range list {
			if seen[name] {
				continue
			}
			seen[name] = true
			if e.State.Player.HasArtifact(name) {
				held++
			}
		}
	}
	return held, len(seen)
}

// onArtifactGranted starts the final battle as soon as the gate is met.
func (e *Engine) onArtifactGranted(types.Event) types.Result {
	if e.battle != nil || e.mode == ModeOver || !e.HasAllRequiredArtifacts() {
		return types.Result{}
	}
	e.battle = ending.NewBattle(e.Defs.Gates[world.GateFinalBattle])
	e.npc = nil
	e.mode = ModeBattle
	out := e.battle.Intro()
	if e.alignGates {
		out = append(out, "Or type 'fight' to confront the apocalypse with the artifacts you hold.")
	}
	return types.Result{
		Output: out,
		Events: []types.Event{{Type: events.BattleStarted}},
	}
}

// UseInBattle plays one choice of the final battle menu.
func (e *Engine) UseInBattle(choice string) types.Result {
	if r := e.requireMode(ModeBattle); r != nil {
		return *r
	}

	r := types.Result{Output: e.battle.Choose(choice)}
	switch e.battle.Phase {
	case ending.Victory:
		e.end(OutcomeVictory)
	case ending.Defeat:
		e.end(OutcomeDefeat)
	default:
		r.Output = append(r.Output, e.battle.Menu()...)
		return r
	}
	r.Events = append(r.Events, types.Event{Type: events.GameOver, Data: map[string]any{
		"outcome": e.battle.Phase.String(),
	}})
	return e.finish(r)
}

// BattlePhase returns the phase of the final battle, if it has started.
func (e *Engine) BattlePhase() (ending.Phase, bool) {
	if e.battle == nil {
		return ending.Unprepared, false
	}
	return e.battle.Phase, true
}

// Confront faces the apocalypse. Win or lose, the session ends. With aligned
// gates the battle's artifacts also answer the apocalypse, so confront is
// accepted mid-battle too.
func (e *Engine) Confront() types.Result {
	if !(e.alignGates && e.mode == ModeBattle) {
		if r := e.requireMode(ModeExploring); r != nil {
			return *r
		}
	}
	won, out := ending.Confront(&e.State.Player, e.ApocalypseRequirements())
	outcome, label := OutcomeApocalypseLost, "apocalypse_lost"
	if won {
		outcome, label = OutcomeApocalypseWon, "apocalypse_won"
	}
	e.end(outcome)
	return e.finish(types.Result{
		Output: out,
		Events: []types.Event{{Type: events.GameOver, Data: map[string]any{"outcome": label}}},
	})
}

// Status summarises wisdom, artifacts and quests.
func (e *Engine) Status() types.Result {
	p := e.State.Player
	out := []string{
		"=== Your Status ===",
		fmt.Sprintf("Name: %s", p.Name),
	}
	if p.Location != nil {
		out = append(out, fmt.Sprintf("Location: %s", p.Location.Name))
	}
	out = append(out, fmt.Sprintf("Wisdom Points: %d", p.Wisdom), "Collected Artifacts:")
	if len(p.Artifacts) == 0 {
		out = append(out, "You haven't collected any artifacts yet.")
	}
	for _, a := range p.Artifacts {
		out = append(out, "- "+a)
	}
	held, total := e.ArtifactProgress()
	out = append(out, fmt.Sprintf("Total Artifacts: %d/%d", held, total))
	for _, loc := range e.Map.Locations() {
		if p.HasCompletedQuest(loc.Name) {
			out = append(out, fmt.Sprintf("Quest completed: %s", loc.Name))
		}
	}
	return types.Result{Output: out}
}

// Help lists the commands.
func (e *Engine) Help() types.Result {
	return types.Result{Output: []string{
		"Available Commands:",
		"- go <direction>: Move in the specified direction (or just n/s/e/w)",
		"- talk: Talk to the character in the location",
		"- explore: Search the location for its quest",
		"- look: Describe where you are",
		"- map: Show the map",
		"- status: Display your collected artifacts and wisdom points",
		"- save [name]: Save your progress",
		"- load [number]: List saves, or load one",
		"- fight: Confront the apocalypse",
		"- clear: Clear the screen",
		"- quit: Exit the game",
	}}
}

// Quit ends the session at the player's request.
func (e *Engine) Quit() types.Result {
	e.end(OutcomeQuit)
	return types.Result{
		Output: []string{"Thanks for visiting Anatolia! Goodbye!"},
		Events: []types.Event{{Type: events.GameOver, Data: map[string]any{"outcome": "quit"}}},
	}
}

// Save writes the player's state under name.
func (e *Engine) Save(name string) types.Result {
	if e.Store == nil {
		return types.Result{Output: []string{"Saving is not available."}, Err: ErrNoStore}
	}
	rec, err := save.FromState(e.State)
	if err != nil {
		return types.Result{Output: []string{fmt.Sprintf("Save failed: %v", err)}, Err: err}
	}
	path, err := e.Store.Save(name, rec)
	if err != nil {
		e.log.Error("save failed", "error", err)
		return types.Result{Output: []string{fmt.Sprintf("Save failed: %v", err)}, Err: err}
	}
	return e.finish(types.Result{
		Output: []string{fmt.Sprintf("Game saved successfully to %s", path)},
		Events: []types.Event{{Type: events.Saved, Data: map[string]any{"path": path}}},
	})
}

// Saves lists the save directory.
func (e *Engine) Saves() ([]save.Entry, error) {
	if e.Store == nil {
		return nil, ErrNoStore
	}
	return e.Store.List()
}

// DescribeSaves renders a numbered listing. Corrupted files are reported
// inline.
func (e *Engine) DescribeSaves(entries []save.Entry) []string {
	if len(entries) == 0 {
		return []string{"No save files found."}
	}
	out := []string{fmt.Sprintf("Found %d save files:", len(entries))}
	for i, entry := range entries {
		if entry.Err != nil {
			out = append(out, fmt.Sprintf("%d. %s (Corrupted save file)", i+1, entry.Name))
			continue
		}
		rec := entry.Record
		locName := "Unknown"
		if loc, ok := e.Map.Locate(rec.Coord); ok {
			locName = loc.Name
		}
		out = append(out,
			fmt.Sprintf("%d. %s", i+1, entry.Name),
			fmt.Sprintf("   Player: %s", rec.Name),
			fmt.Sprintf("   Location: %s (%d, %d)", locName, rec.Coord.X, rec.Coord.Y),
			fmt.Sprintf("   Wisdom Points: %d", rec.Wisdom),
			fmt.Sprintf("   Artifacts: %d", len(rec.Artifacts)),
		)
	}
	return out
}

// Load replaces the player's state with the save at the 1-based index of
// Saves. On any failure the current state is left untouched.
func (e *Engine) Load(index int) types.Result {
	entries, err := e.Saves()
	if err != nil {
		return types.Result{Output: []string{fmt.Sprintf("Error loading save file: %v", err)}, Err: err}
	}
	if index < 1 || index > len(entries) {
		return types.Result{
			Output: []string{"There is no save with that number."},
			Err:    fmt.Errorf("%w: %d", ErrBadIndex, index),
		}
	}
	entry := entries[index-1]
	if entry.Err != nil {
		return types.Result{Output: []string{fmt.Sprintf("Error loading save file: %v", entry.Err)}, Err: entry.Err}
	}
	if err := save.Apply(e.State, e.Map, entry.Record); err != nil {
		e.log.Warn("load failed", "save", entry.Name, "error", err)
		return types.Result{Output: []string{fmt.Sprintf("Error loading save file: %v", err)}, Err: err}
	}

	e.mode = ModeExploring
	e.outcome = OutcomeNone
	e.npc = nil
	e.battle = nil
	out := []string{"Loaded save successfully!"}
	out = append(out, e.describe(e.State.Player.Location)...)
	return e.finish(types.Result{
		Output: out,
		Events: []types.Event{{Type: events.Loaded, Data: map[string]any{"save": entry.Name}}},
	})
}

// loadCommand lists saves without an argument and loads one with a number.
func (e *Engine) loadCommand(arg string) types.Result {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		entries, err := e.Saves()
		if err != nil {
			return types.Result{Output: []string{fmt.Sprintf("Error listing saves: %v", err)}, Err: err}
		}
		out := e.DescribeSaves(entries)
		if len(entries) > 0 {
			out = append(out, "Type 'load <number>' to load a save.")
		}
		return types.Result{Output: out}
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return types.Result{
			Output: []string{"Please give the number of the save to load."},
			Err:    fmt.Errorf("%w: %q", ErrBadIndex, arg),
		}
	}
	return e.Load(n)
}

// logEvent records every event at debug level.
func (e *Engine) logEvent(ev types.Event) types.Result {
	attrs := make([]any, 0, 2*len(ev.Data)+2)
	attrs = append(attrs, "event", ev.Type)
	for k, v := range ev.Data {
		attrs = append(attrs, k, v)
	}
	e.log.Debug("game event", attrs...)
	return types.Result{}
}
