// Package session drives a whole run of the game: main menu, new game and
// load flows, play, and the return to the menu after an ending. It is a
// plain state machine over lines of input; front-ends own all terminal I/O.
package session

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nathoo/anatolia/engine"
	"github.com/nathoo/anatolia/engine/events"
	"github.com/nathoo/anatolia/engine/world"
	"github.com/nathoo/anatolia/types"
)

// State is the controller's current screen.
type State int

const (
	MainMenu State = iota
	NamePrompt
	LoadMenu
	Playing
	Ending
	Exit
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main_menu"
	case NamePrompt:
		return "name_prompt"
	case LoadMenu:
		return "load_menu"
	case Playing:
		return "playing"
	case Ending:
		return "ending"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Controller routes input to the current screen. Each new game or load gets
// a fresh engine, so nothing carries over between playthroughs.
type Controller struct {
	defs    *world.Defs
	opts    engine.Options
	log     *slog.Logger
	state   State
	engine  *engine.Engine
	last    types.Result
	cleared bool
}

// New creates a controller sitting at the main menu.
func New(defs *world.Defs, opts engine.Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{defs: defs, opts: opts, log: log}
}

// State returns the current screen.
func (c *Controller) State() State { return c.state }

// Done reports whether the player chose to exit.
func (c *Controller) Done() bool { return c.state == Exit }

// Engine returns the active playthrough, or nil outside of one.
func (c *Controller) Engine() *engine.Engine { return c.engine }

// Title returns the game's title.
func (c *Controller) Title() string { return c.defs.Game.Title }

// Last returns the result of the most recent game command.
func (c *Controller) Last() types.Result { return c.last }

// Cleared reports, once, whether the last input asked to clear the screen.
func (c *Controller) Cleared() bool {
	cleared := c.cleared
	c.cleared = false
	return cleared
}

// Start returns the opening screen.
func (c *Controller) Start() []string {
	return c.mainMenu()
}

// Prompt is the text to show before reading the next line.
func (c *Controller) Prompt() string {
	switch c.state {
	case MainMenu:
		return "Enter your choice (1-4): "
	case NamePrompt:
		return "Enter your name, traveler: "
	case LoadMenu:
		return "Enter save number to load (or 0 to cancel): "
	case Playing:
		switch c.engine.Mode() {
		case engine.ModeConversing:
			return "Topic: "
		case engine.ModeBattle:
			return "Choice (1-3): "
		}
		return "> "
	case Ending:
		return "Press Enter to return to the main menu..."
	default:
		return ""
	}
}

// Handle processes one line of input and returns the lines to display.
func (c *Controller) Handle(input string) []string {
	switch c.state {
	case MainMenu:
		return c.handleMenu(strings.TrimSpace(input))
	case NamePrompt:
		return c.handleName(input)
	case LoadMenu:
		return c.handleLoadChoice(strings.TrimSpace(input))
	case Playing:
		return c.handlePlay(input)
	case Ending:
		c.engine = nil
		c.state = MainMenu
		return c.mainMenu()
	default:
		return nil
	}
}

func (c *Controller) mainMenu() []string {
	return []string{
		fmt.Sprintf("=== %s ===", c.defs.Game.Title),
		"1. New Game",
		"2. Load Game",
		"3. Credits",
		"4. Exit",
	}
}

func (c *Controller) credits() []string {
	return []string{
		"=== Credits ===",
		c.defs.Game.Title,
		"A Text Adventure Game",
		"",
		"DGD-203 Game Programming Course",
		"2025 All Rights Reserved",
	}
}

func (c *Controller) handleMenu(choice string) []string {
	switch choice {
	case "1":
		return c.newGame()
	case "2":
		return c.loadMenu()
	case "3":
		return append(c.credits(), c.mainMenu()...)
	case "4":
		c.state = Exit
		return []string{"Thanks for visiting Anatolia! Goodbye!"}
	default:
		return []string{"Invalid choice. Please try again."}
	}
}

// fresh replaces the engine with a new playthrough.
func (c *Controller) fresh() error {
	e, err := engine.New(c.defs, c.opts)
	if err != nil {
		return err
	}
	c.engine = e
	c.log.Info("session started", "session_id", e.ID.String())
	return nil
}

func (c *Controller) newGame() []string {
	if err := c.fresh(); err != nil {
		c.log.Error("starting game", "error", err)
		return []string{fmt.Sprintf("Could not start a new game: %v", err)}
	}
	c.state = NamePrompt
	out := []string{fmt.Sprintf("=== %s ===", c.defs.Game.Title)}
	if intro := strings.TrimSpace(c.defs.Game.Intro); intro != "" {
		out = append(out, strings.Split(intro, "\n")...)
	}
	return out
}

func (c *Controller) handleName(name string) []string {
	c.engine.SetPlayerName(name)
	p := c.engine.Player()
	out := []string{fmt.Sprintf("Welcome, %s! Your journey begins in the %s.", p.Name, c.engine.Map.Start().Name)}
	c.state = Playing
	return append(out, c.engine.Look().Output...)
}

func (c *Controller) loadMenu() []string {
	if err := c.fresh(); err != nil {
		c.log.Error("starting game", "error", err)
		return []string{fmt.Sprintf("Could not start a new game: %v", err)}
	}
	entries, err := c.engine.Saves()
	if err != nil {
		c.log.Warn("listing saves", "error", err)
		return c.fallBackToNewGame(fmt.Sprintf("Error listing saves: %v", err))
	}
	if len(entries) == 0 {
		return c.fallBackToNewGame("No save files found.")
	}
	c.state = LoadMenu
	return c.engine.DescribeSaves(entries)
}

func (c *Controller) handleLoadChoice(choice string) []string {
	n, err := strconv.Atoi(choice)
	if err != nil || n <= 0 {
		return c.fallBackToNewGame()
	}
	r := c.engine.Load(n)
	if r.Err != nil {
		return c.fallBackToNewGame(r.Output...)
	}
	c.state = Playing
	return r.Output
}

// fallBackToNewGame starts a new game after a failed or cancelled load.
func (c *Controller) fallBackToNewGame(reason ...string) []string {
	out := make([]string, 0, len(reason)+1)
	out = append(out, reason...)
	out = append(out, "Starting new game...")
	return append(out, c.newGame()...)
}

func (c *Controller) handlePlay(input string) []string {
	r := c.engine.Step(input)
	c.last = r
	for _, ev := range r.Events {
		if ev.Type == events.ScreenCleared {
			c.cleared = true
		}
	}
	if r.Err != nil {
		c.log.Debug("command failed", "input", input, "error", r.Err)
	}
	if c.engine.Mode() != engine.ModeOver {
		return r.Output
	}

	c.log.Info("session ended", "session_id", c.engine.ID.String(), "outcome", c.engine.Outcome().String())
	if c.engine.Outcome() == engine.OutcomeQuit {
		c.engine = nil
		c.state = Exit
		return r.Output
	}
	c.state = Ending
	return r.Output
}
