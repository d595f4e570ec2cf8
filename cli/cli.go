// Package cli provides plain terminal I/O and meta-command dispatch for the
// game. It is used for scripted playback and terminals without TUI support.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/anatolia/engine"
	"github.com/nathoo/anatolia/engine/state"
	"github.com/nathoo/anatolia/session"
	"github.com/nathoo/anatolia/types"
)

// DefaultWidth is the column at which long lines are wrapped.
const DefaultWidth = 80

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *session.Controller
	In        io.Reader
	Out       io.Writer
	Width     int // wrap column, 0 disables wrapping
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given session.
func New(s *session.Controller) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
		Width:   DefaultWidth,
	}
}

// Run shows the main menu, then loops: prompt → input → dispatch → output,
// until the player exits or input runs out.
func (c *CLI) Run() {
	c.printLines(c.Session.Start())

	scanner := bufio.NewScanner(c.In)
	for !c.Session.Done() {
		c.printLine("")
		c.print(c.Session.Prompt())
		if !scanner.Scan() {
			c.printLine("")
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		if c.Session.State() == session.Playing {
			if input == "" {
				continue
			}
			// "again" / "g" repeats the last game command.
			lower := strings.ToLower(input)
			if lower == "again" || lower == "g" {
				if c.lastCmd == "" {
					c.printLine("Nothing to repeat.")
					continue
				}
				input = c.lastCmd
			} else {
				c.lastCmd = input
			}
		}

		playing := c.Session.State() == session.Playing
		out := c.Session.Handle(input)
		if c.Session.Cleared() {
			c.clearScreen()
		}
		c.printLines(out)

		if playing && c.Trace {
			c.printTrace(c.Session.Last())
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         — Exit immediately",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
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
	}
	c.printLines(help)
}

// playerDump is the /state view of the player.
type playerDump struct {
	Name       string          `yaml:"name"`
	Location   string          `yaml:"location"`
	Coordinate [2]int          `yaml:"coordinate,flow"`
	Wisdom     int             `yaml:"wisdom"`
	Artifacts  []string        `yaml:"artifacts"`
	Quests     map[string]bool `yaml:"quests,omitempty"`
}

// stateDump is what /state prints.
type stateDump struct {
	Session  string     `yaml:"session"`
	Mode     string     `yaml:"mode"`
	Turn     int        `yaml:"turn"`
	Player   playerDump `yaml:"player"`
	Redeemed []string   `yaml:"redeemed,omitempty"`
}

func snapshot(e *engine.Engine) stateDump {
	p := e.Player()
	d := stateDump{
		Session: e.ID.String(),
		Mode:    e.Mode().String(),
		Turn:    e.State.TurnCount,
		Player: playerDump{
			Name:      p.Name,
			Wisdom:    p.Wisdom,
			Artifacts: p.Artifacts,
			Quests:    p.Quests,
		},
	}
	if p.Location != nil {
		d.Player.Location = p.Location.Name
		d.Player.Coordinate = [2]int{p.Location.Coord.X, p.Location.Coord.Y}
	}
	for _, loc := range e.Map.Locations() {
		if loc.HasNPC() && state.IsRedeemed(e.State, loc.NPC.Name) {
			d.Redeemed = append(d.Redeemed, loc.NPC.Name)
		}
	}
	return d
}

func (c *CLI) cmdState() {
	e := c.Session.Engine()
	if e == nil {
		c.printSystem(fmt.Sprintf("No game in progress (%s).", c.Session.State()))
		return
	}
	data, err := yaml.Marshal(snapshot(e))
	if err != nil {
		c.printSystem(fmt.Sprintf("State dump failed: %v", err))
		return
	}
	fmt.Fprint(c.Out, string(data))
}

func (c *CLI) printTrace(result types.Result) {
	if result.Err != nil {
		c.printSystem(fmt.Sprintf("[trace] Error: %v", result.Err))
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) clearScreen() {
	c.print("\033[H\033[2J")
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	if c.Width > 0 {
		text = wordwrap.String(text, c.Width)
	}
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
