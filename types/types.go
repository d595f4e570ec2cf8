// Package types defines the shared data structures for the Anatolia engine.
// This package contains only type definitions: no logic, no methods.
package types

// Coordinate is a position on the logical map grid. Locations are keyed by it.
type Coordinate struct {
	X int
	Y int
}

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional, rest of the line
}

// Event is emitted by a command after state has changed.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Events []Event
	Output []string
	Err    error // set when the command failed; state is unchanged
}

// TopicDef is a single dialogue topic: a keyword and the canned response.
type TopicDef struct {
	Keyword  string
	Response string
}

// NPCDef is the immutable content of a non-player character.
type NPCDef struct {
	Name        string
	Description string
	Topics      []TopicDef // declaration order
	Secret      string     // artifact handed over once, empty for none
}

// LocationDef is the base definition of a map location.
type LocationDef struct {
	ID          string
	Name        string
	Description string
	At          Coordinate
	Exits       map[string]string // direction → location ID
	NPC         *NPCDef
}

// QuestDef is a one-time story beat at a location that grants an artifact.
type QuestDef struct {
	Location    string // location ID
	Artifact    string
	Description string
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Width   int
	Height  int
	Start   string // starting location ID
	Intro   string
}
