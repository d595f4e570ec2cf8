// Package parser converts command strings into Intent structs.
// Intentionally dumb: whitespace tokens and alias lookup, nothing more.
package parser

import (
	"strings"

	"github.com/nathoo/anatolia/types"
)

var directionExpansions = map[string]string{
	"n": "north",
	"s": "south",
	"e": "east",
	"w": "west",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
}

var verbAliases = map[string]string{
	// Movement
	"walk":   "go",
	"move":   "go",
	"head":   "go",
	"travel": "go",

	// Dialogue
	"speak":    "talk",
	"chat":     "talk",
	"converse": "talk",

	// Quests
	"search":      "explore",
	"investigate": "explore",

	// Endgame
	"fight":  "confront",
	"battle": "confront",

	// Information
	"l":         "look",
	"stats":     "status",
	"inventory": "status",
	"inv":       "status",
	"i":         "status",
	"m":         "map",
	"h":         "help",
	"?":         "help",

	// Session
	"exit": "quit",
	"q":    "quit",
	"cls":  "clear",
}

// Parse converts a raw command string into an Intent. The verb is lowercased;
// the object keeps its case so save names survive.
func Parse(input string) types.Intent {
	words := strings.Fields(input)
	if len(words) == 0 {
		return types.Intent{}
	}

	verb := strings.ToLower(words[0])
	rest := words[1:]

	// Direction shortcut: bare "n", "south", etc. → go <direction>
	if len(rest) == 0 {
		if dir, ok := directionExpansions[verb]; ok {
			return types.Intent{Verb: "go", Object: dir}
		}
		if directionNames[verb] {
			return types.Intent{Verb: "go", Object: verb}
		}
	}

	// "talk to" / "talk with"
	if len(rest) > 0 && (verb == "talk" || verb == "speak") {
		if p := strings.ToLower(rest[0]); p == "to" || p == "with" {
			rest = rest[1:]
		}
	}

	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	object := strings.Join(rest, " ")
	if verb == "go" {
		object = strings.ToLower(object)
		if dir, ok := directionExpansions[object]; ok {
			object = dir
		}
	}

	return types.Intent{Verb: verb, Object: object}
}
