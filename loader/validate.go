package loader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/nathoo/anatolia/engine/dialogue"
	"github.com/nathoo/anatolia/engine/world"
	"github.com/nathoo/anatolia/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known gate names and the minimum number of artifacts each needs.
var knownGates = map[string]int{
	world.GateFinalBattle: 2, // revealer and sealer
	world.GateApocalypse:  1,
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *world.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}
	if defs.Game.Width <= 0 || defs.Game.Height <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"Game width and height must be positive, got %dx%d", defs.Game.Width, defs.Game.Height))
	}

	byID := map[string]types.LocationDef{}
	byCoord := map[types.Coordinate]string{}
	for _, loc := range defs.Locations {
		if _, dup := byID[loc.ID]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate location ID %q", loc.ID))
		}
		byID[loc.ID] = loc

		if other, dup := byCoord[loc.At]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"locations %q and %q share coordinate (%d, %d)", other, loc.ID, loc.At.X, loc.At.Y))
		}
		byCoord[loc.At] = loc.ID

		if loc.At.X < 0 || loc.At.Y < 0 || loc.At.X >= defs.Game.Width || loc.At.Y >= defs.Game.Height {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"location %q at (%d, %d) is outside the %dx%d map",
				loc.ID, loc.At.X, loc.At.Y, defs.Game.Width, defs.Game.Height))
		}
		if len(loc.Exits) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("location %q has no exits", loc.ID))
		}
		if loc.NPC != nil {
			validateNPC(loc.ID, loc.NPC, ve)
		}
	}

	// Start location exists.
	if defs.Game.Start == "" {
		ve.Errors = append(ve.Errors, "Game.Start is required")
	} else if _, ok := byID[defs.Game.Start]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start location %q not found in defined locations", defs.Game.Start))
	}

	// Exit targets valid, and labels stay distinct once lowercased.
	for _, loc := range defs.Locations {
		labels := map[string][]string{}
		for dir, target := range loc.Exits {
			if _, ok := byID[target]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q exit %q points to undefined location %q", loc.ID, dir, target))
			}
			key := strings.ToLower(strings.TrimSpace(dir))
			labels[key] = append(labels[key], dir)
		}
		for _, key := range slices.Sorted(maps.Keys(labels)) {
			if dirs := labels[key]; len(dirs) > 1 {
				slices.Sort(dirs)
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q exits %s differ only in case", loc.ID, strings.Join(dirs, ", ")))
			}
		}
	}

	// Quests reference defined locations and grant something.
	obtainable := map[string]bool{}
	for id, q := range defs.Quests {
		if _, ok := byID[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("quest references undefined location %q", id))
		}
		if q.Artifact == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("quest at %q has no artifact", id))
		}
		obtainable[q.Artifact] = true
	}
	for _, loc := range defs.Locations {
		if loc.NPC != nil && loc.NPC.Secret != "" {
			obtainable[loc.NPC.Secret] = true
		}
	}

	// Gates are known, long enough, and winnable.
	for name, list := range defs.Gates {
		need, ok := knownGates[name]
		if !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown gate %q", name))
			continue
		}
		if len(list) < need {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"gate %q needs at least %d artifact(s), got %d", name, need, len(list)))
		}
		for _, artifact := range list {
			if !obtainable[artifact] {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"gate %q requires %q, which no quest or NPC grants", name, artifact))
			}
		}
	}
	if _, ok := defs.Gates[world.GateFinalBattle]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf("gate %q is required", world.GateFinalBattle))
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateNPC rejects topics that would shadow the reserved keywords.
func validateNPC(locID string, npc *types.NPCDef, ve *ValidationError) {
	seen := map[string]bool{}
	for _, topic := range npc.Topics {
		kw := strings.ToLower(strings.TrimSpace(topic.Keyword))
		switch {
		case kw == "":
			ve.Errors = append(ve.Errors, fmt.Sprintf("npc %q at %q has an empty topic", npc.Name, locID))
		case kw == dialogue.SecretKeyword || kw == dialogue.LeaveKeyword:
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"npc %q topic %q is a reserved keyword", npc.Name, topic.Keyword))
		case seen[kw]:
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"npc %q has duplicate topic %q", npc.Name, topic.Keyword))
		}
		seen[kw] = true
	}
	if len(npc.Topics) == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("npc %q has no topics", npc.Name))
	}
}
