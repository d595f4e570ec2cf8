// Package world builds the location graph and answers navigation queries.
package world

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/anatolia/types"
)

// ErrNoExit is returned when a direction is not an exit of a location.
var ErrNoExit = errors.New("you cannot go that way")

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game      types.GameDef
	Locations []types.LocationDef
	Quests    map[string]types.QuestDef // location ID → quest
	Gates     map[string][]string       // gate name → required artifacts
}

// Gate names understood by the engine.
const (
	GateFinalBattle = "final_battle"
	GateApocalypse  = "apocalypse"
)

// Location is a node of the map graph. Exits are non-owning references
// into the same Map.
type Location struct {
	ID          string
	Name        string
	Description string
	Coord       types.Coordinate
	NPC         *types.NPCDef
	exits       map[string]*Location
}

// HasNPC reports whether someone can be talked to here.
func (l *Location) HasNPC() bool {
	return l.NPC != nil
}

// Exits returns the exit labels in sorted order.
func (l *Location) Exits() []string {
	dirs := make([]string, 0, len(l.exits))
	for dir := range l.exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Map owns every location, keyed by coordinate.
type Map struct {
	Width   int
	Height  int
	start   *Location
	byCoord map[types.Coordinate]*Location
	byID    map[string]*Location
}

// New builds the graph: one location per definition, then the directed
// exits between them. Topology never changes afterwards.
func New(defs *Defs) (*Map, error) {
	m := &Map{
		Width:   defs.Game.Width,
		Height:  defs.Game.Height,
		byCoord: make(map[types.Coordinate]*Location, len(defs.Locations)),
		byID:    make(map[string]*Location, len(defs.Locations)),
	}

	for _, def := range defs.Locations {
		if !m.inBounds(def.At) {
			return nil, fmt.Errorf("location %q at (%d, %d) is outside the %dx%d map",
				def.ID, def.At.X, def.At.Y, m.Width, m.Height)
		}
		if other, ok := m.byCoord[def.At]; ok {
			return nil, fmt.Errorf("locations %q and %q share coordinate (%d, %d)",
				other.ID, def.ID, def.At.X, def.At.Y)
		}
		if _, ok := m.byID[def.ID]; ok {
			return nil, fmt.Errorf("duplicate location %q", def.ID)
		}
		loc := &Location{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Coord:       def.At,
			NPC:         def.NPC,
			exits:       map[string]*Location{},
		}
		m.byCoord[def.At] = loc
		m.byID[def.ID] = loc
	}

	for _, def := range defs.Locations {
		from := m.byID[def.ID]
		for dir, targetID := range def.Exits {
			target, ok := m.byID[targetID]
			if !ok {
				return nil, fmt.Errorf("location %q exit %q points to undefined location %q",
					def.ID, dir, targetID)
			}
			key := strings.ToLower(dir)
			if _, dup := from.exits[key]; dup {
				return nil, fmt.Errorf("location %q has exits differing only in case (%q)", def.ID, key)
			}
			from.exits[key] = target
		}
	}

	start, ok := m.byID[defs.Game.Start]
	if !ok {
		return nil, fmt.Errorf("start location %q not found", defs.Game.Start)
	}
	m.start = start

	return m, nil
}

func (m *Map) inBounds(c types.Coordinate) bool {
	return c.X >= 0 && c.X < m.Width && c.Y >= 0 && c.Y < m.Height
}

// Start returns the location a new game begins in.
func (m *Map) Start() *Location {
	return m.start
}

// Locate returns the location at the given coordinate.
func (m *Map) Locate(c types.Coordinate) (*Location, bool) {
	loc, ok := m.byCoord[c]
	return loc, ok
}

// Lookup returns the location with the given ID.
func (m *Map) Lookup(id string) (*Location, bool) {
	loc, ok := m.byID[id]
	return loc, ok
}

// Resolve follows one exit of from. The direction is matched
// case-insensitively.
func (m *Map) Resolve(from *Location, direction string) (*Location, bool) {
	if from == nil {
		return nil, false
	}
	next, ok := from.exits[strings.ToLower(strings.TrimSpace(direction))]
	return next, ok
}

// Locations returns every location ordered by row (top first), then column.
func (m *Map) Locations() []*Location {
	locs := make([]*Location, 0, len(m.byCoord))
	for _, loc := range m.byCoord {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i].Coord, locs[j].Coord
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.X < b.X
	})
	return locs
}

// Compass renders the map grid. The current location is marked with @,
// other populated cells with +.
func (m *Map) Compass(current *Location) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", m.Width) + "N\n")
	for y := m.Height - 1; y >= 0; y-- {
		if y == m.Height/2 {
			sb.WriteString("W ")
		} else {
			sb.WriteString("  ")
		}
		for x := 0; x < m.Width; x++ {
			loc, ok := m.byCoord[types.Coordinate{X: x, Y: y}]
			switch {
			case ok && loc == current:
				sb.WriteString("@")
			case ok:
				sb.WriteString("+")
			default:
				sb.WriteString(".")
			}
		}
		if y == m.Height/2 {
			sb.WriteString(" E")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(" ", m.Width) + "S")
	return sb.String()
}
