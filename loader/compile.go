// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/anatolia/engine/world"
	"github.com/nathoo/anatolia/types"
	lua "github.com/yuin/gopher-lua"
)

// rawLocation holds a location table before compilation.
type rawLocation struct {
	id    string
	table *lua.LTable
}

// rawQuest holds a quest table before compilation.
type rawQuest struct {
	location string
	table    *lua.LTable
}

// rawGate holds an artifact list before compilation.
type rawGate struct {
	name  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an integer field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// tableToStrings converts the array part of a Lua table to a []string.
func tableToStrings(tbl *lua.LTable) ([]string, error) {
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("entry %d is %s, want string", i, tbl.RawGetInt(i).Type())
		}
		out = append(out, string(s))
	}
	return out, nil
}

// compile converts the collected Lua tables into Defs.
func compile(coll *collector) (*world.Defs, error) {
	defs := &world.Defs{
		Quests: map[string]types.QuestDef{},
		Gates:  map[string][]string{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.locations {
		loc, err := compileLocation(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling location %s: %w", raw.id, err)
		}
		defs.Locations = append(defs.Locations, loc)
	}

	for _, raw := range coll.quests {
		if _, dup := defs.Quests[raw.location]; dup {
			return nil, fmt.Errorf("duplicate quest for location %q", raw.location)
		}
		defs.Quests[raw.location] = compileQuest(raw)
	}

	for _, raw := range coll.gates {
		if _, dup := defs.Gates[raw.name]; dup {
			return nil, fmt.Errorf("duplicate gate %q", raw.name)
		}
		list, err := tableToStrings(raw.table)
		if err != nil {
			return nil, fmt.Errorf("compiling gate %s: %w", raw.name, err)
		}
		defs.Gates[raw.name] = list
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Width:   getInt(tbl, "width"),
		Height:  getInt(tbl, "height"),
		Start:   getString(tbl, "start"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileLocation(raw rawLocation) (types.LocationDef, error) {
	tbl := raw.table
	loc := types.LocationDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Exits:       tableToStringMap(getTable(tbl, "exits")),
	}
	if loc.Name == "" {
		loc.Name = raw.id
	}

	at, err := compileCoordinate(getTable(tbl, "at"))
	if err != nil {
		return loc, err
	}
	loc.At = at

	if npcTbl := getTable(tbl, "npc"); npcTbl != nil {
		npc, err := compileNPC(npcTbl)
		if err != nil {
			return loc, err
		}
		loc.NPC = npc
	}
	return loc, nil
}

// compileCoordinate accepts both {x, y} and {x = 1, y = 2}.
func compileCoordinate(tbl *lua.LTable) (types.Coordinate, error) {
	if tbl == nil {
		return types.Coordinate{}, fmt.Errorf("missing at = {x, y}")
	}
	if tbl.MaxN() >= 2 {
		x, xok := tbl.RawGetInt(1).(lua.LNumber)
		y, yok := tbl.RawGetInt(2).(lua.LNumber)
		if !xok || !yok {
			return types.Coordinate{}, fmt.Errorf("at must hold two numbers")
		}
		return types.Coordinate{X: int(x), Y: int(y)}, nil
	}
	x, xok := tbl.RawGetString("x").(lua.LNumber)
	y, yok := tbl.RawGetString("y").(lua.LNumber)
	if !xok || !yok {
		return types.Coordinate{}, fmt.Errorf("at must hold two numbers")
	}
	return types.Coordinate{X: int(x), Y: int(y)}, nil
}

func compileNPC(tbl *lua.LTable) (*types.NPCDef, error) {
	npc := &types.NPCDef{
		Name:        getString(tbl, npcMarker),
		Description: getString(tbl, "description"),
		Secret:      getString(tbl, "secret"),
	}
	if npc.Name == "" {
		return nil, fmt.Errorf("npc must be built with NPC \"name\" {...}")
	}
	topics, err := compileTopics(getTable(tbl, "topics"))
	if err != nil {
		return nil, fmt.Errorf("npc %s: %w", npc.Name, err)
	}
	npc.Topics = topics
	return npc, nil
}

// compileTopics reads {{"keyword", "response"}, ...} in declaration order.
func compileTopics(tbl *lua.LTable) ([]types.TopicDef, error) {
	if tbl == nil {
		return nil, nil
	}
	var topics []types.TopicDef
	for i := 1; i <= tbl.MaxN(); i++ {
		pair, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("topic %d must be {keyword, response}", i)
		}
		kw, kok := pair.RawGetInt(1).(lua.LString)
		resp, rok := pair.RawGetInt(2).(lua.LString)
		if !kok || !rok {
			return nil, fmt.Errorf("topic %d must be {keyword, response}", i)
		}
		topics = append(topics, types.TopicDef{Keyword: string(kw), Response: string(resp)})
	}
	return topics, nil
}

func compileQuest(raw rawQuest) types.QuestDef {
	return types.QuestDef{
		Location:    raw.location,
		Artifact:    getString(raw.table, "artifact"),
		Description: getString(raw.table, "description"),
	}
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
