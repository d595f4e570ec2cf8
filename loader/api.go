package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// npcMarker tags tables produced by NPC "name" {...} so Location can tell
// them apart from plain tables.
const npcMarker = "__npc"

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Location "id" { ... } is curried: Location("id") returns a function that takes a table.
	L.SetGlobal("Location", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.locations = append(coll.locations, rawLocation{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// NPC "name" { ... } is curried. Returns the table, tagged with the
	// name, for use as a Location's npc field.
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString(npcMarker, lua.LString(name))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Quest "location_id" { artifact = "...", description = "..." }
	L.SetGlobal("Quest", L.NewFunction(func(L *lua.LState) int {
		location := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.quests = append(coll.quests, rawQuest{location: location, table: tbl})
			return 0
		}))
		return 1
	}))

	// Gate "name" { "artifact", ... }
	L.SetGlobal("Gate", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.gates = append(coll.gates, rawGate{name: name, table: tbl})
			return 0
		}))
		return 1
	}))
}
