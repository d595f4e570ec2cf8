// Package content embeds the shipped game definition.
package content

import "embed"

// Dir is the directory inside FS holding the .lua files.
const Dir = "."

// FS holds anatolia.lua.
//
//go:embed *.lua
var FS embed.FS
