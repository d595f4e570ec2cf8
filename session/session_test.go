package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/anatolia/content"
	"github.com/nathoo/anatolia/engine"
	"github.com/nathoo/anatolia/engine/save"
	"github.com/nathoo/anatolia/loader"
)

func newController(t *testing.T) (*Controller, *save.Store) {
	t.Helper()
	defs, err := loader.Load(content.FS, content.Dir)
	require.NoError(t, err)
	store := save.NewStore(t.TempDir())
	return New(defs, engine.Options{Store: store}), store
}

func joined(lines []string) string {
	return strings.Join(lines, "\n")
}

func TestStart_ShowsMainMenu(t *testing.T) {
	c, _ := newController(t)
	out := joined(c.Start())

	assert.Contains(t, out, "=== Journey Through Anatolia ===")
	assert.Contains(t, out, "4. Exit")
	assert.Equal(t, MainMenu, c.State())
	assert.Equal(t, "Enter your choice (1-4): ", c.Prompt())
}

func TestMainMenu_InvalidChoice(t *testing.T) {
	c, _ := newController(t)
	out := c.Handle("9")
	assert.Equal(t, []string{"Invalid choice. Please try again."}, out)
	assert.Equal(t, MainMenu, c.State())
}

func TestMainMenu_Credits(t *testing.T) {
	c, _ := newController(t)
	out := joined(c.Handle("3"))
	assert.Contains(t, out, "DGD-203 Game Programming Course")
	assert.Contains(t, out, "2025 All Rights Reserved")
	assert.Equal(t, MainMenu, c.State())
}

func TestMainMenu_Exit(t *testing.T) {
	c, _ := newController(t)
	c.Handle("4")
	assert.True(t, c.Done())
}

func TestNewGame_NameAndPlay(t *testing.T) {
	c, _ := newController(t)

	out := joined(c.Handle("1"))
	assert.Contains(t, out, "Shadow Dragon")
	assert.Equal(t, NamePrompt, c.State())

	out = joined(c.Handle("Aylin"))
	assert.Contains(t, out, "Welcome, Aylin! Your journey begins in the Karadeniz Yaylalari.")
	assert.Contains(t, out, "Available directions: east, west")
	assert.Equal(t, Playing, c.State())
	assert.Equal(t, "> ", c.Prompt())

	out = joined(c.Handle("go east"))
	assert.Contains(t, out, "You are in Dogu Anadolu")
}

func TestNewGame_BlankNameKeepsDefault(t *testing.T) {
	c, _ := newController(t)
	c.Handle("1")
	out := joined(c.Handle("   "))
	assert.Contains(t, out, "Welcome, Adventurer!")
}

func TestPlaying_PromptFollowsMode(t *testing.T) {
	c, _ := newController(t)
	c.Handle("1")
	c.Handle("Aylin")

	c.Handle("talk")
	assert.Equal(t, "Topic: ", c.Prompt())
	c.Handle("leave")
	assert.Equal(t, "> ", c.Prompt())
}

func TestPlaying_Clear(t *testing.T) {
	c, _ := newController(t)
	c.Handle("1")
	c.Handle("Aylin")

	c.Handle("cls")
	assert.True(t, c.Cleared())
	assert.False(t, c.Cleared(), "flag resets after reading")
}

func TestQuit_Exits(t *testing.T) {
	c, _ := newController(t)
	c.Handle("1")
	c.Handle("Aylin")

	out := joined(c.Handle("quit"))
	assert.Contains(t, out, "Goodbye")
	assert.True(t, c.Done())
}

func TestEnding_ReturnsToMenu(t *testing.T) {
	c, _ := newController(t)
	c.Handle("1")
	c.Handle("Aylin")

	out := joined(c.Handle("fight"))
	assert.Contains(t, out, "eternal night")
	assert.Equal(t, Ending, c.State())

	out = joined(c.Handle(""))
	assert.Contains(t, out, "1. New Game")
	assert.Equal(t, MainMenu, c.State())
	assert.Nil(t, c.Engine())
}

func TestNewGame_ResetsProgress(t *testing.T) {
	c, _ := newController(t)
	c.Handle("1")
	c.Handle("Aylin")
	c.Handle("explore")
	require.Len(t, c.Engine().Player().Artifacts, 1)
	c.Handle("fight")
	c.Handle("")

	c.Handle("1")
	c.Handle("Deniz")
	assert.Empty(t, c.Engine().Player().Artifacts)
	assert.Zero(t, c.Engine().Player().Wisdom)
}

func TestLoad_NoSavesStartsNewGame(t *testing.T) {
	c, _ := newController(t)
	out := joined(c.Handle("2"))
	assert.Contains(t, out, "No save files found.")
	assert.Contains(t, out, "Starting new game...")
	assert.Equal(t, NamePrompt, c.State())
}

func TestLoad_RoundTrip(t *testing.T) {
	c, store := newController(t)
	c.Handle("1")
	c.Handle("Aylin")
	c.Handle("talk")
	c.Handle("tea")
	c.Handle("leave")
	c.Handle("west")
	out := joined(c.Handle("save trip"))
	assert.Contains(t, out, "trip.sgf")
	c.Handle("fight")
	c.Handle("")

	out = joined(c.Handle("2"))
	assert.Contains(t, out, "1. trip")
	assert.Equal(t, LoadMenu, c.State())

	out = joined(c.Handle("1"))
	assert.Contains(t, out, "Loaded save successfully!")
	assert.Contains(t, out, "You are in Ege Kiyilari")
	assert.Equal(t, Playing, c.State())

	p := c.Engine().Player()
	assert.Equal(t, "Aylin", p.Name)
	assert.Equal(t, 1, p.Wisdom)

	_, err := os.Stat(filepath.Join(store.Dir, "trip.sgf"))
	assert.NoError(t, err)
}

func TestLoad_CancelStartsNewGame(t *testing.T) {
	c, store := newController(t)
	_, err := store.Save("old", save.Record{Name: "Aylin"})
	require.NoError(t, err)

	c.Handle("2")
	require.Equal(t, LoadMenu, c.State())

	out := joined(c.Handle("0"))
	assert.Contains(t, out, "Starting new game...")
	assert.Equal(t, NamePrompt, c.State())
}

func TestLoad_CorruptedStartsNewGame(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, os.MkdirAll(store.Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "bad.sgf"), []byte("Aylin\n"), 0o644))

	out := joined(c.Handle("2"))
	assert.Contains(t, out, "(Corrupted save file)")

	out = joined(c.Handle("1"))
	assert.Contains(t, out, "Error loading save file")
	assert.Contains(t, out, "Starting new game...")
	assert.Equal(t, NamePrompt, c.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "load_menu", LoadMenu.String())
	assert.Equal(t, "state(42)", State(42).String())
}
