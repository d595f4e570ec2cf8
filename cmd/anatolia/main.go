// Anatolia is a text adventure across the regions of Anatolia.
// Usage: anatolia [--version] [--plain] [--script <file>] [--trace] [--content <dir>]
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/nathoo/anatolia/cli"
	"github.com/nathoo/anatolia/config"
	"github.com/nathoo/anatolia/content"
	"github.com/nathoo/anatolia/engine"
	"github.com/nathoo/anatolia/engine/save"
	"github.com/nathoo/anatolia/loader"
	"github.com/nathoo/anatolia/logger"
	"github.com/nathoo/anatolia/session"
	"github.com/nathoo/anatolia/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: anatolia [--version] [--plain] [--script <file>] [--trace] [--content <dir>]"

func main() {
	plain := false
	trace := false
	var contentDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("anatolia %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--content":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a path\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--script" {
				scriptFile = args[i+1]
			} else {
				contentDir = args[i+1]
			}
			i++
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n%s\n", args[i], usage)
			os.Exit(1)
		}
	}

	// A missing .env is fine; the environment and defaults still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()

	log, closer, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Load and compile Lua game content.
	var fsys fs.FS = content.FS
	dir := content.Dir
	if contentDir != "" {
		fsys, dir = os.DirFS(contentDir), "."
	}
	defs, err := loader.Load(fsys, dir)
	if err != nil {
		logger.WithError(log, err).Error("loading content", "dir", contentDir)
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	s := session.New(defs, engine.Options{
		Store:      save.NewStore(cfg.SaveDir),
		AlignGates: cfg.AlignGates,
		Logger:     log,
	})

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(s)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(s)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(s); err != nil {
		logger.WithError(log, err).Error("tui exited")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
