// Package config reads runtime settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LogOff disables the log file when used as ANATOLIA_LOG_FILE.
const LogOff = "off"

// Config holds the runtime settings.
type Config struct {
	SaveDir     string     // ANATOLIA_SAVE_DIR
	LogFile     string     // ANATOLIA_LOG_FILE, LogOff disables logging
	Environment string     // ENVIRONMENT, "production" switches logs to JSON
	LogLevel    slog.Level // LOG_LEVEL
	AlignGates  bool       // ANATOLIA_ALIGN_GATES, confront checks the battle gate
}

// Load reads the configuration. Callers load any .env file beforehand.
func Load() *Config {
	return &Config{
		SaveDir:     getEnv("ANATOLIA_SAVE_DIR", "saves"),
		LogFile:     getEnv("ANATOLIA_LOG_FILE", "anatolia.log"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		AlignGates:  parseBool(getEnv("ANATOLIA_ALIGN_GATES", "false")),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
	return err == nil && b
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
