// Package vpdlog configures the daemon's structured logger: a global
// zerolog base logger plus small helpers for deriving per-component and
// per-session child loggers.
package vpdlog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls Configure.
type Config struct {
	Level  string    // zerolog level name; empty means "info"
	Output io.Writer // defaults to os.Stderr
}

var (
	mu   sync.RWMutex
	base = zerolog.Nop()
)

// Configure initializes the global base logger. Call once at startup,
// before any component logger is derived from it.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	base = zerolog.New(writer).With().Timestamp().Str("service", "vpd").Logger()
}

// Base returns the configured base logger. Safe to call before Configure
// — it returns a zerolog.Nop() logger until then so tests and early
// startup code never need a nil check.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger tagged with component, e.g.
// "session", "player", "reactor".
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
