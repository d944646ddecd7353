// Package logging provides zerolog-based structured logging for the
// service. Components obtain a tagged logger via Component; every security
// event helper stamps the request's correlation id so audit consumers can
// stitch the pipeline's stages back together.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: debug, info, warn, error. Default: info.
	Level string
	// Format is json or console. Default: json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	mu   sync.RWMutex
	root = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the root logger. Safe to call once at startup; loggers
// created by Component afterwards inherit the configuration.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	root = zerolog.New(out).Level(level).With().Timestamp().Logger()
	mu.Unlock()
}

// Component returns a logger tagged with the component name
// (e.g. "orchestrator", "policy_store", "auth_registry").
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.With().Str("component", name).Logger()
}
