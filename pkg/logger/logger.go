// Package logger provides component-scoped structured logging for the
// PEDAGOGY reasoner service, backed by rs/zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stdout
	pretty bool
)

// Setup configures the global log level and output format. level accepts
// the usual names (debug, info, warn, error); env "development" switches
// to the human-readable console writer.
func Setup(level, env string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	mu.Lock()
	pretty = strings.EqualFold(env, "development") || strings.EqualFold(env, "dev")
	mu.Unlock()
	return nil
}

// SetOutput overrides the log destination. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// New returns a logger tagged with the given component field.
func New(component string) zerolog.Logger {
	mu.Lock()
	w := output
	p := pretty
	mu.Unlock()

	if p {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}

// ParseLevel converts a level name into a zerolog.Level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "fatal":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("logger: unknown level %q", s)
	}
}
