// Package logging configures the process-wide zerolog logger and hands out
// component loggers. Every line carries service=shop-admin; component
// loggers add component and, for per-screen code, screen.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is attached to every log line as the "service" field.
const ServiceName = "shop-admin"

// LogLevel is a configured level name.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// consoleTimeFormat is the timestamp layout of pretty output.
const consoleTimeFormat = "15:04:05"

var levels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Config selects level and format of the global logger.
type Config struct {
	Level LogLevel

	// Pretty switches from JSON lines to zerolog's console format.
	Pretty bool

	// Output defaults to os.Stderr when nil.
	Output io.Writer
}

// DefaultConfig is JSON at info level on stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Output: os.Stderr}
}

// Setup installs the global logger described by cfg and returns it.
// Unknown levels log at info.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat, NoColor: !isTerminal(out)}
	}

	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
	return log.Logger
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	_, ok := levels[normalizeLevel(s)]
	return ok
}

func parseLevel(level LogLevel) zerolog.Level {
	if l, ok := levels[normalizeLevel(string(level))]; ok {
		return l
	}
	return zerolog.InfoLevel
}

func normalizeLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isTerminal reports whether w is a character device such as a TTY.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// NewLogger derives a logger for component from the global logger.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForScreen derives a logger for component working on one admin screen.
func ForScreen(component, screen string) zerolog.Logger {
	return log.With().Str("component", component).Str("screen", screen).Logger()
}

// Levels used across the module:
//
//	debug  fetch issued/applied (generation, page, limit), stale results dropped
//	info   server start and stop, exports, dashboard requests
//	warn   list fetch failures, session store errors, API retries
//	error  startup failures such as an unreachable Redis
//
// Shared fields: component, screen, endpoint, page, limit, generation,
// status, status_code, request_id.
