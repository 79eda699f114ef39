// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config describes a logger.
type Config struct {
	// Level is trace, debug, info, warn, error, fatal, panic or disabled.
	// Unknown values select info.
	Level string

	// Format is json (default) or console.
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	// Timestamp adds a "time" field in RFC 3339.
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig is the logger used before Init runs.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// global is swapped atomically so Init may race with logging calls.
var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // logging must work before main calls Init
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	Init(DefaultConfig())
}

// New builds a logger from cfg without touching the global logger. The level
// is applied to the logger itself, so several loggers with different levels
// can coexist (cmd/rank logs to stderr at its own level).
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Init replaces the global logger.
func Init(cfg Config) {
	l := New(cfg)
	global.Store(&l)
}

// ParseLevel maps a level name to zerolog. Unknown or empty names select info.
func ParseLevel(level string) zerolog.Level {
	l, _ := lookupLevel(level)
	return l
}

// ValidLevel reports whether ParseLevel recognizes level.
func ValidLevel(level string) bool {
	_, ok := lookupLevel(level)
	return ok
}

func lookupLevel(level string) (zerolog.Level, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zerolog.WarnLevel, true
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return l, true
}

// Logger returns a copy of the global logger for injection into components.
func Logger() zerolog.Logger {
	return *global.Load()
}

// Info starts an info entry on the global logger.
func Info() *zerolog.Event {
	return global.Load().Info()
}

// Warn starts a warn entry on the global logger.
func Warn() *zerolog.Event {
	return global.Load().Warn()
}

// Error starts an error entry on the global logger.
func Error() *zerolog.Event {
	return global.Load().Error()
}

// Fatal starts a fatal entry; os.Exit(1) follows Msg.
func Fatal() *zerolog.Event {
	return global.Load().Fatal()
}

// NewTestLogger writes every level to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.TraceLevel)
}
