// Package logging sets up the structured console logger used by the edlkit
// command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/edlkit/model"
)

// LogLevel represents logging levels
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ParseLevel converts a level name to a zerolog level
func ParseLevel(name string) (zerolog.Level, error) {
	switch LogLevel(strings.ToLower(strings.TrimSpace(name))) {
	case LevelDebug:
		return zerolog.DebugLevel, nil
	case LevelInfo, "":
		return zerolog.InfoLevel, nil
	case LevelWarn, "warning":
		return zerolog.WarnLevel, nil
	case LevelError:
		return zerolog.ErrorLevel, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// Config holds logger configuration
type Config struct {
	Level   LogLevel  // Minimum log level (default: info)
	Out     io.Writer // Destination (default: stderr)
	NoColor bool
}

// New creates a console logger
func New(cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(string(cfg.Level))
	if err != nil {
		return zerolog.Nop(), err
	}
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger(), nil
}

// Component returns a logger with the component field set
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Warnings logs each warning at warn level
func Warnings(l zerolog.Logger, file string, warnings []model.Warning) {
	for _, w := range warnings {
		event := l.Warn().Str("file", file)
		if w.Line > 0 {
			event = event.Int("line", w.Line)
		}
		if w.Object != "" {
			event = event.Str("object", w.Object)
		}
		event.Msg(w.Message)
	}
}
