// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Format values accepted by Configure
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a logger writing to w at the given level. Console format wraps w
// in a zerolog.ConsoleWriter; "auto" picks console only when w is a terminal.
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)

	logger := zerolog.New(writerFor(w, format)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	if lvl <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Configure installs a logger as zerolog's global log.Logger and returns it.
func Configure(w io.Writer, level, format string) zerolog.Logger {
	logger := New(w, level, format)
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = logger
	return logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "off", "disabled", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func writerFor(w io.Writer, format string) io.Writer {
	switch strings.ToLower(format) {
	case FormatJSON:
		return w
	case FormatConsole:
		return consoleWriter(w)
	default:
		if isTerminal(w) {
			return consoleWriter(w)
		}
		return w
	}
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "" || !isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
