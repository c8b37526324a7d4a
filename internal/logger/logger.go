package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance. It defaults to a no-op
// logger so packages can log before Init runs (or without it, in tests).
var Logger = zerolog.Nop()

// Init initializes the logger. Diagnostics go to stderr so that command
// output on stdout stays clean and pipeable. The level comes from
// MARTILLO_LOG and defaults to warn: the CLI is quiet unless something
// actually went wrong.
func Init() {
	zerolog.SetGlobalLevel(parseLogLevel(os.Getenv("MARTILLO_LOG")))

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	Logger = zerolog.New(output).With().
		Timestamp().
		Logger()

	// Set the global logger
	log.Logger = Logger
}

// parseLogLevel parses string log level to zerolog level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.WarnLevel
	default:
		return zerolog.WarnLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
