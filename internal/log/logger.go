package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the console logger used by the CLI and passed down to the client packages.
func New(environment, level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, environment, level)
}

func NewWithWriter(w io.Writer, environment, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    isProduction(environment),
	}

	return zerolog.New(output).
		Level(parseLevel(level, environment)).
		With().
		Timestamp().
		Str("env", environment).
		Logger()
}

func parseLevel(level, environment string) zerolog.Level {
	if strings.TrimSpace(level) != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}
	if isProduction(environment) {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

func isProduction(environment string) bool {
	env := strings.ToLower(environment)
	return env == "production" || env == "prod"
}
