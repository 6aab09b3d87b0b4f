// Package logger builds the run's zerolog logger.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New creates a logger writing to stderr so stdout stays clean for dry-run
// payload output. format "pretty" selects the console writer; anything else
// emits JSON lines.
func New(level, format string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	var output io.Writer = os.Stderr
	if format == "pretty" {
		output = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	return zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
}
