// Package logging configures the process-wide logger. Every run gets a
// run id so log lines from concurrent Actions jobs can be told apart.
package logging

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger for one run and returns the run id.
// Unknown levels fall back to info rather than failing the run.
func Setup(level string) string {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	runID := uuid.NewString()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()

	return runID
}
