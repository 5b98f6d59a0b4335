// control/logging.go
// Author: momentics <momentics@gmail.com>
//
// Logger construction for the bridge binaries.

package control

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger. Output goes to stderr: stdout is
// the data channel in every bridge and must stay clean. An unparseable
// level falls back to info with a warning rather than refusing to start.
func NewLogger(app, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		logger = logger.Level(zerolog.InfoLevel)
		logger.Warn().Str("level", level).Msg("unknown log level, using info")
	} else {
		logger = logger.Level(lvl)
	}
	log.Logger = logger
	return logger
}
