// Package logging builds the process-wide zerolog logger and adapts it
// to the processor.Logger interface for per-line diagnostics.
package logging

import (
	"os"

	"github.com/rs/zerolog"

	"mbpbook/config"
)

// New builds a logger from cfg: JSON to stderr by default, or a
// human-readable console writer when Pretty is set. An unrecognized
// level falls back to info.
func New(cfg config.Logging) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer = os.Stderr
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: writer}).Level(level).With().Timestamp().Logger()
	}
	return logger
}

// Adapter satisfies processor.Logger over a zerolog.Logger.
type Adapter struct {
	Logger zerolog.Logger
}

// Warn logs msg at warn level with err and fields attached.
func (a Adapter) Warn(msg string, err error, fields map[string]any) {
	ev := a.Logger.Warn().Err(err)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
