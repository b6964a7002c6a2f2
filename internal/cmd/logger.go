package cmd

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger returns a timestamped logger writing to w at info level, or debug
// when verbose is set.
func NewLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
