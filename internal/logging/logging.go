// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the CLI logger. Logs go to stderr so that the
// rendered rows on stdout stay pipeable.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at info level, or debug
// level when debug is set.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}
