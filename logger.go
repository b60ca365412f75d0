package trancepoint

import (
	"io"
	"log/slog"
	"time"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

// NewLogger returns a slog logger writing human readable lines to w through
// zerolog. debug lowers the level from Info to Debug.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp, NoColor: true}
	log := zerolog.New(output).With().Timestamp().Logger()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}))
}
