package runner

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. format is "json" for slog's JSON
// handler, or "text"/"logfmt" for a charmbracelet/log handler.
func NewLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	charmLevel := log.InfoLevel
	if verbose {
		level = slog.LevelDebug
		charmLevel = log.DebugLevel
	}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	case "text", "logfmt":
		formatter := log.TextFormatter
		if format == "logfmt" {
			formatter = log.LogfmtFormatter
		}
		h := log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Level:           charmLevel,
			Formatter:       formatter,
		})
		return slog.New(h), nil
	}
	return nil, fmt.Errorf("unknown log format %q (want json, text or logfmt)", format)
}
