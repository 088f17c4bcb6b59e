// Package cli implements the zonecut command-line interface.
//
// The commands read annotated pages (canonical page documents, Label Studio
// exports, detector output or multi-page manifests), run the analysis
// pipeline and print or write the results. The CLI is built using cobra,
// reads an optional TOML config file and logs via charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - order: print the XY-cut reading order of a page
//   - articles: print the articles reconstructed from a page
//   - analyze: run the full pipeline over pages and manifests, with caching
//   - render: draw the article graph as DOT, SVG, PDF or PNG
//   - serve: run the HTTP API
//   - cache, config: inspect and manage local state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every pipeline, cache and server event. The logger is passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g.
// "Analyzed 12 pages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
