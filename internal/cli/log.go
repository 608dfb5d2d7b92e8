// Package cli implements the dashlayout command-line interface.
//
// Commands work on layouts (place, compact, check and preview components
// on the grid), panels (compute, drag and persist the three-panel window
// widths), the UI state store, and the HTTP API server. The CLI is built
// using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
//   - layout: Show, edit and validate dashboard layouts
//   - panels: Calculate, drag and persist panel widths
//   - store: Inspect or clear persisted UI state
//   - serve: Run the HTTP API
//   - config: Print or initialize the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Otherwise
// the level comes from the [log] section of the configuration file.
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

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Compacted 5 components (1.234ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Microsecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
