// Package cli implements the chanroute command-line interface.
//
// The commands route channels, render routed channels as text plots or
// Graphviz diagrams, generate pin rows, step through a routing
// interactively, serve the HTTP API and manage the local cache and run
// history. The CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
//   - route: Route a channel from a pin file, inline rows or a named example
//   - render: Plot a routed channel (txt, json, dot, svg, png, pdf)
//   - generate: Write random or example pin rows
//   - step: Walk a routing column by column in the terminal
//   - serve: Run the HTTP API
//   - history: List, show and delete recorded runs
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// timeFormat prints hundredths of a second, e.g. "14:32:01.45".
const timeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           level,
	})
}

// progress times one command step, such as a routing or a render.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time in milliseconds:
//
//	14:32:01.45 INFO Routed 4 nets in 3 tracks elapsed=12ms
func (p *progress) done(msg string) {
	p.logger.Info(msg, "elapsed", time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx. RootCommand does this before any subcommand
// runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() for a bare context.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
