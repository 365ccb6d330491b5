// Package cli implements the fragorder command-line interface.
//
// The CLI orders the fragments of a module manifest, renders the relative
// ordering constraint graph, serves the same operations over HTTP, and manages
// the local result cache. It is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - order: Print the fragment load order of a manifest
//   - graph: Render the constraint graph as DOT, SVG or JSON
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces ordering runs and cache activity.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered svg graph (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnOrderStart(_ context.Context, module string) {
	h.logger.Debug("ordering", "module", module)
}

func (h *logHooks) OnOrderComplete(_ context.Context, module, mode string, fragments int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("ordering failed", "module", module, "err", err, "duration", d)
		return
	}
	h.logger.Debug("ordered", "module", module, "mode", mode, "fragments", fragments, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("rendering", "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("rendered", "format", format, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}
