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
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered hairpin.svg (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
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
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnEdit(op, mode string, nodes, edges int) {
	h.logger.Debug("edit", "op", op, "mode", mode, "nodes", nodes, "edges", edges)
}

func (h logHooks) OnModeChange(from, to string) {
	h.logger.Debug("mode", "from", from, "to", to)
}

func (h logHooks) OnStoreGet(_ context.Context, backend, name string, found bool, d time.Duration, err error) {
	h.logger.Debug("store get", "backend", backend, "name", name, "found", found, "took", d, "err", err)
}

func (h logHooks) OnStoreSave(_ context.Context, backend, name string, size int, d time.Duration, err error) {
	h.logger.Debug("store save", "backend", backend, "name", name, "size", size, "took", d, "err", err)
}

func (h logHooks) OnStoreDelete(_ context.Context, backend, name string, err error) {
	h.logger.Debug("store delete", "backend", backend, "name", name, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}
