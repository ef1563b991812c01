package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// PipelineHooks, CacheHooks and ServerHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to the default logger when l
// is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnRouteStart(_ context.Context, nets, length int) {
	h.Logger.Debug("route start", "nets", nets, "length", length)
}

func (h *LogHooks) OnRetry(_ context.Context, try, width int, cause error) {
	h.Logger.Debug("route retry", "try", try, "width", width, "cause", cause)
}

func (h *LogHooks) OnRouteComplete(_ context.Context, width, tries int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("route failed", "tries", tries, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("route complete", "width", width, "tries", tries, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, vizType string, nets int) {
	h.Logger.Debug("layout start", "viz", vizType, "nets", nets)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	h.Logger.Debug("layout complete", "viz", vizType, "duration", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
