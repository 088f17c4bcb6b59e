package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charmbracelet logger at debug level,
// except failures and server responses which are logged at info or above.
// It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, prefixed with "obs".
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, pageID string, zones int) {
	h.logger.Debug("analyze start", "page", pageID, "zones", zones)
}

func (h *LogHooks) OnOrderComplete(_ context.Context, pageID string, d time.Duration) {
	h.logger.Debug("reading order", "page", pageID, "duration", d)
}

func (h *LogHooks) OnClusterComplete(_ context.Context, pageID string, articles, unclustered int, d time.Duration) {
	h.logger.Debug("clustering", "page", pageID, "articles", articles, "unclustered", unclustered, "duration", d)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, pageID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("analyze failed", "page", pageID, "duration", d, "err", err)
		return
	}
	h.logger.Debug("analyze done", "page", pageID, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	lvl := log.InfoLevel
	if status >= 500 {
		lvl = log.ErrorLevel
	}
	h.logger.Log(lvl, "response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
