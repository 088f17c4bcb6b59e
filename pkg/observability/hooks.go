// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries emit events through the registered hooks; binaries decide what
// to do with them. Nothing in the analysis packages depends on a specific
// metrics backend.
//
// # Usage
//
// Register hooks once at startup:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	observability.SetServerHooks(myPrometheusHooks)
//
// Emit events from library code:
//
//	observability.Pipeline().OnAnalyzeStart(ctx, page.ID, len(page.Zones))
//	// ... order and cluster ...
//	observability.Pipeline().OnAnalyzeComplete(ctx, page.ID, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from page analysis.
type PipelineHooks interface {
	OnAnalyzeStart(ctx context.Context, pageID string, zones int)
	OnOrderComplete(ctx context.Context, pageID string, duration time.Duration)
	OnClusterComplete(ctx context.Context, pageID string, articles, unclustered int, duration time.Duration)
	OnAnalyzeComplete(ctx context.Context, pageID string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "result" or
// "page".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives HTTP API traffic. OnRequest fires before routing and
// gets the raw path; OnResponse gets the chi route pattern, so IDs do not
// explode label cardinality.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnAnalyzeStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnOrderComplete(context.Context, string, time.Duration)             {}
func (NoopPipelineHooks) OnClusterComplete(context.Context, string, int, int, time.Duration) {}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, string, time.Duration, error)    {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores every event.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	hooksMu       sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serverHooks   ServerHooks   = NoopServerHooks{}
)

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers server hooks. nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores the no-op hooks. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
