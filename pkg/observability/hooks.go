// Package observability provides hooks for render, cache and HTTP events.
//
// Hooks let a binary count or export events without the libraries importing
// a metrics backend. Defaults are no-ops; register implementations at
// startup:
//
//	counters := &observability.Counters{}
//	observability.SetPipelineHooks(counters)
//	observability.SetCacheHooks(counters)
//
// Libraries emit events through the registry:
//
//	observability.Pipeline().OnRenderStart(ctx, entry.Name)
//	// ... render ...
//	observability.Pipeline().OnRenderComplete(ctx, entry.Name, len(files), duration, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the render pipeline, once per catalog
// entry.
type PipelineHooks interface {
	OnRenderStart(ctx context.Context, entry string)
	OnRenderComplete(ctx context.Context, entry string, files int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from artifact cache lookups. format is the
// output format of the artifact.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, format string)
	OnCacheMiss(ctx context.Context, format string)
	OnCacheSet(ctx context.Context, format string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the preview server. route is the matched
// route pattern, not the raw path.
type HTTPHooks interface {
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Counters
// =============================================================================

// Counters tallies events. It implements every hook interface and is safe
// for concurrent use.
type Counters struct {
	Rendered    atomic.Int64 // entries rendered successfully
	Failed      atomic.Int64 // entries that returned an error
	Files       atomic.Int64
	CacheHits   atomic.Int64
	CacheMisses atomic.Int64
	CacheBytes  atomic.Int64 // bytes written to the cache
	Requests    atomic.Int64
	ServerErrs  atomic.Int64 // responses with status >= 500
}

func (c *Counters) OnRenderStart(context.Context, string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ string, files int, _ time.Duration, err error) {
	if err != nil {
		c.Failed.Add(1)
		return
	}
	c.Rendered.Add(1)
	c.Files.Add(int64(files))
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.CacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.CacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.CacheBytes.Add(int64(size))
}

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	c.Requests.Add(1)
	if status >= 500 {
		c.ServerErrs.Add(1)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
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

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
