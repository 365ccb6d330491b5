// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about ordering runs,
// graph rendering, cache operations and API requests, without this module
// depending on any particular observability backend.
//
// # Architecture
//
// Each event category has a hook interface, a no-op implementation and a
// global registry slot. Libraries call the registered hooks; main decides
// what is registered.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetOrderingHooks(&myOrderingHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Ordering().OnOrderStart(ctx, module)
//	// ... order fragments ...
//	observability.Ordering().OnOrderComplete(ctx, module, mode, fragments, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Ordering Hooks
// =============================================================================

// OrderingHooks receives events from ordering runs and graph rendering.
type OrderingHooks interface {
	// Order events. mode is empty when the run failed before a mode was chosen.
	OnOrderStart(ctx context.Context, module string)
	OnOrderComplete(ctx context.Context, module, mode string, fragments int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopOrderingHooks is a no-op implementation of OrderingHooks.
type NoopOrderingHooks struct{}

func (NoopOrderingHooks) OnOrderStart(context.Context, string) {}
func (NoopOrderingHooks) OnOrderComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopOrderingHooks) OnRenderStart(context.Context, string)                        {}
func (NoopOrderingHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                        {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	orderingHooks OrderingHooks = NoopOrderingHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetOrderingHooks registers custom ordering hooks.
// This should be called once at application startup before any ordering runs.
func SetOrderingHooks(h OrderingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		orderingHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Ordering returns the registered ordering hooks.
func Ordering() OrderingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return orderingHooks
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
	orderingHooks = NoopOrderingHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
