package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ResolveHooks receives events from the version resolver.
type ResolveHooks interface {
	// OnResolveStart is called before the registry is asked about pkg.
	OnResolveStart(ctx context.Context, pkg string)

	// OnResolveComplete is called once the lookup has finished. found is
	// false when no report was produced; err carries the cause if known.
	OnResolveComplete(ctx context.Context, pkg string, found bool, duration time.Duration, err error)
}

// CacheHooks receives events from the lookup cache. Keys are name@constraint.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	// OnCacheShared means the caller joined a resolution already in flight.
	OnCacheShared(ctx context.Context, key string)
	OnCacheClear(entries int)
}

// HTTPHooks receives events from registry requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError is called for transport failures; HTTP error statuses go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopResolveHooks ignores every event. Embed it to implement a subset.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(context.Context, string)                                {}
func (NoopResolveHooks) OnResolveComplete(context.Context, string, bool, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)    {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)   {}
func (NoopCacheHooks) OnCacheShared(context.Context, string) {}
func (NoopCacheHooks) OnCacheClear(int)                      {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// Hooks is the set of installed event sinks.
type Hooks struct {
	Resolve ResolveHooks
	Cache   CacheHooks
	HTTP    HTTPHooks
}

func noop() *Hooks {
	return &Hooks{Resolve: NoopResolveHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

var installed atomic.Pointer[Hooks]

func current() *Hooks {
	if h := installed.Load(); h != nil {
		return h
	}
	return noop()
}

// Install replaces the hooks that are non-nil in h, keeps the others, and
// returns a function that puts the previous set back.
func Install(h Hooks) (restore func()) {
	for {
		prev := installed.Load()
		next := *current()
		if h.Resolve != nil {
			next.Resolve = h.Resolve
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if installed.CompareAndSwap(prev, &next) {
			return func() { installed.Store(prev) }
		}
	}
}

// Reset restores the no-op hooks.
func Reset() { installed.Store(nil) }

// Resolve returns the installed resolve hooks.
func Resolve() ResolveHooks { return current().Resolve }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current().Cache }

// HTTP returns the installed registry request hooks.
func HTTP() HTTPHooks { return current().HTTP }
