// Package observability lets an application watch version resolution, cache
// behaviour and registry traffic without the libraries depending on a metrics
// backend.
//
// Libraries report events through [Resolve], [Cache] and [HTTP]. Nothing is
// recorded until the application installs its own implementations:
//
//	restore := observability.Install(observability.Hooks{
//	    Cache: myCacheHooks,
//	})
//	defer restore()
//
// The upgrader server installs Prometheus-backed hooks from internal/metrics.
package observability
