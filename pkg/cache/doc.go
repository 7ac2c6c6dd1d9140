// Package cache memoizes version resolutions for the life of a process.
//
// # Overview
//
// [Cache] wraps a [Resolver] and keys results by "name@constraint" (see
// [Key]). For each key it guarantees:
//
//   - a resolved report is returned without touching the network again
//   - concurrent lookups share one in-flight resolution (singleflight)
//   - absent results are never stored, so the next lookup retries
//
// Nothing is persisted. [Cache.Clear] drops every stored report and forgets
// in-flight work; a resolution that was already running when Clear was called
// still answers its callers but does not repopulate the cleared cache.
//
// # Usage
//
//	c := cache.New(resolver)
//	report, ok := c.Lookup(ctx, "express", "^4.17.0", nil)
//
// A caller whose context is cancelled gets an absent result immediately. The
// resolution itself runs detached from that context and still fills the cache
// for later callers.
package cache
