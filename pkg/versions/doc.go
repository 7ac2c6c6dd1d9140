// Package versions turns a registry's version history into upgrade candidates.
//
// # Overview
//
// A [Resolver] fetches one registry document per call through a [Fetcher],
// keeps the keys that are valid semantic versions, sorts them newest first,
// splits off pre-releases, and classifies two upgrade candidates relative to
// the declared constraint:
//
//   - LatestMinor: the newest stable release in the current major line that
//     is strictly newer than the current version
//   - LatestMajor: the newest stable release of the lowest major above the
//     current one
//
// The current version is derived from the constraint with [Coerce], which
// mirrors npm's semver.coerce: "^1.2" becomes 1.2.0, "~3" becomes 3.0.0.
//
// # Usage
//
//	resolver := versions.NewResolver(versions.NewNPMFetcher(npm.NewClient(nil, "")))
//	report, ok := resolver.Resolve(ctx, "express", "^4.17.0", nil)
//	if ok {
//	    fmt.Println(report.LatestMinor, report.LatestMajor)
//	}
//
// Resolution is all-or-nothing: any failure (unknown package, network fault,
// malformed document, uncoercible constraint) yields no report. The cause is
// logged at debug level and reported to [observability.Resolve] hooks.
//
// [Build] and [Classify] expose the pure steps for callers that already hold
// the registry data.
//
// [observability.Resolve]: github.com/matzehuels/upgrader/pkg/observability.Resolve
package versions
