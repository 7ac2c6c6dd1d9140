// Package integrations provides the HTTP plumbing for package registry APIs.
//
// # Overview
//
// The [Client] type performs JSON GET requests against a registry with:
//   - a request timeout on the underlying http.Client
//   - optional client-side rate limiting (golang.org/x/time/rate)
//   - optional retry of transient failures via [httputil.Retry]
//   - typed failures: [ErrNotFound], [ErrRateLimited], [ErrNetwork], [ErrMalformed]
//   - request/response events reported to [observability.HTTP]
//
// Registry-specific clients live in subpackages:
//
//   - [npm]: Node Package Manager
//
// # Client Pattern
//
//	base := integrations.NewClient(integrations.WithRetries(1))
//	client := npm.NewClient(base, "")
//	doc, err := client.FetchDocument(ctx, "express")
//
// Responses are never persisted; callers that want memoization wrap the
// registry client in [cache.Cache].
//
// [npm]: github.com/matzehuels/upgrader/pkg/integrations/npm
// [httputil.Retry]: github.com/matzehuels/upgrader/pkg/httputil.Retry
// [observability.HTTP]: github.com/matzehuels/upgrader/pkg/observability.HTTP
// [cache.Cache]: github.com/matzehuels/upgrader/pkg/cache.Cache
package integrations
