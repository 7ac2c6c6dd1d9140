// Package httputil holds the retry policy of the registry client.
//
// Only errors marked with [Retryable] or [RetryAfter] are retried. Transport
// failures, 5xx responses and 429 responses are marked by the client; a 429's
// Retry-After header sets the minimum pause via [ParseRetryAfter].
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// With one attempt, the configured default, a lookup costs exactly one
// registry request.
package httputil
