// Package server exposes dependency checks over HTTP.
//
// Clients open a session, which owns one [cache.Cache], and then check
// manifests or resolve single packages against it. Lookups shared by several
// requests in the same session reach the registry once. Clearing a session's
// cache forces fresh registry reads; sessions idle longer than the configured
// TTL are dropped.
//
// Routes:
//
//	POST   /v1/sessions                  open a session, returns {"id": ...}
//	POST   /v1/sessions/{id}/check       body is package.json text
//	GET    /v1/sessions/{id}/resolve     ?name=&constraint=
//	DELETE /v1/sessions/{id}/cache       clear the session cache
//	DELETE /v1/sessions/{id}             close the session
//	GET    /healthz
//	GET    /metrics                      when a metrics handler is configured
package server
