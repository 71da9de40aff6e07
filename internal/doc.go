// Package internal documents the server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, rendering, and routing
// - domain/history: the embedded bilingual dataset and lookup service
// - auth: rolling tokens and request signatures
// - cache, config, metrics, seo, telemetry: shared infrastructure
// - loadtest: synthetic traffic generation against a running server
//
// Code in internal/ is not meant for external import.
package internal
