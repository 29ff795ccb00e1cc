// Package server hosts the local control API: a Gin engine behind a
// ServeMux, served over HTTP/1.1 and h2c, with lifecycle management through
// the component registry.
//
// # Middleware
//
// Applied around every route (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin access for local web frontends
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /info: build and version information
package server
