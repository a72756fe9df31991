// Package httpserver exposes the relay over HTTP: producer ingest,
// explicit completion, SSE consumption, status, health, and message
// record CRUD. Routes are registered through a controller registry.
package httpserver
