// Package streamsvc implements the streaming service on top of the relay
// store: NDJSON ingest sessions, per-consumer stream sessions with replay
// and wait policy, content chunk splitting, and CEL-based chunk filters.
package streamsvc
