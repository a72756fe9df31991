// Package relay holds the in-memory chunk relay: append-only per-query
// chunk logs, live subscriber fan-out, and the snapshot+subscribe
// primitive that guarantees a joining consumer sees every chunk exactly
// once with no gap between replayed history and live delivery.
//
// The store is memory resident. Logs live for the process lifetime and
// are retained after completion so late joiners replay the full history
// immediately.
package relay
