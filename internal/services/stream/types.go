package streamsvc

import (
	"context"

	"github.com/relaykit/relay/internal/relay"
)

// ConsumeOptions controls a single consumer stream session.
type ConsumeOptions struct {
	// FromBeginning replays the buffered history before live delivery.
	FromBeginning bool
	// WaitMs closes the session if it fires before any chunk is observed.
	// Zero disables the timeout.
	WaitMs int64
	// MaxChunkSize bounds replayed delta content length. Zero means the
	// configured default.
	MaxChunkSize int
	// Filter is evaluated per chunk. Build it with Service.CompileFilter;
	// the zero value passes everything.
	Filter Filter
}

// Sink receives wire frames for one consumer connection.
type Sink interface {
	Send(relay.Chunk) error
	// SendDone writes the end-of-stream sentinel.
	SendDone() error
	Context() context.Context
	Flush() error
}

// IngestResult summarizes one producer connection.
type IngestResult struct {
	ChunksReceived int
	LinesDropped   int
}

// StatusInfo describes the current state of one query's log.
type StatusInfo struct {
	Query       string `json:"query"`
	Chunks      int    `json:"chunks"`
	Completed   bool   `json:"completed"`
	Subscribers int    `json:"subscribers"`
	Known       bool   `json:"known"`
}
