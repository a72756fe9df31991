package controllers

import (
	"context"
	"net/http"

	"github.com/relaykit/relay/internal/relay"
)

// sseSink implements the stream Sink interface for Server-Sent Events.
//
// Chunks travel as "data: <json>\n\n" frames; the end-of-stream
// sentinel is the literal "data: [DONE]\n\n" frame.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

// Send writes one chunk as an SSE data event.
func (s sseSink) Send(c relay.Chunk) error {
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(c); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		return err
	}
	return nil
}

// SendDone writes the completion sentinel.
func (s sseSink) SendDone() error {
	_, err := s.w.Write([]byte("data: [DONE]\n\n"))
	return err
}

// Context returns the request context for cancellation.
func (s sseSink) Context() context.Context {
	return s.r.Context()
}

// Flush flushes the HTTP response writer if it supports flushing.
//
// This ensures that SSE events are immediately sent to the client.
func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
