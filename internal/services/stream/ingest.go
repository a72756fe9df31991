package streamsvc

import (
	"bytes"
	"encoding/json"

	"github.com/relaykit/relay/internal/relay"
	"github.com/relaykit/relay/pkg/log"
)

// IngestSession incrementally parses one producer's byte stream into
// newline-delimited JSON chunks and appends each to the relay store as
// soon as its line completes. Malformed lines are dropped and logged;
// the session continues. Stream end does not complete the query; a
// producer may spread one query across several ingest sessions.
type IngestSession struct {
	store   *relay.Store
	queryID string
	maxLine int
	logger  log.Logger

	buf        []byte
	discarding bool
	received   int
	dropped    int
}

// NewIngestSession builds a session for queryID. maxLine caps a single
// line; anything longer is discarded up to the next boundary.
func NewIngestSession(store *relay.Store, queryID string, maxLine int, logger log.Logger) *IngestSession {
	if maxLine <= 0 {
		maxLine = 1 << 20
	}
	return &IngestSession{store: store, queryID: queryID, maxLine: maxLine, logger: logger}
}

// Feed consumes the next slice of the byte stream. Complete lines are
// parsed and appended immediately; a partial tail is retained for the
// next call.
func (s *IngestSession) Feed(p []byte) {
	s.buf = append(s.buf, p...)
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		line := s.buf[:i]
		s.buf = s.buf[i+1:]
		if s.discarding {
			s.discarding = false
			s.dropped++
			continue
		}
		if len(line) > s.maxLine {
			s.dropped++
			s.logger.Warn("ingest line exceeds limit, dropped",
				log.Str("query", s.queryID), log.Int("limit", s.maxLine))
			continue
		}
		s.processLine(line)
	}
	if len(s.buf) > s.maxLine {
		if !s.discarding {
			s.logger.Warn("ingest line exceeds limit, discarding",
				log.Str("query", s.queryID), log.Int("limit", s.maxLine))
			s.discarding = true
		}
		s.buf = s.buf[:0]
	}
}

// Flush parses a trailing unterminated line, if any. Call once at
// stream end.
func (s *IngestSession) Flush() {
	if s.discarding {
		s.discarding = false
		s.dropped++
		s.buf = s.buf[:0]
		return
	}
	if len(s.buf) > 0 {
		s.processLine(s.buf)
		s.buf = s.buf[:0]
	}
}

func (s *IngestSession) processLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	if !json.Valid(line) {
		s.dropped++
		s.logger.Warn("malformed ingest line dropped", log.Str("query", s.queryID))
		return
	}
	chunk := make(relay.Chunk, len(line))
	copy(chunk, line)
	if s.store.Append(s.queryID, chunk) {
		s.received++
	} else {
		s.dropped++
	}
}

// Received returns the number of chunks appended so far.
func (s *IngestSession) Received() int { return s.received }

// Dropped returns the number of lines discarded so far.
func (s *IngestSession) Dropped() int { return s.dropped }
