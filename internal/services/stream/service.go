package streamsvc

import (
	"context"
	"errors"
	"fmt"
	"io"

	cfgpkg "github.com/relaykit/relay/internal/config"
	"github.com/relaykit/relay/internal/relay"
	"github.com/relaykit/relay/pkg/log"
)

// ErrBadFilter marks a consumer-supplied filter that failed to compile
// or exceeded the configured length.
var ErrBadFilter = errors.New("invalid filter")

// Service is the streaming facade used by the HTTP layer: producer
// ingest, explicit completion, consumer sessions, and status reads.
type Service struct {
	store  *relay.Store
	cfg    cfgpkg.Config
	logger log.Logger
}

// NewService builds a Service around a fresh relay store.
func NewService(cfg cfgpkg.Config, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewLogger(log.WithOutput(log.NullOutput{}))
	}
	return &Service{
		store:  relay.NewStore(relay.Options{SubscriberBuffer: cfg.SubscriberBuffer, Logger: logger}),
		cfg:    cfg,
		logger: logger.WithComponent("stream"),
	}
}

// Store exposes the underlying relay store.
func (s *Service) Store() *relay.Store { return s.store }

// Ingest consumes a producer's NDJSON body for queryID until EOF or
// context cancellation, appending each complete line as one chunk.
func (s *Service) Ingest(ctx context.Context, queryID string, r io.Reader) (IngestResult, error) {
	sess := NewIngestSession(s.store, queryID, s.cfg.IngestLineMaxBytes, s.logger)
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return IngestResult{ChunksReceived: sess.Received(), LinesDropped: sess.Dropped()}, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			sess.Feed(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return IngestResult{ChunksReceived: sess.Received(), LinesDropped: sess.Dropped()}, err
		}
	}
	sess.Flush()
	res := IngestResult{ChunksReceived: sess.Received(), LinesDropped: sess.Dropped()}
	s.logger.Info("ingest session finished",
		log.Str("query", queryID),
		log.Int("chunks", res.ChunksReceived),
		log.Int("dropped", res.LinesDropped))
	return res, nil
}

// Complete marks queryID's log complete. Idempotent; this explicit call
// is the sole completion signal.
func (s *Service) Complete(queryID string) {
	s.store.MarkComplete(queryID)
	s.logger.Info("query completed", log.Str("query", queryID))
}

// CompileFilter compiles expr into a Filter for Consume, so callers
// can reject a bad expression before committing to a streaming
// response. An empty expression yields a disabled filter.
func (s *Service) CompileFilter(expr string) (Filter, error) {
	if s.cfg.FilterMaxLen > 0 && len(expr) > s.cfg.FilterMaxLen {
		return Filter{}, fmt.Errorf("%w: expression too long (max %d)", ErrBadFilter, s.cfg.FilterMaxLen)
	}
	f, err := newCELFilter(expr)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: %v", ErrBadFilter, err)
	}
	return f, nil
}

// Consume runs one consumer session against queryID, writing frames to
// sink until a terminal condition.
func (s *Service) Consume(queryID string, opts ConsumeOptions, sink Sink) error {
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = s.cfg.DefaultMaxChunkSize
	}
	sess := &streamSession{
		store:   s.store,
		queryID: queryID,
		opts:    opts,
		filter:  opts.Filter,
		sink:    sink,
		logger:  s.logger,
	}
	return sess.run()
}

// Status reports the current state of queryID's log.
func (s *Service) Status(queryID string) StatusInfo {
	chunks, completed, subs, known := s.store.Status(queryID)
	return StatusInfo{Query: queryID, Chunks: chunks, Completed: completed, Subscribers: subs, Known: known}
}

// Append adds a single chunk outside an ingest session. Used by tests
// and internal callers.
func (s *Service) Append(queryID string, c relay.Chunk) bool {
	return s.store.Append(queryID, c)
}
