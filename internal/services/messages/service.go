package messagesvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/relaykit/relay/internal/storage/pebble"
	"github.com/relaykit/relay/pkg/id"
	"github.com/relaykit/relay/pkg/log"
)

// ErrInvalid marks a request the caller got wrong (missing session id,
// empty message list).
var ErrInvalid = errors.New("invalid request")

// Service persists and lists message records.
type Service struct {
	db     *pebblestore.DB
	gen    *id.Generator
	logger log.Logger
}

// NewService builds a Service over the given store.
func NewService(db *pebblestore.DB, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewLogger(log.WithOutput(log.NullOutput{}))
	}
	return &Service{db: db, gen: id.NewGenerator(), logger: logger.WithComponent("messages")}
}

// Add writes every message in the request under its session in one
// batch and returns the stored records.
func (s *Service) Add(ctx context.Context, req AddRequest) ([]MessageRecord, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: session_id required", ErrInvalid)
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: messages required", ErrInvalid)
	}
	b := s.db.NewBatch()
	defer b.Close()
	recs := make([]MessageRecord, 0, len(req.Messages))
	for _, m := range req.Messages {
		mid := s.gen.Next()
		rec := MessageRecord{
			ID:        mid.String(),
			SessionID: req.SessionID,
			QueryID:   req.QueryID,
			Message:   m,
			CreatedAt: time.UnixMilli(mid.Millis()).UTC().Format(time.RFC3339Nano),
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		if err := b.Set(KeyMessage(req.SessionID, mid.Bytes()), val, nil); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Debug("messages stored",
		log.Str("session", req.SessionID), log.Int("count", len(recs)))
	return recs, nil
}

// List returns a page of records in insertion order, filtered by
// session and optionally by query id. Total counts every match, not
// just the returned page.
func (s *Service) List(ctx context.Context, opts ListOptions) (ListResponse, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	prefix := KeyMessagePrefix(opts.SessionID)
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: PrefixUpperBound(prefix),
	})
	if err != nil {
		return ListResponse{}, err
	}
	defer it.Close()

	out := make([]MessageRecord, 0, opts.Limit)
	total := 0
	for ok := it.First(); ok; ok = it.Next() {
		if err := ctx.Err(); err != nil {
			return ListResponse{}, err
		}
		var rec MessageRecord
		if err := json.Unmarshal(it.Value(), &rec); err != nil {
			s.logger.Warn("skipping undecodable record", log.Err(err))
			continue
		}
		if opts.QueryID != "" && rec.QueryID != opts.QueryID {
			continue
		}
		if total >= opts.Offset && len(out) < opts.Limit {
			out = append(out, rec)
		}
		total++
	}
	return ListResponse{Messages: out, Total: total, Limit: opts.Limit, Offset: opts.Offset}, nil
}
