package streamsvc

import (
	"errors"
	"time"

	"github.com/relaykit/relay/internal/relay"
	"github.com/relaykit/relay/pkg/log"
)

// ErrLagging is returned when the relay dropped this consumer because it
// could not keep up with live delivery.
var ErrLagging = errors.New("consumer dropped: too far behind")

// streamSession drives one consumer connection: atomic snapshot and
// subscribe, optional replay, live delivery, and teardown on the first
// terminal condition (completion, timeout, disconnect, write failure).
type streamSession struct {
	store   *relay.Store
	queryID string
	opts    ConsumeOptions
	filter  Filter
	sink    Sink
	logger  log.Logger
}

// run executes the session to its terminal state. The subscription is
// released exactly once no matter which edge ends the session.
func (s *streamSession) run() error {
	sub := s.store.SnapshotAndSubscribe(s.queryID)
	defer sub.Cancel()

	delivered := 0
	if s.opts.FromBeginning {
		for _, c := range sub.History {
			for _, piece := range SplitChunk(c, s.opts.MaxChunkSize) {
				if !s.filter.Eval(piece) {
					continue
				}
				if err := s.sink.Send(piece); err != nil {
					return err
				}
				delivered++
			}
		}
		_ = s.sink.Flush()
	}
	if sub.Completed {
		err := s.sink.SendDone()
		_ = s.sink.Flush()
		return err
	}

	// Live delivery. The wait timer only exists while nothing has been
	// delivered; replayed history counts as delivery.
	var timeout <-chan time.Time
	if s.opts.WaitMs > 0 && delivered == 0 {
		t := time.NewTimer(time.Duration(s.opts.WaitMs) * time.Millisecond)
		defer t.Stop()
		timeout = t.C
	}
	ctx := s.sink.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			// Zero chunks observed: close with no frames and no sentinel.
			s.logger.Debug("wait timeout with no chunks", log.Str("query", s.queryID))
			return nil
		case ev, ok := <-sub.C:
			if !ok {
				return ErrLagging
			}
			if ev.Done {
				err := s.sink.SendDone()
				_ = s.sink.Flush()
				return err
			}
			timeout = nil
			if !s.filter.Eval(ev.Chunk) {
				continue
			}
			if err := s.sink.Send(ev.Chunk); err != nil {
				return err
			}
			_ = s.sink.Flush()
		}
	}
}
