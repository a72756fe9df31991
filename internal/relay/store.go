package relay

import (
	"sync"

	"github.com/relaykit/relay/pkg/id"
	"github.com/relaykit/relay/pkg/log"
)

// Event is one fan-out delivery to a subscriber. Done marks completion
// of the query; Chunk is nil on a Done event.
type Event struct {
	Chunk Chunk
	Done  bool
}

// Subscription is the result of SnapshotAndSubscribe. History holds the
// chunks appended before registration; C delivers everything appended
// after, in order, terminated by a Done event when the query completes.
// C is closed without a Done event if the subscriber fell too far behind
// and was dropped.
type Subscription struct {
	History   []Chunk
	Completed bool
	C         <-chan Event

	store   *Store
	queryID string
	subID   string
}

// Cancel removes the subscriber registration. Idempotent; safe to call
// from any teardown path, racing or repeated.
func (s *Subscription) Cancel() {
	if s.store == nil {
		return
	}
	s.store.unsubscribe(s.queryID, s.subID)
}

type subscriber struct {
	id string
	ch chan Event
}

// Options configures a Store.
type Options struct {
	// SubscriberBuffer is the buffered event capacity per subscriber.
	// A subscriber whose buffer fills is dropped; other subscribers and
	// the producer are unaffected.
	SubscriberBuffer int
	Logger           log.Logger
}

// Store owns all chunk logs and live subscriber sets, keyed by query id.
// Entries are created lazily on first use and never evicted.
//
// One mutex covers every mutation so snapshot and registration happen as
// a single step: no chunk is delivered both in History and on C, and no
// chunk appended after registration is ever missing.
type Store struct {
	mu     sync.Mutex
	logs   map[string]*ChunkLog
	subs   map[string]map[string]*subscriber
	buf    int
	gen    *id.Generator
	logger log.Logger
}

// NewStore builds an empty Store.
func NewStore(opts Options) *Store {
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = 1024
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewLogger(log.WithOutput(log.NullOutput{}))
	}
	return &Store{
		logs:   map[string]*ChunkLog{},
		subs:   map[string]map[string]*subscriber{},
		buf:    opts.SubscriberBuffer,
		gen:    id.NewGenerator(),
		logger: logger.WithComponent("relay"),
	}
}

func (s *Store) logFor(queryID string) *ChunkLog {
	l, ok := s.logs[queryID]
	if !ok {
		l = &ChunkLog{}
		s.logs[queryID] = l
	}
	return l
}

// Append records a chunk for queryID and synchronously fans it out to
// every live subscriber of that key. Each delivery is independent; a
// subscriber that cannot accept the event is dropped without affecting
// the others. Returns false when the log is already complete, in which
// case nothing is stored or delivered.
func (s *Store) Append(queryID string, c Chunk) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.logFor(queryID)
	if !l.Append(c) {
		s.logger.Warn("append after complete dropped", log.Str("query", queryID))
		return false
	}
	for subID, sub := range s.subs[queryID] {
		select {
		case sub.ch <- Event{Chunk: c}:
		default:
			s.logger.Warn("subscriber overflow, dropping",
				log.Str("query", queryID), log.Str("subscriber", subID))
			s.removeLocked(queryID, subID)
		}
	}
	return true
}

// SnapshotAndSubscribe atomically snapshots the log for queryID and
// registers a new subscriber. If the log is already complete no
// registration happens: History carries the full sequence, Completed is
// true, and C is closed.
func (s *Store) SnapshotAndSubscribe(queryID string) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.logFor(queryID)
	sub := &Subscription{History: l.Snapshot(), Completed: l.Completed()}
	if l.Completed() {
		ch := make(chan Event)
		close(ch)
		sub.C = ch
		return sub
	}
	inner := &subscriber{id: s.gen.Next().String(), ch: make(chan Event, s.buf)}
	set, ok := s.subs[queryID]
	if !ok {
		set = map[string]*subscriber{}
		s.subs[queryID] = set
	}
	set[inner.id] = inner
	sub.C = inner.ch
	sub.store = s
	sub.queryID = queryID
	sub.subID = inner.id
	return sub
}

// MarkComplete marks the log for queryID complete and notifies every
// live subscriber exactly once. Idempotent: a second call does nothing.
// The log is retained so later subscribers replay the full history
// immediately.
func (s *Store) MarkComplete(queryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.logFor(queryID)
	if l.Completed() {
		return
	}
	l.MarkComplete()
	for subID, sub := range s.subs[queryID] {
		select {
		case sub.ch <- Event{Done: true}:
		default:
			s.logger.Warn("subscriber overflow at completion, dropping",
				log.Str("query", queryID), log.Str("subscriber", subID))
		}
		s.removeLocked(queryID, subID)
	}
}

// IsComplete reports completion for queryID. Unknown keys report false;
// unknown is not an error, nothing has happened yet.
func (s *Store) IsComplete(queryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[queryID]
	return ok && l.Completed()
}

// Status returns the chunk count, completion flag, and live subscriber
// count for queryID. Known reports whether the key has been used.
func (s *Store) Status(queryID string) (chunks int, completed bool, subscribers int, known bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[queryID]
	if !ok {
		return 0, false, 0, false
	}
	return l.Len(), l.Completed(), len(s.subs[queryID]), true
}

func (s *Store) unsubscribe(queryID, subID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(queryID, subID)
}

// removeLocked deletes and closes a subscriber. Caller holds s.mu.
// Closing under the lock means no send can race the close.
func (s *Store) removeLocked(queryID, subID string) {
	set := s.subs[queryID]
	sub, ok := set[subID]
	if !ok {
		return
	}
	delete(set, subID)
	close(sub.ch)
}
