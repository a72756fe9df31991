package streamsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	cfgpkg "github.com/relaykit/relay/internal/config"
	"github.com/relaykit/relay/internal/relay"
)

// captureSink records frames for assertions. sendErr, when set, makes
// Send fail to simulate a broken transport.
type captureSink struct {
	ctx     context.Context
	sendErr error

	mu     sync.Mutex
	frames []string
	done   bool
}

func newCaptureSink(ctx context.Context) *captureSink {
	if ctx == nil {
		ctx = context.Background()
	}
	return &captureSink{ctx: ctx}
}

func (s *captureSink) Send(c relay.Chunk) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, string(c))
	return nil
}

func (s *captureSink) SendDone() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	return nil
}

func (s *captureSink) Context() context.Context { return s.ctx }
func (s *captureSink) Flush() error             { return nil }

func (s *captureSink) snapshot() ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.frames...), s.done
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached in time")
}

func newTestService() *Service {
	return NewService(cfgpkg.Default(), testLogger())
}

func TestReplayThenLiveThenSentinel(t *testing.T) {
	svc := newTestService()
	svc.Append("q1", relay.Chunk(`{"n":1}`))
	svc.Append("q1", relay.Chunk(`{"n":2}`))

	sink := newCaptureSink(nil)
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Consume("q1", ConsumeOptions{FromBeginning: true}, sink)
	}()

	waitUntil(t, func() bool { frames, _ := sink.snapshot(); return len(frames) == 2 })
	frames, done := sink.snapshot()
	if done {
		t.Fatalf("sentinel before completion")
	}
	if frames[0] != `{"n":1}` || frames[1] != `{"n":2}` {
		t.Fatalf("replay order wrong: %v", frames)
	}

	svc.Complete("q1")
	if err := <-errCh; err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, done := sink.snapshot(); !done {
		t.Fatalf("missing sentinel after completion")
	}
}

func TestWaitTimeoutNoChunksNoSentinel(t *testing.T) {
	svc := newTestService()
	sink := newCaptureSink(nil)
	start := time.Now()
	if err := svc.Consume("q2", ConsumeOptions{WaitMs: 50}, sink); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Fatalf("returned before the wait elapsed")
	}
	frames, done := sink.snapshot()
	if len(frames) != 0 || done {
		t.Fatalf("timeout session wrote frames=%v done=%v", frames, done)
	}
}

func TestCompletedBeforeConnectImmediateReplay(t *testing.T) {
	svc := newTestService()
	svc.Append("q3", relay.Chunk(`{"n":1}`))
	svc.Complete("q3")

	sink := newCaptureSink(nil)
	if err := svc.Consume("q3", ConsumeOptions{FromBeginning: true, WaitMs: 60000}, sink); err != nil {
		t.Fatalf("consume: %v", err)
	}
	frames, done := sink.snapshot()
	if len(frames) != 1 || !done {
		t.Fatalf("frames=%v done=%v", frames, done)
	}
}

func TestCompletedNoReplayJustSentinel(t *testing.T) {
	svc := newTestService()
	svc.Append("q", relay.Chunk(`{"n":1}`))
	svc.Complete("q")

	sink := newCaptureSink(nil)
	if err := svc.Consume("q", ConsumeOptions{}, sink); err != nil {
		t.Fatalf("consume: %v", err)
	}
	frames, done := sink.snapshot()
	if len(frames) != 0 || !done {
		t.Fatalf("frames=%v done=%v", frames, done)
	}
}

func TestFirstChunkCancelsWaitTimer(t *testing.T) {
	svc := newTestService()
	sink := newCaptureSink(nil)
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Consume("q", ConsumeOptions{WaitMs: 40}, sink)
	}()
	// Deliver one chunk before the timer fires.
	waitUntil(t, func() bool { _, _, subs, _ := svc.Store().Status("q"); return subs == 1 })
	svc.Append("q", relay.Chunk(`{"n":1}`))

	time.Sleep(80 * time.Millisecond)
	select {
	case err := <-errCh:
		t.Fatalf("session ended after first chunk: %v", err)
	default:
	}
	svc.Complete("q")
	if err := <-errCh; err != nil {
		t.Fatalf("consume: %v", err)
	}
	frames, done := sink.snapshot()
	if len(frames) != 1 || !done {
		t.Fatalf("frames=%v done=%v", frames, done)
	}
}

func TestReplaySplitsOversizedContent(t *testing.T) {
	svc := newTestService()
	long := strings.Repeat("x", 10)
	svc.Append("q", deltaChunk(t, long))
	svc.Complete("q")

	sink := newCaptureSink(nil)
	if err := svc.Consume("q", ConsumeOptions{FromBeginning: true, MaxChunkSize: 4}, sink); err != nil {
		t.Fatalf("consume: %v", err)
	}
	frames, done := sink.snapshot()
	if len(frames) != 3 || !done {
		t.Fatalf("frames=%d done=%v", len(frames), done)
	}
	var all strings.Builder
	for _, f := range frames {
		all.WriteString(contentOf(t, relay.Chunk(f)))
	}
	if all.String() != long {
		t.Fatalf("reassembled %q", all.String())
	}
}

func TestFilterSelectsChunks(t *testing.T) {
	svc := newTestService()
	for i := 1; i <= 4; i++ {
		svc.Append("q", relay.Chunk(fmt.Sprintf(`{"n":%d}`, i)))
	}
	svc.Complete("q")

	filter, err := svc.CompileFilter("json.n > 2")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	sink := newCaptureSink(nil)
	if err := svc.Consume("q", ConsumeOptions{FromBeginning: true, Filter: filter}, sink); err != nil {
		t.Fatalf("consume: %v", err)
	}
	frames, _ := sink.snapshot()
	if len(frames) != 2 {
		t.Fatalf("filter kept %d frames, want 2: %v", len(frames), frames)
	}
}

func TestBadFilterRejected(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CompileFilter("this is ((( not cel"); !errors.Is(err, ErrBadFilter) {
		t.Fatalf("err = %v, want ErrBadFilter", err)
	}
}

func TestDisconnectTearsDownSession(t *testing.T) {
	svc := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	sink := newCaptureSink(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Consume("q", ConsumeOptions{}, sink)
	}()
	waitUntil(t, func() bool { _, _, subs, _ := svc.Store().Status("q"); return subs == 1 })
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	waitUntil(t, func() bool { _, _, subs, _ := svc.Store().Status("q"); return subs == 0 })
}

func TestWriteFailureUnsubscribes(t *testing.T) {
	svc := newTestService()
	svc.Append("q", relay.Chunk(`{"n":1}`))

	sink := newCaptureSink(nil)
	sink.sendErr = errors.New("broken pipe")
	err := svc.Consume("q", ConsumeOptions{FromBeginning: true}, sink)
	if err == nil {
		t.Fatalf("expected write failure")
	}
	if _, _, subs, _ := svc.Store().Status("q"); subs != 0 {
		t.Fatalf("subscriber leaked after write failure")
	}
}

func TestStatusReflectsLog(t *testing.T) {
	svc := newTestService()
	if st := svc.Status("q"); st.Known {
		t.Fatalf("unknown key reported known")
	}
	svc.Append("q", relay.Chunk(`{"n":1}`))
	svc.Complete("q")
	st := svc.Status("q")
	if !st.Known || st.Chunks != 1 || !st.Completed {
		t.Fatalf("status = %+v", st)
	}
}
