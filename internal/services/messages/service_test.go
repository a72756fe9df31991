package messagesvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	pebblestore "github.com/relaykit/relay/internal/storage/pebble"
	"github.com/relaykit/relay/pkg/log"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewService(db, log.NewLogger(log.WithOutput(log.NullOutput{})))
}

func msg(s string) json.RawMessage { return json.RawMessage(fmt.Sprintf(`{"text":%q}`, s)) }

func TestAddAndListInOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	recs, err := svc.Add(ctx, AddRequest{
		SessionID: "s1",
		QueryID:   "q1",
		Messages:  []json.RawMessage{msg("one"), msg("two")},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(recs) != 2 || recs[0].ID == "" || recs[0].CreatedAt == "" {
		t.Fatalf("bad records: %+v", recs)
	}

	resp, err := svc.List(ctx, ListOptions{SessionID: "s1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 2 || len(resp.Messages) != 2 {
		t.Fatalf("total=%d len=%d", resp.Total, len(resp.Messages))
	}
	if string(resp.Messages[0].Message) != string(msg("one")) {
		t.Fatalf("order wrong: %s", resp.Messages[0].Message)
	}
}

func TestListFiltersBySessionAndQuery(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustAdd := func(session, query string, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			if _, err := svc.Add(ctx, AddRequest{SessionID: session, QueryID: query, Messages: []json.RawMessage{msg(fmt.Sprintf("%s-%d", query, i))}}); err != nil {
				t.Fatalf("add: %v", err)
			}
		}
	}
	mustAdd("s1", "qa", 2)
	mustAdd("s1", "qb", 3)
	mustAdd("s2", "qa", 1)

	resp, err := svc.List(ctx, ListOptions{SessionID: "s1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 5 {
		t.Fatalf("session filter total = %d, want 5", resp.Total)
	}

	resp, err = svc.List(ctx, ListOptions{SessionID: "s1", QueryID: "qb"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("query filter total = %d, want 3", resp.Total)
	}
	for _, r := range resp.Messages {
		if r.QueryID != "qb" {
			t.Fatalf("leaked record %+v", r)
		}
	}
}

func TestListPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	msgs := make([]json.RawMessage, 5)
	for i := range msgs {
		msgs[i] = msg(fmt.Sprintf("m%d", i))
	}
	if _, err := svc.Add(ctx, AddRequest{SessionID: "s1", Messages: msgs}); err != nil {
		t.Fatalf("add: %v", err)
	}

	resp, err := svc.List(ctx, ListOptions{SessionID: "s1", Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 5 || len(resp.Messages) != 2 {
		t.Fatalf("total=%d len=%d", resp.Total, len(resp.Messages))
	}
	if string(resp.Messages[0].Message) != string(msg("m2")) {
		t.Fatalf("page start = %s", resp.Messages[0].Message)
	}
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Add(ctx, AddRequest{Messages: []json.RawMessage{msg("x")}}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("missing session: %v", err)
	}
	if _, err := svc.Add(ctx, AddRequest{SessionID: "s1"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("empty messages: %v", err)
	}
}

func TestListEmptySession(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.List(context.Background(), ListOptions{SessionID: "ghost"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 0 || len(resp.Messages) != 0 {
		t.Fatalf("expected empty listing, got %+v", resp)
	}
}
