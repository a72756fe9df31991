package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMessagesAddCommand(t *testing.T) {
	var got struct {
		SessionID string            `json:"session_id"`
		QueryID   string            `json:"query_id"`
		Messages  []json.RawMessage `json:"messages"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "recorded", "count": len(got.Messages)})
	}))
	defer ts.Close()

	cmd := newMessagesAddCommand(baseURLFor(ts))
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--session", "s1", "--query", "q1",
		"--message", `{"role":"user","content":"hi"}`,
		"--message", `{"role":"assistant","content":"hello"}`,
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.SessionID != "s1" || got.QueryID != "q1" || len(got.Messages) != 2 {
		t.Fatalf("request = %+v", got)
	}
	if !strings.Contains(buf.String(), "recorded count=2") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestMessagesAddRejectsBadJSON(t *testing.T) {
	cmd := newMessagesAddCommand(func() string { return "http://127.0.0.1:0" })
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--session", "s1", "--message", "not json"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for invalid message JSON")
	}
}

func TestMessagesListCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("session_id") != "s1" {
			t.Errorf("session_id not forwarded")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]any{{"id": "1", "session_id": "s1", "message": map[string]any{"role": "user"}}},
			"total":    1, "limit": 100, "offset": 0,
		})
	}))
	defer ts.Close()

	cmd := newMessagesListCommand(baseURLFor(ts))
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--session", "s1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "total=1") {
		t.Fatalf("output = %q", buf.String())
	}
}
