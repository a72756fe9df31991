package controllers

import (
	"net/http"
	"strings"

	"github.com/relaykit/relay/internal/runtime"
	streamsvc "github.com/relaykit/relay/internal/services/stream"
	"github.com/relaykit/relay/pkg/log"
)

// StreamController handles the per-query stream endpoints.
//
// Routes under /stream/{queryId}:
// - POST /stream/{queryId}            ingest NDJSON chunks
// - POST /stream/{queryId}/complete   mark the query complete
// - GET  /stream/{queryId}            consume as Server-Sent Events
// - GET  /stream/{queryId}/status     log status
type StreamController struct {
	rt     *runtime.Runtime
	st     *streamsvc.Service
	logger log.Logger
}

// NewStreamController creates a new stream controller.
func NewStreamController(rt *runtime.Runtime, svc *streamsvc.Service, logger log.Logger) *StreamController {
	return &StreamController{rt: rt, st: svc, logger: logger.WithComponent("http")}
}

// RegisterRoutes registers stream routes with the given mux.
func (c *StreamController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/stream/", c.handleStream)
}

// handleStream dispatches on the path below /stream/ and the method.
func (c *StreamController) handleStream(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/stream/")
	queryID, action, _ := strings.Cut(rest, "/")
	if queryID == "" {
		writeError(w, http.StatusBadRequest, "Missing query id")
		return
	}
	switch action {
	case "":
		switch r.Method {
		case http.MethodPost:
			c.handleIngest(w, r, queryID)
		case http.MethodGet:
			c.handleConsume(w, r, queryID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case "complete":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		c.handleComplete(w, r, queryID)
	case "status":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(w, c.st.Status(queryID))
	default:
		writeError(w, http.StatusNotFound, "Unknown stream endpoint")
	}
}

// handleIngest consumes the request body as NDJSON chunks until EOF.
func (c *StreamController) handleIngest(w http.ResponseWriter, r *http.Request, queryID string) {
	res, err := c.st.Ingest(r.Context(), queryID, r.Body)
	if err != nil {
		c.logger.Warn("ingest aborted", log.Str("query", queryID), log.Err(err))
		writeError(w, http.StatusInternalServerError, "Ingest failed")
		return
	}
	writeJSON(w, map[string]any{
		"status":          "stream_processed",
		"query":           queryID,
		"chunks_received": res.ChunksReceived,
	})
}

// handleComplete marks the query's log complete. Idempotent.
func (c *StreamController) handleComplete(w http.ResponseWriter, _ *http.Request, queryID string) {
	c.st.Complete(queryID)
	writeJSON(w, map[string]string{"status": "completed", "query": queryID})
}

// handleConsume streams the query's chunks as SSE until a terminal
// condition. Parameter errors are rejected before the stream starts.
func (c *StreamController) handleConsume(w http.ResponseWriter, r *http.Request, queryID string) {
	q := r.URL.Query()
	cfg := c.rt.Config()

	waitMs, err := parseWait(q.Get("wait-for-query"), cfg.WaitForQueryMinMs, cfg.WaitForQueryMaxMs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxChunk, err := parsePositiveInt(q.Get("max-chunk-size"), cfg.DefaultMaxChunkSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid max-chunk-size")
		return
	}
	filter, err := c.st.CompileFilter(q.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	opts := streamsvc.ConsumeOptions{
		FromBeginning: parseBool(q.Get("from-beginning")),
		WaitMs:        waitMs,
		MaxChunkSize:  maxChunk,
		Filter:        filter,
	}
	if err := c.st.Consume(queryID, opts, sseSink{w: w, r: r}); err != nil {
		// The response is already streaming; just note the teardown.
		c.logger.Debug("consume session ended", log.Str("query", queryID), log.Err(err))
	}
}
