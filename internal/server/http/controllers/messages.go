package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/relaykit/relay/internal/runtime"
	messagesvc "github.com/relaykit/relay/internal/services/messages"
)

// MessagesController handles the message record endpoints.
//
// - POST /messages  records messages under a session
// - GET  /messages  lists records filtered by session_id / query_id
type MessagesController struct {
	rt *runtime.Runtime
	ms *messagesvc.Service
}

// NewMessagesController creates a new messages controller.
func NewMessagesController(rt *runtime.Runtime, svc *messagesvc.Service) *MessagesController {
	return &MessagesController{rt: rt, ms: svc}
}

// RegisterRoutes registers message routes with the given mux.
func (c *MessagesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/messages", c.handleMessages)
}

func (c *MessagesController) handleMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.handleAdd(w, r)
	case http.MethodGet:
		c.handleList(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (c *MessagesController) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req messagesvc.AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	recs, err := c.ms.Add(r.Context(), req)
	if err != nil {
		if errors.Is(err, messagesvc.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to store messages")
		return
	}
	writeJSON(w, map[string]any{"status": "recorded", "count": len(recs)})
}

func (c *MessagesController) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := parseLimit(q.Get("limit"))
	if limit == 0 {
		limit = c.rt.Config().MessagesPageLimit
	}
	resp, err := c.ms.List(r.Context(), messagesvc.ListOptions{
		SessionID: q.Get("session_id"),
		QueryID:   q.Get("query_id"),
		Limit:     limit,
		Offset:    parseOffset(q.Get("offset")),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}
	writeJSON(w, resp)
}
