package messagesvc

import "encoding/json"

// MessageRecord is one persisted message.
type MessageRecord struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	QueryID   string          `json:"query_id,omitempty"`
	Message   json.RawMessage `json:"message"`
	CreatedAt string          `json:"created_at"`
}

// AddRequest is the write payload: one or more messages recorded under
// a session, optionally correlated to a query.
type AddRequest struct {
	SessionID string            `json:"session_id"`
	QueryID   string            `json:"query_id,omitempty"`
	Messages  []json.RawMessage `json:"messages"`
}

// ListOptions filters and paginates a listing.
type ListOptions struct {
	SessionID string
	QueryID   string
	Limit     int
	Offset    int
}

// ListResponse is a filtered page of records plus the total match count.
type ListResponse struct {
	Messages []MessageRecord `json:"messages"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}
