package controllers

import (
	"net/http"

	"github.com/relaykit/relay/internal/runtime"
	messagesvc "github.com/relaykit/relay/internal/services/messages"
	streamsvc "github.com/relaykit/relay/internal/services/stream"
	"github.com/relaykit/relay/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general  *GeneralController
	streams  *StreamController
	messages *MessagesController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime and services.
func NewControllerRegistry(rt *runtime.Runtime, streams *streamsvc.Service, messages *messagesvc.Service, logger log.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general:  NewGeneralController(rt),
		streams:  NewStreamController(rt, streams, logger),
		messages: NewMessagesController(rt, messages),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This sets up the stream endpoints (ingest, complete, consume, status),
// the message record endpoints, and the health check.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.streams.RegisterRoutes(mux)
	r.messages.RegisterRoutes(mux)
}
