package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/api/sse"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/services/session"
)

// EventsHandler serves the live event stream of a session
type EventsHandler struct {
	controller *session.Controller
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(controller *session.Controller, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		controller: controller,
		hubManager: hubManager,
	}
}

// Stream handles GET /api/v1/sessions/{code}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	if _, err := h.controller.GetSession(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	subscriber := r.URL.Query().Get("subscriber")
	if subscriber == "" {
		subscriber = r.RemoteAddr
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, subscriber)
}
