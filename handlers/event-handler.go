package handlers

import (
	"net/http"

	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/gorilla/mux"
)

type EventHandler struct {
	service *services.EventService
}

func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreateEventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	event, err := h.service.CreateEvent(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteEvent(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "event deleted")
}
