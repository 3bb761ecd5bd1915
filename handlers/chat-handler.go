package handlers

import (
	"net/http"

	"github.com/PatrikF1/backend-ProjectPartner/services"
)

type ChatHandler struct {
	service *services.AssistantService
}

func NewChatHandler(service *services.AssistantService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.ChatInput
	if !decodeJSON(w, r, &in) {
		return
	}
	resp, err := h.service.Chat(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
