package handlers

import (
	"net/http"

	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/gorilla/mux"
)

type ApplicationHandler struct {
	service *services.ApplicationService
}

func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreateApplicationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	application, err := h.service.CreateApplication(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, application)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	applications, err := h.service.ListApplications(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applications)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	applications, err := h.service.ListMyApplications(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applications)
}

func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	application, err := h.service.DecideApplication(r.Context(), vars["id"], vars["action"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, application)
}
