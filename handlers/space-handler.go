package handlers

import (
	"net/http"

	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/gorilla/mux"
)

type SpaceHandler struct {
	service *services.SpaceService
}

func NewSpaceHandler(service *services.SpaceService) *SpaceHandler {
	return &SpaceHandler{service: service}
}

func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.SpaceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	space, err := h.service.CreateSpace(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, space)
}

func (h *SpaceHandler) List(w http.ResponseWriter, r *http.Request) {
	spaces, err := h.service.ListSpaces(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spaces)
}

func (h *SpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	space, err := h.service.GetSpace(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, space)
}

func (h *SpaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateSpaceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	space, err := h.service.UpdateSpace(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, space)
}

func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSpace(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "space deleted")
}

func (h *SpaceHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	space, err := h.service.JoinSpace(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, space)
}

func (h *SpaceHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	space, err := h.service.LeaveSpace(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, space)
}
