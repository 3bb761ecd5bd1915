package handlers

import (
	"net/http"

	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/gorilla/mux"
)

type PostHandler struct {
	service *services.PostService
}

func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreatePostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	post, err := h.service.CreatePost(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.service.DeletePost(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "post deleted")
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreateCommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	post, err := h.service.AddComment(r.Context(), user, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	post, err := h.service.DeleteComment(r.Context(), user, vars["id"], vars["commentId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
