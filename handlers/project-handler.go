package handlers

import (
	"net/http"

	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	projects *services.ProjectService
	reports  *services.ReportService
}

func NewProjectHandler(projects *services.ProjectService, reports *services.ReportService) *ProjectHandler {
	return &ProjectHandler{projects: projects, reports: reports}
}

type reportResponse struct {
	Msg string `json:"msg"`
	*services.ReportResult
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreateProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	project, err := h.projects.CreateProject(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListProjects(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	projects, err := h.projects.ListMyProjects(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	project, err := h.projects.UpdateProject(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.DeleteProject(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "project deleted")
}

func (h *ProjectHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	project, err := h.projects.JoinProject(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	project, err := h.projects.LeaveProject(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Report(w http.ResponseWriter, r *http.Request) {
	result, err := h.reports.GenerateReport(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Msg: "report generated", ReportResult: result})
}

func (h *ProjectHandler) End(w http.ResponseWriter, r *http.Request) {
	result, err := h.reports.EndProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Msg: "project ended", ReportResult: result})
}
