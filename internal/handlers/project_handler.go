package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/Madiyar2201/Time_Tracker/internal/services"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler handles the project resource endpoints.
type ProjectHandler struct {
	Service  *services.ProjectService
	Activity *services.ActivityService
}

func NewProjectHandler(service *services.ProjectService, activity *services.ActivityService) *ProjectHandler {
	return &ProjectHandler{Service: service, Activity: activity}
}

// CreateProjectHandler creates a project owned by the acting user.
func (h *ProjectHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ClientID    string `json:"client_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	project := models.Project{
		UserID:      userID,
		Title:       payload.Title,
		Description: payload.Description,
	}
	if payload.ClientID != "" {
		clientID, err := primitive.ObjectIDFromHex(payload.ClientID)
		if err != nil {
			http.Error(w, "Invalid client ID", http.StatusBadRequest)
			return
		}
		project.ClientID = clientID
	}

	created, err := h.Service.CreateProject(r.Context(), userID, &project)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetProjectsHandler lists the acting user's projects, optionally
// filtered by ?client_id.
func (h *ProjectHandler) GetProjectsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	if raw := r.URL.Query().Get("client_id"); raw != "" {
		clientID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			http.Error(w, "Invalid client ID", http.StatusBadRequest)
			return
		}
		projects, err := h.Service.GetProjectsByClient(r.Context(), clientID)
		if err != nil {
			http.Error(w, "Failed to fetch projects", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ownedProjects(projects, userID))
		return
	}

	projects, err := h.Service.GetProjectsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch projects", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// GetProjectHandler returns one project.
func (h *ProjectHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	project, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// UpdateProjectHandler applies a partial update.
func (h *ProjectHandler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	if _, ok := h.ownedProject(w, r); !ok {
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid update payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateProject(r.Context(), userID, mux.Vars(r)["id"], updates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteProjectHandler soft-deletes a project.
func (h *ProjectHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	if _, ok := h.ownedProject(w, r); !ok {
		return
	}

	if err := h.Service.DeleteProject(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Failed to delete project", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreProjectHandler clears a project's tombstone.
func (h *ProjectHandler) RestoreProjectHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ownedAnyProject(w, r); !ok {
		return
	}

	restored, err := h.Service.RestoreProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Failed to restore project", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, restored)
}

// ForceDeleteProjectHandler permanently removes a project and its
// activities.
func (h *ProjectHandler) ForceDeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ownedAnyProject(w, r); !ok {
		return
	}

	if err := h.Service.ForceDeleteProject(r.Context(), mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Failed to delete project", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ProjectActivityHandler lists the activities recorded for a project.
func (h *ProjectHandler) ProjectActivityHandler(w http.ResponseWriter, r *http.Request) {
	project, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	page, limit := pagination(r, 20)
	items, err := h.Activity.SubjectActivities(r.Context(), project, page, limit)
	if err != nil {
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

// ProjectStatisticsHandler returns the weekly task series of a project.
func (h *ProjectHandler) ProjectStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	project, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	stats, err := h.Activity.ProjectStatistics(r.Context(), project.ID)
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": stats})
}

func (h *ProjectHandler) ownedProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	userID, ok := authenticate(w, r)
	if !ok {
		return nil, false
	}

	project, err := h.Service.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return nil, false
	}
	if project.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) ownedAnyProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	userID, ok := authenticate(w, r)
	if !ok {
		return nil, false
	}

	project, err := h.Service.GetProjectAny(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return nil, false
	}
	if project.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return project, true
}

func ownedProjects(projects []models.Project, userID primitive.ObjectID) []models.Project {
	owned := make([]models.Project, 0, len(projects))
	for _, project := range projects {
		if project.UserID == userID {
			owned = append(owned, project)
		}
	}
	return owned
}
