package handlers

import (
	"net/http"

	"github.com/Madiyar2201/Time_Tracker/internal/services"
)

// DashboardHandler serves the dashboard: recent projects plus the
// weekly activity statistics.
type DashboardHandler struct {
	Projects *services.ProjectService
	Activity *services.ActivityService
}

func NewDashboardHandler(projects *services.ProjectService, activity *services.ActivityService) *DashboardHandler {
	return &DashboardHandler{Projects: projects, Activity: activity}
}

func (h *DashboardHandler) GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	projects, err := h.Projects.GetRecentProjects(r.Context(), userID, 3)
	if err != nil {
		http.Error(w, "Failed to fetch projects", http.StatusInternalServerError)
		return
	}

	statistics, err := h.Activity.Statistics(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects":   projects,
		"statistics": statistics,
	})
}

// GetStatisticsHandler returns the weekly task series across all of the
// acting user's tasks.
func (h *DashboardHandler) GetStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	stats, err := h.Activity.UserTaskStatistics(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": stats})
}
