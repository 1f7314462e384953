package handlers

import (
	"net/http"

	"github.com/Madiyar2201/Time_Tracker/internal/services"
)

// ActivityHandler serves the activity list and the day-grouped feed.
type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GetActivitiesHandler returns one flat newest-first page of the acting
// user's activities.
func (h *ActivityHandler) GetActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	page, limit := pagination(r, 20)
	items, err := h.Service.RecentActivities(r.Context(), userID, page, limit)
	if err != nil {
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

// GetFeedHandler returns the acting user's activity grouped by day,
// newest day first.
func (h *ActivityHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	feed, err := h.Service.Feed(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch feed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": feed})
}
