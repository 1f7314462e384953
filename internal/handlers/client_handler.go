package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/Madiyar2201/Time_Tracker/internal/services"
	"github.com/gorilla/mux"
)

// ClientHandler handles the client resource endpoints.
type ClientHandler struct {
	Service  *services.ClientService
	Activity *services.ActivityService
}

func NewClientHandler(service *services.ClientService, activity *services.ActivityService) *ClientHandler {
	return &ClientHandler{Service: service, Activity: activity}
}

// CreateClientHandler creates a client owned by the acting user.
func (h *ClientHandler) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	client.UserID = userID
	created, err := h.Service.CreateClient(r.Context(), userID, &client)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetClientsHandler lists the acting user's clients.
func (h *ClientHandler) GetClientsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	clients, err := h.Service.GetClientsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch clients", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

// GetClientHandler returns one client.
func (h *ClientHandler) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	client, ok := h.ownedClient(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// UpdateClientHandler applies a partial update.
func (h *ClientHandler) UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	if _, ok := h.ownedClient(w, r); !ok {
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid update payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateClient(r.Context(), userID, mux.Vars(r)["id"], updates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteClientHandler soft-deletes a client.
func (h *ClientHandler) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	if _, ok := h.ownedClient(w, r); !ok {
		return
	}

	if err := h.Service.DeleteClient(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreClientHandler clears a client's tombstone.
func (h *ClientHandler) RestoreClientHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ownedAnyClient(w, r); !ok {
		return
	}

	restored, err := h.Service.RestoreClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Failed to restore client", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, restored)
}

// ForceDeleteClientHandler permanently removes a client and its
// activities.
func (h *ClientHandler) ForceDeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authenticate(w, r); !ok {
		return
	}
	if _, ok := h.ownedAnyClient(w, r); !ok {
		return
	}

	if err := h.Service.ForceDeleteClient(r.Context(), mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClientActivityHandler lists the activities recorded for a client.
func (h *ClientHandler) ClientActivityHandler(w http.ResponseWriter, r *http.Request) {
	client, ok := h.ownedClient(w, r)
	if !ok {
		return
	}

	page, limit := pagination(r, 20)
	items, err := h.Activity.SubjectActivities(r.Context(), client, page, limit)
	if err != nil {
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

// ownedClient loads the live client from the route and verifies the
// acting user owns it.
func (h *ClientHandler) ownedClient(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	userID, ok := authenticate(w, r)
	if !ok {
		return nil, false
	}

	client, err := h.Service.GetClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Client not found", http.StatusNotFound)
		return nil, false
	}
	if client.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return client, true
}

// ownedAnyClient is ownedClient without the tombstone check, for the
// restore/forcedelete routes that target trashed rows.
func (h *ClientHandler) ownedAnyClient(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	userID, ok := authenticate(w, r)
	if !ok {
		return nil, false
	}

	client, err := h.Service.GetClientAny(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Client not found", http.StatusNotFound)
		return nil, false
	}
	if client.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return client, true
}
