package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Madiyar2201/Time_Tracker/internal/config"
	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/Madiyar2201/Time_Tracker/internal/services"
	jwtutil "github.com/Madiyar2201/Time_Tracker/pkg/jwt"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles registration, login and the profile endpoint.
type UserHandler struct {
	Service  *services.UserService
	Clients  *services.ClientService
	Projects *services.ProjectService
	Tasks    *services.TaskService
	Config   *config.Config
}

func NewUserHandler(service *services.UserService, clients *services.ClientService, projects *services.ProjectService, tasks *services.TaskService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service:  service,
		Clients:  clients,
		Projects: projects,
		Tasks:    tasks,
		Config:   cfg,
	}
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.RegisterUser(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.WithError(err).Warn("Failed to register user")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// LoginUserHandler authenticates a user and issues a JWT.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).Warn("Authentication failed")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// MeHandler returns the authenticated user's profile with resource
// counts.
func (h *UserHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID.Hex())
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	clients, err := h.Clients.CountForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	projects, err := h.Projects.CountForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	tasks, err := h.Tasks.CountForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.UserProfile{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		ClientsCount:  clients,
		ProjectsCount: projects,
		TasksCount:    tasks,
	})
}
