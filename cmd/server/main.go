package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Madiyar2201/Time_Tracker/internal/config"
	"github.com/Madiyar2201/Time_Tracker/internal/database"
	"github.com/Madiyar2201/Time_Tracker/internal/handlers"
	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/Madiyar2201/Time_Tracker/internal/repository"
	"github.com/Madiyar2201/Time_Tracker/internal/services"
	"github.com/Madiyar2201/Time_Tracker/pkg/logger"
	"github.com/Madiyar2201/Time_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// --- Services ---
	activityService := services.NewActivityService(activityRepo, taskRepo)
	userService := services.NewUserService(userRepo)
	clientService := services.NewClientService(clientRepo, activityService)
	projectService := services.NewProjectService(projectRepo, clientRepo, activityService)
	taskService := services.NewTaskService(taskRepo, projectRepo, activityService)

	// Subject dispatch table for feed rendering.
	activityService.RegisterSubject(models.KindClient, func(ctx context.Context, id primitive.ObjectID) (interface{}, error) {
		return clientRepo.GetClientByID(ctx, id)
	})
	activityService.RegisterSubject(models.KindProject, func(ctx context.Context, id primitive.ObjectID) (interface{}, error) {
		return projectRepo.GetProjectByID(ctx, id)
	})
	activityService.RegisterSubject(models.KindTask, func(ctx context.Context, id primitive.ObjectID) (interface{}, error) {
		return taskRepo.GetTaskByID(ctx, id)
	})

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, clientService, projectService, taskService, cfg)
	clientHandler := handlers.NewClientHandler(clientService, activityService)
	projectHandler := handlers.NewProjectHandler(projectService, activityService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, activityService)
	activityHandler := handlers.NewActivityHandler(activityService)
	dashboardHandler := handlers.NewDashboardHandler(projectService, activityService)

	router := mux.NewRouter()

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("2.0.0"))
	}).Methods("GET")

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Everything else requires authentication
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.HandleFunc("/users/me", userHandler.MeHandler).Methods("GET")

	protected.HandleFunc("/activities", activityHandler.GetActivitiesHandler).Methods("GET")
	protected.HandleFunc("/feed", activityHandler.GetFeedHandler).Methods("GET")
	protected.HandleFunc("/dashboard", dashboardHandler.GetDashboardHandler).Methods("GET")
	protected.HandleFunc("/statistics", dashboardHandler.GetStatisticsHandler).Methods("GET")

	// Client routes
	protected.HandleFunc("/clients", clientHandler.CreateClientHandler).Methods("POST")
	protected.HandleFunc("/clients", clientHandler.GetClientsHandler).Methods("GET")
	protected.HandleFunc("/clients/{id}", clientHandler.GetClientHandler).Methods("GET")
	protected.HandleFunc("/clients/{id}", clientHandler.UpdateClientHandler).Methods("PATCH")
	protected.HandleFunc("/clients/{id}", clientHandler.DeleteClientHandler).Methods("DELETE")
	protected.HandleFunc("/clients/{id}/restore", clientHandler.RestoreClientHandler).Methods("PATCH")
	protected.HandleFunc("/clients/{id}/forcedelete", clientHandler.ForceDeleteClientHandler).Methods("DELETE")
	protected.HandleFunc("/clients/{id}/activity", clientHandler.ClientActivityHandler).Methods("GET")

	// Project routes
	protected.HandleFunc("/projects", projectHandler.CreateProjectHandler).Methods("POST")
	protected.HandleFunc("/projects", projectHandler.GetProjectsHandler).Methods("GET")
	protected.HandleFunc("/projects/{id}", projectHandler.GetProjectHandler).Methods("GET")
	protected.HandleFunc("/projects/{id}", projectHandler.UpdateProjectHandler).Methods("PATCH")
	protected.HandleFunc("/projects/{id}", projectHandler.DeleteProjectHandler).Methods("DELETE")
	protected.HandleFunc("/projects/{id}/restore", projectHandler.RestoreProjectHandler).Methods("PATCH")
	protected.HandleFunc("/projects/{id}/forcedelete", projectHandler.ForceDeleteProjectHandler).Methods("DELETE")
	protected.HandleFunc("/projects/{id}/activity", projectHandler.ProjectActivityHandler).Methods("GET")
	protected.HandleFunc("/projects/{id}/statistics", projectHandler.ProjectStatisticsHandler).Methods("GET")

	// Task routes nested under their project
	protected.HandleFunc("/projects/{id}/tasks", taskHandler.CreateTaskHandler).Methods("POST")
	protected.HandleFunc("/projects/{id}/tasks", taskHandler.GetTasksHandler).Methods("GET")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}", taskHandler.GetTaskHandler).Methods("GET")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}", taskHandler.UpdateTaskHandler).Methods("PATCH")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}", taskHandler.DeleteTaskHandler).Methods("DELETE")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}/restore", taskHandler.RestoreTaskHandler).Methods("PATCH")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}/forcedelete", taskHandler.ForceDeleteTaskHandler).Methods("DELETE")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}/completed", taskHandler.ToggleCompletedHandler).Methods("PATCH")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}/billed", taskHandler.ToggleBilledHandler).Methods("PATCH")
	protected.HandleFunc("/projects/{id}/tasks/{taskId}/activity", taskHandler.TaskActivityHandler).Methods("GET")

	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	port := cfg.Port
	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
