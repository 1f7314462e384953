package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/Madiyar2201/Time_Tracker/internal/services"
	"github.com/gorilla/mux"
)

// TaskHandler handles the task endpoints nested under a project.
type TaskHandler struct {
	Service  *services.TaskService
	Projects *services.ProjectService
	Activity *services.ActivityService
}

func NewTaskHandler(service *services.TaskService, projects *services.ProjectService, activity *services.ActivityService) *TaskHandler {
	return &TaskHandler{Service: service, Projects: projects, Activity: activity}
}

// CreateTaskHandler adds a task to the project.
func (h *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	project, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var payload struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		HoursSpent   int    `json:"hours_spent"`
		MinutesSpent int    `json:"minutes_spent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	task := models.Task{
		Title:        payload.Title,
		Description:  payload.Description,
		HoursSpent:   payload.HoursSpent,
		MinutesSpent: payload.MinutesSpent,
	}

	created, err := h.Service.CreateTask(r.Context(), userID, project.ID.Hex(), &task)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, h.taskResponse(created, project))
}

// GetTasksHandler lists the project's tasks.
func (h *TaskHandler) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	project, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	tasks, err := h.Service.GetTasksByProject(r.Context(), project.ID)
	if err != nil {
		http.Error(w, "Failed to fetch tasks", http.StatusInternalServerError)
		return
	}

	responses := make([]map[string]interface{}, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, h.taskResponse(&tasks[i], project))
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetTaskHandler returns one task.
func (h *TaskHandler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	project, task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.taskResponse(task, project))
}

// UpdateTaskHandler applies a partial update to the watched fields.
func (h *TaskHandler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	project, task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid update payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateTask(r.Context(), userID, task.ID.Hex(), updates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.taskResponse(updated, project))
}

// ToggleCompletedHandler flips the task's completion state.
func (h *TaskHandler) ToggleCompletedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	project, task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	toggled, err := h.Service.ToggleCompleted(r.Context(), userID, task.ID.Hex())
	if err != nil {
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.taskResponse(toggled, project))
}

// ToggleBilledHandler flips the task's billing state.
func (h *TaskHandler) ToggleBilledHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	project, task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	toggled, err := h.Service.ToggleBilled(r.Context(), userID, task.ID.Hex())
	if err != nil {
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.taskResponse(toggled, project))
}

// DeleteTaskHandler soft-deletes a task.
func (h *TaskHandler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}
	_, task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTask(r.Context(), userID, task.ID.Hex()); err != nil {
		http.Error(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreTaskHandler clears a task's tombstone.
func (h *TaskHandler) RestoreTaskHandler(w http.ResponseWriter, r *http.Request) {
	project, task, ok := h.ownedAnyTask(w, r)
	if !ok {
		return
	}

	restored, err := h.Service.RestoreTask(r.Context(), task.ID.Hex())
	if err != nil {
		http.Error(w, "Failed to restore task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.taskResponse(restored, project))
}

// ForceDeleteTaskHandler permanently removes a task and its activities.
func (h *TaskHandler) ForceDeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	_, task, ok := h.ownedAnyTask(w, r)
	if !ok {
		return
	}

	if err := h.Service.ForceDeleteTask(r.Context(), task.ID.Hex()); err != nil {
		http.Error(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TaskActivityHandler lists the activities recorded for a task.
func (h *TaskHandler) TaskActivityHandler(w http.ResponseWriter, r *http.Request) {
	_, task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	page, limit := pagination(r, 20)
	items, err := h.Activity.SubjectActivities(r.Context(), task, page, limit)
	if err != nil {
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

func (h *TaskHandler) ownedProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	userID, ok := authenticate(w, r)
	if !ok {
		return nil, false
	}

	project, err := h.Projects.GetProject(r.Context(), mux.Vars(r)["id"])
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

func (h *TaskHandler) ownedTask(w http.ResponseWriter, r *http.Request) (*models.Project, *models.Task, bool) {
	project, ok := h.ownedProject(w, r)
	if !ok {
		return nil, nil, false
	}

	task, err := h.Service.GetTask(r.Context(), mux.Vars(r)["taskId"])
	if err != nil || task.ProjectID != project.ID {
		http.Error(w, "Task not found", http.StatusNotFound)
		return nil, nil, false
	}
	return project, task, true
}

func (h *TaskHandler) ownedAnyTask(w http.ResponseWriter, r *http.Request) (*models.Project, *models.Task, bool) {
	project, ok := h.ownedProject(w, r)
	if !ok {
		return nil, nil, false
	}

	task, err := h.Service.GetTaskAny(r.Context(), mux.Vars(r)["taskId"])
	if err != nil || task.ProjectID != project.ID {
		http.Error(w, "Task not found", http.StatusNotFound)
		return nil, nil, false
	}
	return project, task, true
}

// taskResponse renders a task with its project title attached.
func (h *TaskHandler) taskResponse(task *models.Task, project *models.Project) map[string]interface{} {
	return map[string]interface{}{
		"id":            task.ID,
		"title":         task.Title,
		"description":   task.Description,
		"project_id":    task.ProjectID,
		"project_title": project.Title,
		"hours_spent":   task.HoursSpent,
		"minutes_spent": task.MinutesSpent,
		"completed_at":  task.CompletedAt,
		"billed_at":     task.BilledAt,
		"updated_at":    task.UpdatedAt,
	}
}
