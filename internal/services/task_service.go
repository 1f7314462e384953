package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is the persistence abstraction for tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	UpdateTask(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	SetTaskCompletion(ctx context.Context, id primitive.ObjectID, completedAt *time.Time) error
	SetTaskBilling(ctx context.Context, id primitive.ObjectID, billedAt *time.Time) error
	SoftDeleteTask(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error
	RestoreTask(ctx context.Context, id primitive.ObjectID) error
	HardDeleteTask(ctx context.Context, id primitive.ObjectID) error
	CountTasksByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// TaskService implements the task resource operations, the
// completed/billed state toggles and the activity recording for all of
// them.
type TaskService struct {
	repo     TaskStore
	projects ProjectStore
	activity *ActivityService
}

func NewTaskService(repo TaskStore, projects ProjectStore, activity *ActivityService) *TaskService {
	return &TaskService{repo: repo, projects: projects, activity: activity}
}

// CreateTask persists a new task under the project and records
// created_task. The task inherits the project's owner, so its
// activities attribute to that user.
func (s *TaskService) CreateTask(ctx context.Context, actorID primitive.ObjectID, projectID string, task *models.Task) (*models.Task, error) {
	projObjID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID")
	}
	project, err := s.projects.GetProjectByID(ctx, projObjID)
	if err != nil {
		return nil, fmt.Errorf("project not found")
	}
	if project.DeletedAt != nil {
		return nil, fmt.Errorf("project not found")
	}

	if task.Title == "" {
		return nil, fmt.Errorf("task must have a title")
	}
	if err := validateTimeSpent(task.HoursSpent, task.MinutesSpent); err != nil {
		return nil, err
	}

	task.ProjectID = project.ID
	task.UserID = project.UserID

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	s.record(ctx, created, models.EventCreated, actorID, nil)
	return created, nil
}

// GetTask fetches a task, hiding tombstoned ones.
func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID")
	}
	task, err := s.repo.GetTaskByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if task.DeletedAt != nil {
		return nil, fmt.Errorf("task not found")
	}
	return task, nil
}

// GetTaskAny fetches a task whether or not it is tombstoned, for the
// restore and force-delete paths.
func (s *TaskService) GetTaskAny(ctx context.Context, id string) (*models.Task, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID")
	}
	return s.repo.GetTaskByID(ctx, objID)
}

func (s *TaskService) GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.repo.GetTasksByProject(ctx, projectID)
}

func (s *TaskService) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountTasksByUser(ctx, userID)
}

// UpdateTask applies changes to the watched fields only and records
// updated_task with the before/after diff when any of them actually
// changed. Completion and billing state never pass through here; the
// toggles record their own semantic events instead.
func (s *TaskService) UpdateTask(ctx context.Context, actorID primitive.ObjectID, id string, updates map[string]interface{}) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitized, err := sanitizeTaskUpdates(task, updates)
	if err != nil {
		return nil, err
	}
	if title, ok := sanitized["title"]; ok && title == "" {
		return nil, fmt.Errorf("task must have a title")
	}

	original := task.Attributes()
	changed := ChangedAttributes(original, sanitized)
	if len(changed) == 0 {
		return task, nil
	}

	hours := task.HoursSpent
	minutes := task.MinutesSpent
	if v, ok := changed["hours_spent"]; ok {
		hours = v.(int)
	}
	if v, ok := changed["minutes_spent"]; ok {
		minutes = v.(int)
	}
	if err := validateTimeSpent(hours, minutes); err != nil {
		return nil, err
	}

	changed["updated_at"] = time.Now()
	if err := s.repo.UpdateTask(ctx, task.ID, changed); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetTaskByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	s.record(ctx, updated, models.EventUpdated, actorID, ComputeChanges(original, changed))
	return updated, nil
}

// ToggleCompleted flips the completion state and records
// completed_task or incompleted_task. No updated_task is recorded for
// the flip.
func (s *TaskService) ToggleCompleted(ctx context.Context, actorID primitive.ObjectID, id string) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	event := models.EventCompleted
	var completedAt *time.Time
	if task.CompletedAt == nil {
		now := time.Now()
		completedAt = &now
	} else {
		event = models.EventIncompleted
	}

	if err := s.repo.SetTaskCompletion(ctx, task.ID, completedAt); err != nil {
		return nil, err
	}
	task.CompletedAt = completedAt

	s.record(ctx, task, event, actorID, nil)
	return task, nil
}

// ToggleBilled flips the billing state and records billed_task or
// unbilled_task.
func (s *TaskService) ToggleBilled(ctx context.Context, actorID primitive.ObjectID, id string) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	event := models.EventBilled
	var billedAt *time.Time
	if task.BilledAt == nil {
		now := time.Now()
		billedAt = &now
	} else {
		event = models.EventUnbilled
	}

	if err := s.repo.SetTaskBilling(ctx, task.ID, billedAt); err != nil {
		return nil, err
	}
	task.BilledAt = billedAt

	s.record(ctx, task, event, actorID, nil)
	return task, nil
}

// DeleteTask soft-deletes the task and records deleted_task.
func (s *TaskService) DeleteTask(ctx context.Context, actorID primitive.ObjectID, id string) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteTask(ctx, task.ID, time.Now()); err != nil {
		return err
	}

	s.record(ctx, task, models.EventDeleted, actorID, nil)
	return nil
}

// RestoreTask clears the tombstone. Restoring records no activity.
func (s *TaskService) RestoreTask(ctx context.Context, id string) (*models.Task, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID")
	}
	task, err := s.repo.GetTaskByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if task.DeletedAt == nil {
		return task, nil
	}
	if err := s.repo.RestoreTask(ctx, task.ID); err != nil {
		return nil, err
	}
	return s.repo.GetTaskByID(ctx, task.ID)
}

// ForceDeleteTask permanently removes the task after its activities; a
// failed cleanup aborts the delete.
func (s *TaskService) ForceDeleteTask(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid task ID")
	}
	task, err := s.repo.GetTaskByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.activity.DeleteForSubject(ctx, task); err != nil {
		return err
	}
	return s.repo.HardDeleteTask(ctx, task.ID)
}

func (s *TaskService) record(ctx context.Context, task *models.Task, event string, actorID primitive.ObjectID, changes *models.ActivityChanges) {
	if _, err := s.activity.Record(ctx, task, event, actorID, changes); err != nil {
		logrus.WithError(err).WithField("task_id", task.ID.Hex()).Warn("Task activity not recorded")
	}
}

// sanitizeTaskUpdates keeps only the task's watched fields and
// normalizes numeric values, which arrive as float64 from JSON.
func sanitizeTaskUpdates(task *models.Task, updates map[string]interface{}) (map[string]interface{}, error) {
	sanitized := make(map[string]interface{})
	for _, key := range task.WatchedFields() {
		value, ok := updates[key]
		if !ok {
			continue
		}
		switch key {
		case "hours_spent", "minutes_spent":
			n, ok := toInt(value)
			if !ok {
				return nil, fmt.Errorf("attribute %q must be an integer", key)
			}
			sanitized[key] = n
		default:
			str, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("attribute %q must be a string", key)
			}
			sanitized[key] = str
		}
	}
	return sanitized, nil
}

func validateTimeSpent(hours, minutes int) error {
	if hours < 0 {
		return fmt.Errorf("hours spent must not be negative")
	}
	if minutes < 0 || minutes > 59 {
		return fmt.Errorf("minutes spent must be between 0 and 59")
	}
	return nil
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
