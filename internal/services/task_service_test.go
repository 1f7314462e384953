package services

import (
	"context"
	"testing"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type taskServiceFixture struct {
	tasks      *TaskService
	taskStore  *fakeTaskStore
	activities *fakeActivityStore
	userID     primitive.ObjectID
	project    *models.Project
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()

	activityStore := &fakeActivityStore{}
	taskStore := newFakeTaskStore()
	projectStore := newFakeProjectStore()
	activity := NewActivityService(activityStore, taskStore)

	userID := primitive.NewObjectID()
	project, err := projectStore.CreateProject(context.Background(), &models.Project{
		UserID: userID,
		Title:  "Website relaunch",
	})
	require.NoError(t, err)

	return &taskServiceFixture{
		tasks:      NewTaskService(taskStore, projectStore, activity),
		taskStore:  taskStore,
		activities: activityStore,
		userID:     userID,
		project:    project,
	}
}

func (f *taskServiceFixture) createTask(t *testing.T) *models.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), f.userID, f.project.ID.Hex(), &models.Task{
		Title:        "Design homepage",
		Description:  "First draft",
		HoursSpent:   2,
		MinutesSpent: 30,
	})
	require.NoError(t, err)
	return task
}

func (f *taskServiceFixture) descriptions() []string {
	// Insertion order, oldest first.
	descriptions := make([]string, 0, len(f.activities.activities))
	for _, a := range f.activities.activities {
		descriptions = append(descriptions, a.Description)
	}
	return descriptions
}

func TestCreateTaskInheritsProjectOwner(t *testing.T) {
	f := newTaskServiceFixture(t)

	task := f.createTask(t)

	assert.Equal(t, f.userID, task.UserID)
	assert.Equal(t, f.project.ID, task.ProjectID)
	assert.Equal(t, []string{"created_task"}, f.descriptions())
	assert.Equal(t, f.userID, f.activities.activities[0].UserID)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newTaskServiceFixture(t)

	tests := []struct {
		name string
		task models.Task
	}{
		{name: "missing title", task: models.Task{HoursSpent: 1}},
		{name: "negative hours", task: models.Task{Title: "x", HoursSpent: -1}},
		{name: "minutes out of range", task: models.Task{Title: "x", MinutesSpent: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			_, err := f.tasks.CreateTask(context.Background(), f.userID, f.project.ID.Hex(), &task)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, f.activities.activities)
}

func TestUpdateTaskRecordsWatchedFieldDiff(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	// JSON decoding hands numbers over as float64.
	updated, err := f.tasks.UpdateTask(context.Background(), f.userID, task.ID.Hex(), map[string]interface{}{
		"title":       "Design homepage v2",
		"hours_spent": float64(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Design homepage v2", updated.Title)
	assert.Equal(t, 5, updated.HoursSpent)

	require.Equal(t, []string{"created_task", "updated_task"}, f.descriptions())
	changes := f.activities.activities[1].Changes
	require.NotNil(t, changes)
	assert.Equal(t, map[string]interface{}{"title": "Design homepage", "hours_spent": 2}, changes.Before)
	assert.Equal(t, map[string]interface{}{"title": "Design homepage v2", "hours_spent": 5}, changes.After)
}

func TestUpdateTaskIgnoresStateTimestamps(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	updated, err := f.tasks.UpdateTask(context.Background(), f.userID, task.ID.Hex(), map[string]interface{}{
		"completed_at": time.Now().Format(time.RFC3339),
		"billed_at":    time.Now().Format(time.RFC3339),
	})
	require.NoError(t, err)

	assert.Nil(t, updated.CompletedAt)
	assert.Nil(t, updated.BilledAt)
	assert.Equal(t, []string{"created_task"}, f.descriptions())
}

func TestUpdateTaskNoopRecordsNothing(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	_, err := f.tasks.UpdateTask(context.Background(), f.userID, task.ID.Hex(), map[string]interface{}{
		"title":         "Design homepage",
		"minutes_spent": float64(30),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"created_task"}, f.descriptions())
}

func TestUpdateTaskRejectsFractionalMinutes(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	_, err := f.tasks.UpdateTask(context.Background(), f.userID, task.ID.Hex(), map[string]interface{}{
		"minutes_spent": 12.5,
	})

	assert.Error(t, err)
}

func TestToggleCompletedRoundTrip(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	completed, err := f.tasks.ToggleCompleted(context.Background(), f.userID, task.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, completed.CompletedAt)

	reopened, err := f.tasks.ToggleCompleted(context.Background(), f.userID, task.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	// The toggles record semantic events, never updated_task.
	assert.Equal(t, []string{"created_task", "completed_task", "incompleted_task"}, f.descriptions())
	assert.Nil(t, f.activities.activities[1].Changes)
}

func TestToggleBilledRoundTrip(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	billed, err := f.tasks.ToggleBilled(context.Background(), f.userID, task.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, billed.BilledAt)

	unbilled, err := f.tasks.ToggleBilled(context.Background(), f.userID, task.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, unbilled.BilledAt)

	assert.Equal(t, []string{"created_task", "billed_task", "unbilled_task"}, f.descriptions())
}

func TestDeleteAndRestoreTask(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	require.NoError(t, f.tasks.DeleteTask(context.Background(), f.userID, task.ID.Hex()))
	_, err := f.tasks.GetTask(context.Background(), task.ID.Hex())
	assert.Error(t, err)

	restored, err := f.tasks.RestoreTask(context.Background(), task.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	assert.Equal(t, []string{"created_task", "deleted_task"}, f.descriptions())
}

func TestForceDeleteTaskCascadesOnlyItsActivities(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)
	other := f.createTask(t)
	_, err := f.tasks.ToggleCompleted(context.Background(), f.userID, task.ID.Hex())
	require.NoError(t, err)

	require.NoError(t, f.tasks.ForceDeleteTask(context.Background(), task.ID.Hex()))

	_, err = f.taskStore.GetTaskByID(context.Background(), task.ID)
	assert.Error(t, err)

	// Only the other task's trail remains.
	require.Len(t, f.activities.activities, 1)
	assert.Equal(t, other.ID, f.activities.activities[0].SubjectID)
}

func TestCreateTaskUnderDeletedProjectFails(t *testing.T) {
	f := newTaskServiceFixture(t)
	projectStore := f.tasks.projects.(*fakeProjectStore)
	require.NoError(t, projectStore.SoftDeleteProject(context.Background(), f.project.ID, time.Now()))

	_, err := f.tasks.CreateTask(context.Background(), f.userID, f.project.ID.Hex(), &models.Task{Title: "x"})

	assert.Error(t, err)
}
