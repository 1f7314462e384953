package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores backing the service tests.

type fakeActivityStore struct {
	activities []models.Activity
	failCreate error
	failDelete error
}

func (f *fakeActivityStore) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	activity.ID = primitive.NewObjectID()
	f.activities = append(f.activities, *activity)
	return activity, nil
}

func (f *fakeActivityStore) GetUserActivities(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Activity, error) {
	matched := make([]models.Activity, 0)
	for _, a := range f.activities {
		if a.UserID == userID {
			matched = append(matched, a)
		}
	}
	return paginate(matched, page, limit), nil
}

func (f *fakeActivityStore) GetSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID, page, limit int64) ([]models.Activity, error) {
	matched := make([]models.Activity, 0)
	for _, a := range f.activities {
		if a.SubjectType == subjectType && a.SubjectID == subjectID {
			matched = append(matched, a)
		}
	}
	return paginate(matched, page, limit), nil
}

func (f *fakeActivityStore) DeleteSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	kept := f.activities[:0]
	for _, a := range f.activities {
		if a.SubjectType != subjectType || a.SubjectID != subjectID {
			kept = append(kept, a)
		}
	}
	f.activities = kept
	return nil
}

func paginate(activities []models.Activity, page, limit int64) []models.Activity {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if limit <= 0 {
		return activities
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= int64(len(activities)) {
		return []models.Activity{}
	}
	end := start + limit
	if end > int64(len(activities)) {
		end = int64(len(activities))
	}
	return activities[start:end]
}

type fakeClientStore struct {
	clients map[primitive.ObjectID]*models.Client
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: make(map[primitive.ObjectID]*models.Client)}
}

func (f *fakeClientStore) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()
	stored := *client
	f.clients[client.ID] = &stored
	return client, nil
}

func (f *fakeClientStore) GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, fmt.Errorf("client not found")
	}
	copied := *client
	return &copied, nil
}

func (f *fakeClientStore) GetClientsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Client, error) {
	clients := make([]models.Client, 0)
	for _, c := range f.clients {
		if c.UserID == userID && c.DeletedAt == nil {
			clients = append(clients, *c)
		}
	}
	return clients, nil
}

func (f *fakeClientStore) UpdateClient(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	client, ok := f.clients[id]
	if !ok {
		return fmt.Errorf("client not found")
	}
	for key, value := range updates {
		switch key {
		case "name":
			client.Name = value.(string)
		case "description":
			client.Description = value.(string)
		case "vat_abbr":
			client.VatAbbr = value.(string)
		case "vat":
			client.Vat = value.(string)
		case "updated_at":
			client.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (f *fakeClientStore) SoftDeleteClient(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	client, ok := f.clients[id]
	if !ok {
		return fmt.Errorf("client not found")
	}
	client.DeletedAt = &deletedAt
	return nil
}

func (f *fakeClientStore) RestoreClient(ctx context.Context, id primitive.ObjectID) error {
	client, ok := f.clients[id]
	if !ok {
		return fmt.Errorf("client not found")
	}
	client.DeletedAt = nil
	return nil
}

func (f *fakeClientStore) HardDeleteClient(ctx context.Context, id primitive.ObjectID) error {
	delete(f.clients, id)
	return nil
}

func (f *fakeClientStore) CountClientsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	clients, _ := f.GetClientsByUser(ctx, userID)
	return int64(len(clients)), nil
}

type fakeProjectStore struct {
	projects map[primitive.ObjectID]*models.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[primitive.ObjectID]*models.Project)}
}

func (f *fakeProjectStore) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.ID = primitive.NewObjectID()
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	stored := *project
	f.projects[project.ID] = &stored
	return project, nil
}

func (f *fakeProjectStore) GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("project not found")
	}
	copied := *project
	return &copied, nil
}

func (f *fakeProjectStore) GetProjectsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	for _, p := range f.projects {
		if p.UserID == userID && p.DeletedAt == nil {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

func (f *fakeProjectStore) GetProjectsByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	for _, p := range f.projects {
		if p.ClientID == clientID && p.DeletedAt == nil {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

func (f *fakeProjectStore) GetRecentProjects(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Project, error) {
	projects, _ := f.GetProjectsByUser(ctx, userID)
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	if limit > 0 && int64(len(projects)) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

func (f *fakeProjectStore) UpdateProject(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	project, ok := f.projects[id]
	if !ok {
		return fmt.Errorf("project not found")
	}
	for key, value := range updates {
		switch key {
		case "title":
			project.Title = value.(string)
		case "description":
			project.Description = value.(string)
		case "client_id":
			project.ClientID = value.(primitive.ObjectID)
		case "updated_at":
			project.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (f *fakeProjectStore) SoftDeleteProject(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	project, ok := f.projects[id]
	if !ok {
		return fmt.Errorf("project not found")
	}
	project.DeletedAt = &deletedAt
	return nil
}

func (f *fakeProjectStore) RestoreProject(ctx context.Context, id primitive.ObjectID) error {
	project, ok := f.projects[id]
	if !ok {
		return fmt.Errorf("project not found")
	}
	project.DeletedAt = nil
	return nil
}

func (f *fakeProjectStore) HardDeleteProject(ctx context.Context, id primitive.ObjectID) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectStore) CountProjectsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	projects, _ := f.GetProjectsByUser(ctx, userID)
	return int64(len(projects)), nil
}

type fakeTaskStore struct {
	tasks map[primitive.ObjectID]*models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (f *fakeTaskStore) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = primitive.NewObjectID()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.UpdatedAt = time.Now()
	stored := *task
	f.tasks[task.ID] = &stored
	return task, nil
}

func (f *fakeTaskStore) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task not found")
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskStore) GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.DeletedAt == nil {
			tasks = append(tasks, *t)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func (f *fakeTaskStore) GetTasksByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	for _, t := range f.tasks {
		if t.UserID == userID && t.DeletedAt == nil {
			tasks = append(tasks, *t)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func sortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func (f *fakeTaskStore) UpdateTask(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	task, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("task not found")
	}
	for key, value := range updates {
		switch key {
		case "title":
			task.Title = value.(string)
		case "description":
			task.Description = value.(string)
		case "hours_spent":
			task.HoursSpent = value.(int)
		case "minutes_spent":
			task.MinutesSpent = value.(int)
		case "updated_at":
			task.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (f *fakeTaskStore) SetTaskCompletion(ctx context.Context, id primitive.ObjectID, completedAt *time.Time) error {
	task, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("task not found")
	}
	task.CompletedAt = completedAt
	task.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTaskStore) SetTaskBilling(ctx context.Context, id primitive.ObjectID, billedAt *time.Time) error {
	task, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("task not found")
	}
	task.BilledAt = billedAt
	task.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTaskStore) SoftDeleteTask(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	task, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("task not found")
	}
	task.DeletedAt = &deletedAt
	return nil
}

func (f *fakeTaskStore) RestoreTask(ctx context.Context, id primitive.ObjectID) error {
	task, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("task not found")
	}
	task.DeletedAt = nil
	return nil
}

func (f *fakeTaskStore) HardDeleteTask(ctx context.Context, id primitive.ObjectID) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) CountTasksByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	tasks, _ := f.GetTasksByUser(ctx, userID)
	return int64(len(tasks)), nil
}
