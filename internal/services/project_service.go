package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStore is the persistence abstraction for projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	GetProjectsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	GetProjectsByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Project, error)
	GetRecentProjects(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Project, error)
	UpdateProject(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	SoftDeleteProject(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error
	RestoreProject(ctx context.Context, id primitive.ObjectID) error
	HardDeleteProject(ctx context.Context, id primitive.ObjectID) error
	CountProjectsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// ProjectService implements the project resource operations and drives
// activity recording for them.
type ProjectService struct {
	repo     ProjectStore
	clients  ClientStore
	activity *ActivityService
}

func NewProjectService(repo ProjectStore, clients ClientStore, activity *ActivityService) *ProjectService {
	return &ProjectService{repo: repo, clients: clients, activity: activity}
}

// CreateProject persists a new project and records created_project. A
// client reference, when given, must belong to the same user.
func (s *ProjectService) CreateProject(ctx context.Context, actorID primitive.ObjectID, project *models.Project) (*models.Project, error) {
	if project.Title == "" {
		return nil, fmt.Errorf("project must have a title")
	}
	if !project.ClientID.IsZero() {
		if err := s.checkClientOwnership(ctx, project.ClientID, project.UserID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}

	s.record(ctx, created, models.EventCreated, actorID, nil)
	return created, nil
}

// GetProject fetches a project, hiding tombstoned ones.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID")
	}
	project, err := s.repo.GetProjectByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if project.DeletedAt != nil {
		return nil, fmt.Errorf("project not found")
	}
	return project, nil
}

// GetProjectAny fetches a project whether or not it is tombstoned, for
// the restore and force-delete paths.
func (s *ProjectService) GetProjectAny(ctx context.Context, id string) (*models.Project, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID")
	}
	return s.repo.GetProjectByID(ctx, objID)
}

func (s *ProjectService) GetProjectsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	return s.repo.GetProjectsByUser(ctx, userID)
}

func (s *ProjectService) GetProjectsByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Project, error) {
	return s.repo.GetProjectsByClient(ctx, clientID)
}

// GetRecentProjects returns the user's most recently touched projects
// for the dashboard.
func (s *ProjectService) GetRecentProjects(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Project, error) {
	return s.repo.GetRecentProjects(ctx, userID, limit)
}

func (s *ProjectService) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountProjectsByUser(ctx, userID)
}

// UpdateProject applies the changed attributes and records
// updated_project with the before/after diff. Updates that change
// nothing are a no-op and leave no activity behind.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID primitive.ObjectID, id string, updates map[string]interface{}) (*models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitized, err := sanitizeStringUpdates(updates, "title", "description")
	if err != nil {
		return nil, err
	}
	if title, ok := sanitized["title"]; ok && title == "" {
		return nil, fmt.Errorf("project must have a title")
	}
	if raw, ok := updates["client_id"]; ok {
		clientID, err := toObjectID(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid client ID")
		}
		if !clientID.IsZero() {
			if err := s.checkClientOwnership(ctx, clientID, project.UserID); err != nil {
				return nil, err
			}
		}
		sanitized["client_id"] = clientID
	}

	original := project.Attributes()
	changed := ChangedAttributes(original, sanitized)
	if len(changed) == 0 {
		return project, nil
	}

	changed["updated_at"] = time.Now()
	if err := s.repo.UpdateProject(ctx, project.ID, changed); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetProjectByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	s.record(ctx, updated, models.EventUpdated, actorID, ComputeChanges(original, changed))
	return updated, nil
}

// DeleteProject soft-deletes the project and records deleted_project.
func (s *ProjectService) DeleteProject(ctx context.Context, actorID primitive.ObjectID, id string) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteProject(ctx, project.ID, time.Now()); err != nil {
		return err
	}

	s.record(ctx, project, models.EventDeleted, actorID, nil)
	return nil
}

// RestoreProject clears the tombstone. Restoring records no activity.
func (s *ProjectService) RestoreProject(ctx context.Context, id string) (*models.Project, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID")
	}
	project, err := s.repo.GetProjectByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if project.DeletedAt == nil {
		return project, nil
	}
	if err := s.repo.RestoreProject(ctx, project.ID); err != nil {
		return nil, err
	}
	return s.repo.GetProjectByID(ctx, project.ID)
}

// ForceDeleteProject permanently removes the project after its
// activities; a failed cleanup aborts the delete.
func (s *ProjectService) ForceDeleteProject(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid project ID")
	}
	project, err := s.repo.GetProjectByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.activity.DeleteForSubject(ctx, project); err != nil {
		return err
	}
	return s.repo.HardDeleteProject(ctx, project.ID)
}

func (s *ProjectService) checkClientOwnership(ctx context.Context, clientID, userID primitive.ObjectID) error {
	client, err := s.clients.GetClientByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("client not found")
	}
	if client.DeletedAt != nil || client.UserID != userID {
		return fmt.Errorf("client does not belong to the user")
	}
	return nil
}

func (s *ProjectService) record(ctx context.Context, project *models.Project, event string, actorID primitive.ObjectID, changes *models.ActivityChanges) {
	if _, err := s.activity.Record(ctx, project, event, actorID, changes); err != nil {
		logrus.WithError(err).WithField("project_id", project.ID.Hex()).Warn("Project activity not recorded")
	}
}

// toObjectID accepts a hex string or an ObjectID; an empty string means
// the zero id.
func toObjectID(value interface{}) (primitive.ObjectID, error) {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v, nil
	case string:
		if v == "" {
			return primitive.NilObjectID, nil
		}
		return primitive.ObjectIDFromHex(v)
	default:
		return primitive.NilObjectID, fmt.Errorf("unsupported id type %T", value)
	}
}
