package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientStore is the persistence abstraction for clients.
type ClientStore interface {
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	GetClientsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Client, error)
	UpdateClient(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	SoftDeleteClient(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error
	RestoreClient(ctx context.Context, id primitive.ObjectID) error
	HardDeleteClient(ctx context.Context, id primitive.ObjectID) error
	CountClientsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// ClientService implements the client resource operations and drives
// activity recording for them.
type ClientService struct {
	repo     ClientStore
	activity *ActivityService
}

func NewClientService(repo ClientStore, activity *ActivityService) *ClientService {
	return &ClientService{repo: repo, activity: activity}
}

// CreateClient persists a new client and records created_client.
func (s *ClientService) CreateClient(ctx context.Context, actorID primitive.ObjectID, client *models.Client) (*models.Client, error) {
	if client.Name == "" {
		return nil, fmt.Errorf("client must have a name")
	}

	created, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return nil, err
	}

	s.record(ctx, created, models.EventCreated, actorID, nil)
	return created, nil
}

// GetClient fetches a client, hiding tombstoned ones.
func (s *ClientService) GetClient(ctx context.Context, id string) (*models.Client, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID")
	}
	client, err := s.repo.GetClientByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if client.DeletedAt != nil {
		return nil, fmt.Errorf("client not found")
	}
	return client, nil
}

// GetClientAny fetches a client whether or not it is tombstoned, for
// the restore and force-delete paths.
func (s *ClientService) GetClientAny(ctx context.Context, id string) (*models.Client, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID")
	}
	return s.repo.GetClientByID(ctx, objID)
}

func (s *ClientService) GetClientsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Client, error) {
	return s.repo.GetClientsByUser(ctx, userID)
}

func (s *ClientService) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountClientsByUser(ctx, userID)
}

// UpdateClient applies the changed attributes and records
// updated_client with the before/after diff. Updates that change
// nothing are a no-op and leave no activity behind.
func (s *ClientService) UpdateClient(ctx context.Context, actorID primitive.ObjectID, id string, updates map[string]interface{}) (*models.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitized, err := sanitizeStringUpdates(updates, "name", "description", "vat_abbr", "vat")
	if err != nil {
		return nil, err
	}
	if name, ok := sanitized["name"]; ok && name == "" {
		return nil, fmt.Errorf("client must have a name")
	}

	original := client.Attributes()
	changed := ChangedAttributes(original, sanitized)
	if len(changed) == 0 {
		return client, nil
	}

	changed["updated_at"] = time.Now()
	if err := s.repo.UpdateClient(ctx, client.ID, changed); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetClientByID(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	s.record(ctx, updated, models.EventUpdated, actorID, ComputeChanges(original, changed))
	return updated, nil
}

// DeleteClient soft-deletes the client and records deleted_client. The
// row stays behind as a tombstone and can be restored.
func (s *ClientService) DeleteClient(ctx context.Context, actorID primitive.ObjectID, id string) error {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteClient(ctx, client.ID, time.Now()); err != nil {
		return err
	}

	s.record(ctx, client, models.EventDeleted, actorID, nil)
	return nil
}

// RestoreClient clears the tombstone. Restoring records no activity.
func (s *ClientService) RestoreClient(ctx context.Context, id string) (*models.Client, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID")
	}
	client, err := s.repo.GetClientByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if client.DeletedAt == nil {
		return client, nil
	}
	if err := s.repo.RestoreClient(ctx, client.ID); err != nil {
		return nil, err
	}
	return s.repo.GetClientByID(ctx, client.ID)
}

// ForceDeleteClient permanently removes the client. The cascade cleanup
// of its activities runs first and a failure there aborts the delete,
// so no activity can be orphaned.
func (s *ClientService) ForceDeleteClient(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid client ID")
	}
	client, err := s.repo.GetClientByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.activity.DeleteForSubject(ctx, client); err != nil {
		return err
	}
	return s.repo.HardDeleteClient(ctx, client.ID)
}

// record is the best-effort recording hook: a failed activity write is
// logged and never rolls back the client mutation it followed.
func (s *ClientService) record(ctx context.Context, client *models.Client, event string, actorID primitive.ObjectID, changes *models.ActivityChanges) {
	if _, err := s.activity.Record(ctx, client, event, actorID, changes); err != nil {
		logrus.WithError(err).WithField("client_id", client.ID.Hex()).Warn("Client activity not recorded")
	}
}

// sanitizeStringUpdates keeps only the allowed keys and requires their
// values to be strings.
func sanitizeStringUpdates(updates map[string]interface{}, allowed ...string) (map[string]interface{}, error) {
	sanitized := make(map[string]interface{})
	for _, key := range allowed {
		value, ok := updates[key]
		if !ok {
			continue
		}
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("attribute %q must be a string", key)
		}
		sanitized[key] = str
	}
	return sanitized, nil
}
