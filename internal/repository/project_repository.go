package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectRepository handles database operations related to projects.
type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		collection: db.Collection("projects"),
	}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}

	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

// GetProjectByID fetches a project including tombstoned ones; callers
// decide whether a tombstone counts as found.
func (r *ProjectRepository) GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to get project: %v", err)
	}
	return &project, nil
}

// GetProjectsByUser lists a user's live projects, most recently touched
// first.
func (r *ProjectRepository) GetProjectsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	return r.find(ctx, bson.M{"user_id": userID, "deleted_at": nil}, 0)
}

// GetProjectsByClient lists the live projects under a client.
func (r *ProjectRepository) GetProjectsByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Project, error) {
	return r.find(ctx, bson.M{"client_id": clientID, "deleted_at": nil}, 0)
}

// GetRecentProjects returns the user's most recently updated projects.
func (r *ProjectRepository) GetRecentProjects(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Project, error) {
	return r.find(ctx, bson.M{"user_id": userID, "deleted_at": nil}, limit)
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update project: %v", err)
	}
	return nil
}

func (r *ProjectRepository) SoftDeleteProject(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	update := bson.M{"$set": bson.M{"deleted_at": deletedAt, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	return nil
}

func (r *ProjectRepository) RestoreProject(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$unset": bson.M{"deleted_at": ""}, "$set": bson.M{"updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to restore project: %v", err)
	}
	return nil
}

func (r *ProjectRepository) HardDeleteProject(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to permanently delete project: %v", err)
	}
	return nil
}

func (r *ProjectRepository) CountProjectsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "deleted_at": nil})
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %v", err)
	}
	return count, nil
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}
