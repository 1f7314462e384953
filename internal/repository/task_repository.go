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

// TaskRepository handles database operations related to tasks.
type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		collection: db.Collection("tasks"),
	}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	task.ID = result.InsertedID.(primitive.ObjectID)
	return task, nil
}

// GetTaskByID fetches a task including tombstoned ones; callers decide
// whether a tombstone counts as found.
func (r *TaskRepository) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to get task: %v", err)
	}
	return &task, nil
}

// GetTasksByProject lists a project's live tasks, newest first.
func (r *TaskRepository) GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return r.find(ctx, bson.M{"project_id": projectID, "deleted_at": nil})
}

// GetTasksByUser lists every live task a user owns, newest first.
func (r *TaskRepository) GetTasksByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return r.find(ctx, bson.M{"user_id": userID, "deleted_at": nil})
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update task: %v", err)
	}
	return nil
}

// SetTaskCompletion sets or clears completed_at; nil clears it.
func (r *TaskRepository) SetTaskCompletion(ctx context.Context, id primitive.ObjectID, completedAt *time.Time) error {
	return r.setStateField(ctx, id, "completed_at", completedAt)
}

// SetTaskBilling sets or clears billed_at; nil clears it.
func (r *TaskRepository) SetTaskBilling(ctx context.Context, id primitive.ObjectID, billedAt *time.Time) error {
	return r.setStateField(ctx, id, "billed_at", billedAt)
}

func (r *TaskRepository) setStateField(ctx context.Context, id primitive.ObjectID, field string, value *time.Time) error {
	var update bson.M
	if value == nil {
		update = bson.M{"$unset": bson.M{field: ""}, "$set": bson.M{"updated_at": time.Now()}}
	} else {
		update = bson.M{"$set": bson.M{field: *value, "updated_at": time.Now()}}
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %v", field, err)
	}
	return nil
}

func (r *TaskRepository) SoftDeleteTask(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	update := bson.M{"$set": bson.M{"deleted_at": deletedAt, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	return nil
}

func (r *TaskRepository) RestoreTask(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$unset": bson.M{"deleted_at": ""}, "$set": bson.M{"updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to restore task: %v", err)
	}
	return nil
}

func (r *TaskRepository) HardDeleteTask(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to permanently delete task: %v", err)
	}
	return nil
}

func (r *TaskRepository) CountTasksByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "deleted_at": nil})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %v", err)
	}
	return count, nil
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}
