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

// ClientRepository handles database operations related to clients.
type ClientRepository struct {
	collection *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{
		collection: db.Collection("clients"),
	}
}

func (r *ClientRepository) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %v", err)
	}

	client.ID = result.InsertedID.(primitive.ObjectID)
	return client, nil
}

// GetClientByID fetches a client including tombstoned ones; callers
// decide whether a tombstone counts as found.
func (r *ClientRepository) GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client); err != nil {
		return nil, fmt.Errorf("failed to get client: %v", err)
	}
	return &client, nil
}

// GetClientsByUser lists a user's live clients, newest first.
func (r *ClientRepository) GetClientsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Client, error) {
	filter := bson.M{"user_id": userID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %v", err)
	}
	defer cursor.Close(ctx)

	var clients []models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %v", err)
	}
	return clients, nil
}

func (r *ClientRepository) UpdateClient(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update client: %v", err)
	}
	return nil
}

func (r *ClientRepository) SoftDeleteClient(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	update := bson.M{"$set": bson.M{"deleted_at": deletedAt, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to delete client: %v", err)
	}
	return nil
}

func (r *ClientRepository) RestoreClient(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$unset": bson.M{"deleted_at": ""}, "$set": bson.M{"updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to restore client: %v", err)
	}
	return nil
}

func (r *ClientRepository) HardDeleteClient(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to permanently delete client: %v", err)
	}
	return nil
}

func (r *ClientRepository) CountClientsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "deleted_at": nil})
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %v", err)
	}
	return count, nil
}
