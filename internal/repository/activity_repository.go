package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository is the mongo-backed activity store.
type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection("activities"),
	}
}

// CreateActivity inserts a new activity record. A preset CreatedAt is
// kept so seed tooling can backdate fixtures.
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert activity")
		return nil, fmt.Errorf("failed to insert activity: %v", err)
	}

	activity.ID = result.InsertedID.(primitive.ObjectID)
	return activity, nil
}

// GetUserActivities fetches a user's activities newest-first. A limit
// of 0 fetches everything.
func (r *ActivityRepository) GetUserActivities(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Activity, error) {
	return r.find(ctx, bson.M{"user_id": userID}, page, limit)
}

// GetSubjectActivities fetches the activities recorded for one entity
// newest-first.
func (r *ActivityRepository) GetSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID, page, limit int64) ([]models.Activity, error) {
	filter := bson.M{"subject_type": subjectType, "subject_id": subjectID}
	return r.find(ctx, filter, page, limit)
}

// DeleteSubjectActivities removes every activity referencing the
// subject, as the cascade step of a hard delete.
func (r *ActivityRepository) DeleteSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID) error {
	filter := bson.M{"subject_type": subjectType, "subject_id": subjectID}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete activities: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"subject_type": subjectType,
		"subject_id":   subjectID.Hex(),
		"deleted":      result.DeletedCount,
	}).Info("Subject activities deleted")
	return nil
}

func (r *ActivityRepository) find(ctx context.Context, filter bson.M, page, limit int64) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip((page - 1) * limit).SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}
