package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of tracked work under a project. CompletedAt and
// BilledAt double as state flags: nil means not completed / not billed.
type Task struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProjectID    primitive.ObjectID `bson:"project_id" json:"project_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description"`
	HoursSpent   int                `bson:"hours_spent" json:"hours_spent"`
	MinutesSpent int                `bson:"minutes_spent" json:"minutes_spent"`
	CompletedAt  *time.Time         `bson:"completed_at,omitempty" json:"completed_at"`
	BilledAt     *time.Time         `bson:"billed_at,omitempty" json:"billed_at"`
	DeletedAt    *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

func (t *Task) TrackableID() primitive.ObjectID { return t.ID }

func (t *Task) KindName() string { return KindTask }

// OwnerUserID returns the owner inherited from the parent project when
// the task was created.
func (t *Task) OwnerUserID() primitive.ObjectID { return t.UserID }

// Attributes returns the task's mutable attribute set, used as the
// baseline snapshot when diffing updates. Completion and billing state
// are excluded: they change through their own semantic events.
func (t *Task) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"title":         t.Title,
		"description":   t.Description,
		"hours_spent":   t.HoursSpent,
		"minutes_spent": t.MinutesSpent,
	}
}

// WatchedFields lists the attributes whose change triggers an
// "updated_task" activity. Toggling completed_at or billed_at records
// completed/incompleted/billed/unbilled instead.
func (t *Task) WatchedFields() []string {
	return []string{"title", "description", "hours_spent", "minutes_spent"}
}
