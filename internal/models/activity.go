package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Events recordable for a trackable entity.
const (
	EventCreated     = "created"
	EventUpdated     = "updated"
	EventDeleted     = "deleted"
	EventCompleted   = "completed"
	EventIncompleted = "incompleted"
	EventBilled      = "billed"
	EventUnbilled    = "unbilled"
)

// ActivityChanges holds the attribute delta recorded for an update
// event. Before and After always carry the same key set.
type ActivityChanges struct {
	Before map[string]interface{} `bson:"before" json:"before"`
	After  map[string]interface{} `bson:"after" json:"after"`
}

// Activity is an immutable audit record of one lifecycle event on a
// trackable entity. It is never updated after insertion and is only
// removed when its subject is hard-deleted.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	SubjectType string             `bson:"subject_type" json:"subject_type"`
	SubjectID   primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	Description string             `bson:"description" json:"description"`
	Changes     *ActivityChanges   `bson:"changes,omitempty" json:"changes"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// EchoDescription renders the description for humans,
// e.g. "created_project" becomes "Created Project".
func (a *Activity) EchoDescription() string {
	words := strings.Split(a.Description, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
