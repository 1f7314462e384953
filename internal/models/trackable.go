package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Subject kinds of recorded activities.
const (
	KindClient  = "client"
	KindProject = "project"
	KindTask    = "task"
)

// Trackable is implemented by every entity whose lifecycle is audited.
// The owner is the user activities get attributed to; for tasks that is
// the owner of the parent project.
type Trackable interface {
	TrackableID() primitive.ObjectID
	KindName() string
	OwnerUserID() primitive.ObjectID
}
