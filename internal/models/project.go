package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project groups the tasks tracked for a client. ClientID may be zero
// for internal projects without a client.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	ClientID    primitive.ObjectID `bson:"client_id,omitempty" json:"client_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description"`
	DeletedAt   *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p *Project) TrackableID() primitive.ObjectID { return p.ID }

func (p *Project) KindName() string { return KindProject }

func (p *Project) OwnerUserID() primitive.ObjectID { return p.UserID }

// Attributes returns the project's mutable attribute set, used as the
// baseline snapshot when diffing updates.
func (p *Project) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"client_id":   p.ClientID,
	}
}
