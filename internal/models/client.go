package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a billable customer a user tracks projects for.
type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description"`
	VatAbbr     string             `bson:"vat_abbr,omitempty" json:"vat_abbr"`
	Vat         string             `bson:"vat,omitempty" json:"vat"`
	DeletedAt   *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (c *Client) TrackableID() primitive.ObjectID { return c.ID }

func (c *Client) KindName() string { return KindClient }

func (c *Client) OwnerUserID() primitive.ObjectID { return c.UserID }

// Attributes returns the client's mutable attribute set, used as the
// baseline snapshot when diffing updates.
func (c *Client) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"vat_abbr":    c.VatAbbr,
		"vat":         c.Vat,
	}
}
