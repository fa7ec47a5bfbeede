package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Currency is a tradeable kingdom currency identified by a short code
// (e.g. "ORO" for Ouro Real, "TIB" for Tibar).
type Currency struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code          string             `bson:"code" json:"code"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	DeactivatedAt *time.Time         `bson:"deactivated_at,omitempty" json:"deactivated_at,omitempty"`
}

func (c *Currency) Deactivate() {
	now := time.Now()
	c.IsActive = false
	c.DeactivatedAt = &now
	c.UpdatedAt = now
}
