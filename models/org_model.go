package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Org struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	CreatedAt time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// CategoryList is the single document in the categories collection.
type CategoryList struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Categories []string           `json:"categories" bson:"categories"`
}
