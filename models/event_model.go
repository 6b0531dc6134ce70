package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Author      primitive.ObjectID `json:"author" bson:"author"`
	Org         primitive.ObjectID `json:"org,omitempty" bson:"org,omitempty"`
	Title       string             `json:"title" bson:"title"`
	StartTime   time.Time          `json:"startTime" bson:"startTime"`
	EndTime     time.Time          `json:"endTime" bson:"endTime"`
	Location    string             `json:"location" bson:"location"`
	Description string             `json:"description" bson:"description"`
	Categories  []string           `json:"categories" bson:"categories"`
	TicketInfo  string             `json:"ticketInfo,omitempty" bson:"ticketInfo,omitempty"`
	ImageID     primitive.ObjectID `json:"imageId,omitempty" bson:"imageId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Upcoming reports whether the event starts strictly after now.
func (e Event) Upcoming(now time.Time) bool {
	return e.StartTime.After(now)
}
