package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	FirstName      string               `json:"firstName" bson:"firstName"`
	LastName       string               `json:"lastName" bson:"lastName"`
	Username       string               `json:"username" bson:"username"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"-" bson:"password"`
	Majors         []string             `json:"majors" bson:"majors"`
	Year           int                  `json:"year" bson:"year"`
	Interests      []string             `json:"interests" bson:"interests"`
	SavedEvents    []primitive.ObjectID `json:"savedEvents" bson:"savedEvents"`
	Orgs           []primitive.ObjectID `json:"orgs" bson:"orgs"`
	Friends        []primitive.ObjectID `json:"friends" bson:"friends"`
	FriendRequests []primitive.ObjectID `json:"friendRequests" bson:"friendRequests"`
	ProfilePicture primitive.ObjectID   `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	CreatedAt      time.Time            `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt      time.Time            `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// HasFriend reports whether id is in the user's friends list.
func (u User) HasFriend(id primitive.ObjectID) bool {
	return containsID(u.Friends, id)
}

// HasRequestFrom reports whether id has a pending inbound friend request.
func (u User) HasRequestFrom(id primitive.ObjectID) bool {
	return containsID(u.FriendRequests, id)
}

// HasSavedEvent reports whether the user bookmarked the given event.
func (u User) HasSavedEvent(id primitive.ObjectID) bool {
	return containsID(u.SavedEvents, id)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
