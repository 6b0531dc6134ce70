package services

import (
	"campus-server/models"
	"campus-server/utils/errors"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FriendStatus values as rendered to the client.
const (
	StatusFriends         = "friends"
	StatusPendingApproval = "pending-approval" // other has requested self
	StatusRequestSent     = "request-sent"     // self has requested other
	StatusNotFriends      = "not-friends"
	StatusUnknown         = "unknown"
)

// FriendService owns every mutation of the friends/friendRequests lists.
// Both sides of a transition are written inside one transaction so the
// graph can never end up one-sided.
type FriendService struct {
	client      *mongo.Client
	collection  *mongo.Collection
	redisClient *redis.Client
}

func NewFriendService(client *mongo.Client, db *mongo.Database, redisClient *redis.Client) *FriendService {
	return &FriendService{
		client:      client,
		collection:  db.Collection("users"),
		redisClient: redisClient,
	}
}

// CheckFriendStatus resolves the relationship of self towards other.
// Precedence: friends > pending-approval > request-sent > not-friends.
func CheckFriendStatus(self *models.User, other models.User) string {
	if self == nil {
		return StatusUnknown
	}
	switch {
	case self.HasFriend(other.ID):
		return StatusFriends
	case self.HasRequestFrom(other.ID):
		return StatusPendingApproval
	case other.HasRequestFrom(self.ID):
		return StatusRequestSent
	default:
		return StatusNotFriends
	}
}

// ValidateSendRequest checks the Unrelated precondition for a new request.
// A request already sent is reported as nil so re-sending stays idempotent.
func ValidateSendRequest(sender, recipient models.User) error {
	if sender.ID == recipient.ID {
		return errors.NewValidation("Cannot send a friend request to yourself")
	}
	if sender.HasFriend(recipient.ID) || recipient.HasFriend(sender.ID) {
		return errors.NewAPIError("ALREADY_FRIENDS", "Users are already friends", http.StatusConflict)
	}
	if sender.HasRequestFrom(recipient.ID) {
		return errors.NewAPIError("REVERSE_REQUEST_PENDING", "This user has already sent you a friend request", http.StatusConflict)
	}
	return nil
}

// ValidatePendingRequest checks the RequestPending(sender -> user)
// precondition shared by accept and decline.
func ValidatePendingRequest(user, sender models.User) error {
	if user.ID == sender.ID {
		return errors.NewValidation("Friend requests cannot involve a single user")
	}
	if !user.HasRequestFrom(sender.ID) {
		return errors.NewNotFound("No pending friend request from this user")
	}
	return nil
}

// ValidateRemoveFriend checks the Friends precondition.
func ValidateRemoveFriend(user, friend models.User) error {
	if user.ID == friend.ID {
		return errors.NewValidation("Cannot unfriend yourself")
	}
	if !user.HasFriend(friend.ID) {
		return errors.NewNotFound("Users are not friends")
	}
	return nil
}

// SendRequest places senderID in recipient's inbound friendRequests.
func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID string) error {
	senderObjID, recipientObjID, err := parseIDPair(senderID, recipientID)
	if err != nil {
		return err
	}

	return s.inTransaction(ctx, []string{senderID, recipientID}, func(sc mongo.SessionContext) error {
		sender, recipient, err := s.loadPair(sc, senderObjID, recipientObjID)
		if err != nil {
			return err
		}
		if err := ValidateSendRequest(sender, recipient); err != nil {
			return err
		}
		// $addToSet keeps the request list duplicate-free on re-send
		return s.updateOne(sc, recipientObjID, bson.M{
			"$addToSet": bson.M{"friendRequests": senderObjID},
		})
	})
}

// AcceptRequest turns a pending request into a mutual friendship.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, senderID string) error {
	userObjID, senderObjID, err := parseIDPair(userID, senderID)
	if err != nil {
		return err
	}

	return s.inTransaction(ctx, []string{userID, senderID}, func(sc mongo.SessionContext) error {
		user, sender, err := s.loadPair(sc, userObjID, senderObjID)
		if err != nil {
			return err
		}
		if err := ValidatePendingRequest(user, sender); err != nil {
			return err
		}
		if err := s.updateOne(sc, userObjID, bson.M{
			"$addToSet": bson.M{"friends": senderObjID},
			"$pull":     bson.M{"friendRequests": senderObjID},
		}); err != nil {
			return err
		}
		return s.updateOne(sc, senderObjID, bson.M{
			"$addToSet": bson.M{"friends": userObjID},
		})
	})
}

// DeclineRequest drops a pending request, returning the pair to Unrelated.
func (s *FriendService) DeclineRequest(ctx context.Context, userID, senderID string) error {
	userObjID, senderObjID, err := parseIDPair(userID, senderID)
	if err != nil {
		return err
	}

	return s.inTransaction(ctx, []string{userID, senderID}, func(sc mongo.SessionContext) error {
		user, sender, err := s.loadPair(sc, userObjID, senderObjID)
		if err != nil {
			return err
		}
		if err := ValidatePendingRequest(user, sender); err != nil {
			return err
		}
		return s.updateOne(sc, userObjID, bson.M{
			"$pull": bson.M{"friendRequests": senderObjID},
		})
	})
}

// RemoveFriend dissolves a friendship from both sides.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	userObjID, friendObjID, err := parseIDPair(userID, friendID)
	if err != nil {
		return err
	}

	return s.inTransaction(ctx, []string{userID, friendID}, func(sc mongo.SessionContext) error {
		user, friend, err := s.loadPair(sc, userObjID, friendObjID)
		if err != nil {
			return err
		}
		if err := ValidateRemoveFriend(user, friend); err != nil {
			return err
		}
		if err := s.updateOne(sc, userObjID, bson.M{
			"$pull": bson.M{"friends": friendObjID},
		}); err != nil {
			return err
		}
		return s.updateOne(sc, friendObjID, bson.M{
			"$pull": bson.M{"friends": userObjID},
		})
	})
}

// Status resolves the relationship of self towards other for UI gating.
func (s *FriendService) Status(ctx context.Context, selfID, otherID string) (string, error) {
	selfObjID, err := primitive.ObjectIDFromHex(selfID)
	if err != nil {
		return StatusUnknown, errors.NewValidation("Invalid user ID format")
	}
	otherObjID, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return StatusUnknown, errors.NewValidation("Invalid user ID format")
	}

	var other models.User
	if err := s.collection.FindOne(ctx, bson.M{"_id": otherObjID}).Decode(&other); err != nil {
		if err == mongo.ErrNoDocuments {
			return StatusUnknown, errors.NewNotFound("No user found with ID: " + otherID)
		}
		return StatusUnknown, errors.Wrap(err, "DB_ERROR", "Error fetching user", http.StatusInternalServerError)
	}

	var self models.User
	if err := s.collection.FindOne(ctx, bson.M{"_id": selfObjID}).Decode(&self); err != nil {
		return StatusUnknown, nil
	}
	return CheckFriendStatus(&self, other), nil
}

// inTransaction runs fn inside a session transaction and invalidates the
// cache entries of the touched users on success.
func (s *FriendService) inTransaction(ctx context.Context, touched []string, fn func(mongo.SessionContext) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to start session", http.StatusInternalServerError)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil {
		if _, ok := err.(*errors.APIError); ok {
			return err
		}
		return errors.Wrap(err, "DB_ERROR", "Friend transition failed", http.StatusInternalServerError)
	}

	for _, id := range touched {
		if err := s.redisClient.Del(ctx, "user:"+id).Err(); err != nil {
			log.Printf("Failed to invalidate cached user %s: %v", id, err)
		}
	}
	return nil
}

func (s *FriendService) loadPair(sc mongo.SessionContext, aID, bID primitive.ObjectID) (models.User, models.User, error) {
	var a, b models.User
	if err := s.collection.FindOne(sc, bson.M{"_id": aID}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return a, b, errors.NewNotFound("No user found with ID: " + aID.Hex())
		}
		return a, b, errors.Wrap(err, "DB_ERROR", "Error fetching user", http.StatusInternalServerError)
	}
	if err := s.collection.FindOne(sc, bson.M{"_id": bID}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return a, b, errors.NewNotFound("No user found with ID: " + bID.Hex())
		}
		return a, b, errors.Wrap(err, "DB_ERROR", "Error fetching user", http.StatusInternalServerError)
	}
	return a, b, nil
}

func (s *FriendService) updateOne(sc mongo.SessionContext, id primitive.ObjectID, update bson.M) error {
	update = withUpdatedAt(update)
	if _, err := s.collection.UpdateOne(sc, bson.M{"_id": id}, update); err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to update user record", http.StatusInternalServerError)
	}
	return nil
}

func withUpdatedAt(update bson.M) bson.M {
	set, ok := update["$set"].(bson.M)
	if !ok {
		set = bson.M{}
	}
	set["updatedAt"] = time.Now()
	update["$set"] = set
	return update
}

func parseIDPair(a, b string) (primitive.ObjectID, primitive.ObjectID, error) {
	aID, err := primitive.ObjectIDFromHex(a)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, errors.NewValidation("Invalid user ID format")
	}
	bID, err := primitive.ObjectIDFromHex(b)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, errors.NewValidation("Invalid user ID format")
	}
	return aID, bID, nil
}
