package services

import (
	"campus-server/models"
	"campus-server/utils/errors"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventService struct {
	collection  *mongo.Collection
	orgs        *mongo.Collection
	redisClient *redis.Client
}

type EventInput struct {
	OrgID       string    `json:"orgId"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	TicketInfo  string    `json:"ticketInfo"`
}

func NewEventService(db *mongo.Database, redisClient *redis.Client) *EventService {
	return &EventService{
		collection:  db.Collection("events"),
		orgs:        db.Collection("orgs"),
		redisClient: redisClient,
	}
}

// ValidateEventInput checks the fields every event must carry.
// The org reference is optional; when present it must be a well-formed id.
func ValidateEventInput(input EventInput) error {
	if input.Title == "" || input.Location == "" || input.Description == "" {
		return errors.NewValidation("Missing required event fields")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return errors.NewValidation("Event start and end times are required")
	}
	if input.EndTime.Before(input.StartTime) {
		return errors.NewValidation("Event end time must not be before its start time")
	}
	if input.OrgID != "" {
		if _, err := primitive.ObjectIDFromHex(input.OrgID); err != nil {
			return errors.NewValidation("Invalid organization ID format")
		}
	}
	return nil
}

// CreateEvent inserts a new event authored by the authenticated user.
func (s *EventService) CreateEvent(ctx context.Context, authorID string, input EventInput) (models.Event, error) {
	authorObjID, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return models.Event{}, errors.NewValidation("Invalid user ID format")
	}
	if err := ValidateEventInput(input); err != nil {
		return models.Event{}, err
	}

	var orgObjID primitive.ObjectID
	if input.OrgID != "" {
		orgObjID, _ = primitive.ObjectIDFromHex(input.OrgID)
		if err := s.orgs.FindOne(ctx, bson.M{"_id": orgObjID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				return models.Event{}, errors.NewNotFound("Organization not found")
			}
			return models.Event{}, errors.Wrap(err, "DB_ERROR", "Error verifying organization", http.StatusInternalServerError)
		}
	}

	now := time.Now()
	event := models.Event{
		Author:      authorObjID,
		Org:         orgObjID,
		Title:       input.Title,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		Description: input.Description,
		Categories:  emptyIfNil(input.Categories),
		TicketInfo:  input.TicketInfo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.collection.InsertOne(ctx, event)
	if err != nil {
		return models.Event{}, errors.Wrap(err, "DB_ERROR", "Error creating event", http.StatusInternalServerError)
	}
	event.ID = result.InsertedID.(primitive.ObjectID)

	s.invalidateListCache(ctx)
	return event, nil
}

// GetEvent fetches one event by hex id.
func (s *EventService) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return models.Event{}, errors.NewValidation("Invalid event ID format")
	}

	var event models.Event
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Event{}, errors.NewNotFound("No event found with ID: " + eventID)
		}
		return models.Event{}, errors.Wrap(err, "DB_ERROR", "Error fetching event by ID", http.StatusInternalServerError)
	}
	return event, nil
}

// ListEvents returns the full catalog, served from the Redis list cache
// when warm.
func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	if cached, ok := s.cachedList(ctx); ok {
		return cached, nil
	}

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching events", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error decoding events", http.StatusInternalServerError)
	}

	s.cacheList(ctx, events)
	return events, nil
}

// ListEventsByAuthor returns the events a user has posted.
func (s *EventService) ListEventsByAuthor(ctx context.Context, authorID string) ([]models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, errors.NewValidation("Invalid user ID format")
	}

	cursor, err := s.collection.Find(ctx, bson.M{"author": objID})
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching events by user ID", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error decoding events", http.StatusInternalServerError)
	}
	return events, nil
}

// RecommendedEvents runs the interest filter over the catalog for the
// given user and returns the result sorted by ascending start time.
func (s *EventService) RecommendedEvents(ctx context.Context, user models.User) ([]models.Event, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	recommended := Recommend(events, &user, time.Now())
	SortByStartTime(recommended)
	return recommended, nil
}

// UpdateEvent applies a partial $set update and returns the new document.
func (s *EventService) UpdateEvent(ctx context.Context, eventID string, fields bson.M) (models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return models.Event{}, errors.NewValidation("Invalid event ID format")
	}
	if len(fields) == 0 {
		return models.Event{}, errors.NewValidation("No updatable fields provided")
	}
	if err := s.checkTimeWindow(ctx, objID, fields); err != nil {
		return models.Event{}, err
	}
	fields["updatedAt"] = time.Now()

	var updated models.Event
	err = s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Event{}, errors.NewNotFound("No event found with ID: " + eventID)
		}
		return models.Event{}, errors.Wrap(err, "DB_ERROR", "Error updating event", http.StatusInternalServerError)
	}

	s.invalidateListCache(ctx)
	return updated, nil
}

// checkTimeWindow validates the start/end ordering an update would leave
// behind, merging unchanged times from the stored document.
func (s *EventService) checkTimeWindow(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	start, startChanged := fields["startTime"].(time.Time)
	end, endChanged := fields["endTime"].(time.Time)
	if !startChanged && !endChanged {
		return nil
	}

	var current models.Event
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
		if err == mongo.ErrNoDocuments {
			return errors.NewNotFound("No event found with ID: " + id.Hex())
		}
		return errors.Wrap(err, "DB_ERROR", "Error fetching event", http.StatusInternalServerError)
	}
	if !startChanged {
		start = current.StartTime
	}
	if !endChanged {
		end = current.EndTime
	}
	if end.Before(start) {
		return errors.NewValidation("Event end time must not be before its start time")
	}
	return nil
}

// DeleteEvent removes the event and returns it so callers can clean up
// its image blob. Saved-event references on users are left dangling.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) (models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return models.Event{}, errors.NewValidation("Invalid event ID format")
	}

	var deleted models.Event
	err = s.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&deleted)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Event{}, errors.NewNotFound("No event found with ID: " + eventID)
		}
		return models.Event{}, errors.Wrap(err, "DB_ERROR", "Error deleting event", http.StatusInternalServerError)
	}

	s.invalidateListCache(ctx)
	return deleted, nil
}

// SetEventImage records the GridFS id of a freshly uploaded event image
// and returns any previous image id for cleanup.
func (s *EventService) SetEventImage(ctx context.Context, eventID string, imageID primitive.ObjectID) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return primitive.NilObjectID, errors.NewValidation("Invalid event ID format")
	}

	var previous models.Event
	err = s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"imageId": imageID, "updatedAt": time.Now()}},
	).Decode(&previous)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, errors.NewNotFound("No event found with ID: " + eventID)
		}
		return primitive.NilObjectID, errors.Wrap(err, "DB_ERROR", "Error updating event image", http.StatusInternalServerError)
	}

	s.invalidateListCache(ctx)
	return previous.ImageID, nil
}

const eventListCacheKey = "events:all"

func (s *EventService) cachedList(ctx context.Context) ([]models.Event, bool) {
	raw, err := s.redisClient.Get(ctx, eventListCacheKey).Result()
	if err != nil {
		return nil, false
	}
	events := []models.Event{}
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		log.Printf("Failed to decode cached event list: %v", err)
		return nil, false
	}
	return events, true
}

func (s *EventService) cacheList(ctx context.Context, events []models.Event) {
	raw, err := json.Marshal(events)
	if err != nil {
		log.Printf("Failed to encode event list for cache: %v", err)
		return
	}
	if err := s.redisClient.Set(ctx, eventListCacheKey, raw, 5*time.Minute).Err(); err != nil {
		log.Printf("Failed to cache event list: %v", err)
	}
}

func (s *EventService) invalidateListCache(ctx context.Context) {
	if err := s.redisClient.Del(ctx, eventListCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate event list cache: %v", err)
	}
}
