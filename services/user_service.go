package services

import (
	"campus-server/models"
	"campus-server/utils/errors"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const userCacheTTL = 24 * time.Hour

// Campus accounts only.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@utexas\.edu$`)

type UserService struct {
	collection  *mongo.Collection
	redisClient *redis.Client
	jwtSecret   string
}

type RegisterInput struct {
	FirstName      string
	LastName       string
	Username       string
	Email          string
	Password       string
	Majors         []string
	Year           int
	Interests      []string
	ProfilePicture primitive.ObjectID
}

func NewUserService(db *mongo.Database, redisClient *redis.Client, jwtSecret string) *UserService {
	collection := db.Collection("users")

	// Ensure unique index on email
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		log.Printf("Failed to create unique email index on users: %v", err)
	}

	return &UserService{
		collection:  collection,
		redisClient: redisClient,
		jwtSecret:   jwtSecret,
	}
}

// ValidateRegistration checks the fields a new account must carry.
func ValidateRegistration(input RegisterInput) error {
	if input.FirstName == "" || input.LastName == "" || input.Username == "" || input.Password == "" {
		return errors.NewValidation("Missing required registration fields")
	}
	if !emailPattern.MatchString(input.Email) {
		return errors.NewValidation("Invalid email: Must be a UT Austin email (@utexas.edu).")
	}
	if input.Year < 1900 || input.Year > 2100 {
		return errors.NewValidation("Invalid graduation year")
	}
	return nil
}

// Register creates a new user
func (s *UserService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if err := ValidateRegistration(input); err != nil {
		return models.User{}, err
	}

	// Check if the email is already taken
	err := s.collection.FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		return models.User{}, errors.NewValidation("Error registering user: email already taken")
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Failed to check existing user", http.StatusInternalServerError)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "HASH_ERROR", "failed to hash password", http.StatusInternalServerError)
	}

	now := time.Now()
	user := models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Username:       input.Username,
		Email:          input.Email,
		Password:       string(passwordHash),
		Majors:         emptyIfNil(input.Majors),
		Year:           input.Year,
		Interests:      emptyIfNil(input.Interests),
		SavedEvents:    []primitive.ObjectID{},
		Orgs:           []primitive.ObjectID{},
		Friends:        []primitive.ObjectID{},
		FriendRequests: []primitive.ObjectID{},
		ProfilePicture: input.ProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, errors.NewValidation("Error registering user: email already taken")
		}
		return models.User{}, errors.Wrap(err, "DB_ERROR", "failed to create user in database", http.StatusInternalServerError)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	s.cacheUser(ctx, user)
	return user, nil
}

// Login authenticates a user and returns the user record plus a signed JWT
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if email == "" || password == "" {
		return models.User{}, "", errors.NewValidation("Error logging in user: missing email or password")
	}

	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid credentials: no user found with email "+email, http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid credentials: incorrect password for "+email, http.StatusUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": user.ID.Hex(),
		"email":  user.Email,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return models.User{}, "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return user, tokenString, nil
}

// GetUser retrieves a user from Redis or MongoDB
func (s *UserService) GetUser(ctx context.Context, userID string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, errors.NewValidation("Invalid user ID format")
	}

	var user models.User

	// Check Redis first
	userJSON, err := s.redisClient.Get(ctx, "user:"+userID).Result()
	if err == nil {
		if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
			log.Printf("Failed to unmarshal cached user %s: %v", userID, err)
		} else {
			return user, nil
		}
	}

	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, errors.NewNotFound("No user found with ID: " + userID)
		}
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Error fetching user by ID", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// ListUsers returns every user record.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching users", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error decoding users", http.StatusInternalServerError)
	}
	return users, nil
}

// UpdateUser applies a partial $set update and returns the new document.
// Relationship lists are owned by FriendService and the saved-event ops,
// so callers must not pass them here.
func (s *UserService) UpdateUser(ctx context.Context, userID string, fields bson.M) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, errors.NewValidation("Invalid user ID format")
	}
	if len(fields) == 0 {
		return models.User{}, errors.NewValidation("No updatable fields provided")
	}
	fields["updatedAt"] = time.Now()

	var updated models.User
	err = s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, errors.NewNotFound("No user found with ID: " + userID)
		}
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Error updating user", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, updated)
	return updated, nil
}

// DeleteUser removes the user document and returns it so callers can clean
// up external blobs. References held by other records are left dangling.
func (s *UserService) DeleteUser(ctx context.Context, userID string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, errors.NewValidation("Invalid user ID format")
	}

	var deleted models.User
	err = s.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&deleted)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, errors.NewNotFound("No user found with ID: " + userID)
		}
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Error deleting user", http.StatusInternalServerError)
	}

	s.redisClient.Del(ctx, "user:"+userID)
	return deleted, nil
}

// SaveEvent bookmarks an event for the user. Idempotent via $addToSet.
func (s *UserService) SaveEvent(ctx context.Context, userID string, eventID primitive.ObjectID) (models.User, error) {
	return s.updateListField(ctx, userID, bson.M{"$addToSet": bson.M{"savedEvents": eventID}})
}

// UnsaveEvent removes an event bookmark.
func (s *UserService) UnsaveEvent(ctx context.Context, userID string, eventID primitive.ObjectID) (models.User, error) {
	return s.updateListField(ctx, userID, bson.M{"$pull": bson.M{"savedEvents": eventID}})
}

func (s *UserService) updateListField(ctx context.Context, userID string, update bson.M) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, errors.NewValidation("Invalid user ID format")
	}

	var updated models.User
	err = s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, errors.NewNotFound("No user found with ID: " + userID)
		}
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Error updating user", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, updated)
	return updated, nil
}

func (s *UserService) cacheUser(ctx context.Context, user models.User) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		log.Printf("Failed to marshal user %s for cache: %v", user.ID.Hex(), err)
		return
	}
	if err := s.redisClient.Set(ctx, "user:"+user.ID.Hex(), userJSON, userCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache user %s: %v", user.ID.Hex(), err)
	}
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
