package services

import (
	"campus-server/models"
	"campus-server/utils/errors"
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrgService manages the organizations users and events can reference.
// There is intentionally no delete path.
type OrgService struct {
	collection *mongo.Collection
}

func NewOrgService(db *mongo.Database) *OrgService {
	return &OrgService{collection: db.Collection("orgs")}
}

func (s *OrgService) CreateOrg(ctx context.Context, name string) (models.Org, error) {
	if name == "" {
		return models.Org{}, errors.NewValidation("Organization name is required")
	}

	now := time.Now()
	org := models.Org{Name: name, CreatedAt: now, UpdatedAt: now}
	result, err := s.collection.InsertOne(ctx, org)
	if err != nil {
		return models.Org{}, errors.Wrap(err, "DB_ERROR", "Error creating organization", http.StatusInternalServerError)
	}
	org.ID = result.InsertedID.(primitive.ObjectID)
	return org, nil
}

func (s *OrgService) GetOrg(ctx context.Context, orgID string) (models.Org, error) {
	objID, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return models.Org{}, errors.NewValidation("Invalid organization ID format")
	}

	var org models.Org
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&org); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Org{}, errors.NewNotFound("No organization found with ID: " + orgID)
		}
		return models.Org{}, errors.Wrap(err, "DB_ERROR", "Error fetching organization by ID", http.StatusInternalServerError)
	}
	return org, nil
}

func (s *OrgService) ListOrgs(ctx context.Context) ([]models.Org, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching organizations", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	orgs := []models.Org{}
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error decoding organizations", http.StatusInternalServerError)
	}
	return orgs, nil
}
