package services

import (
	"campus-server/models"
	"campus-server/utils/errors"
	"context"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// defaultCategories seeds an empty deployment so event creation has tags
// to offer from the first request.
var defaultCategories = []string{
	"Music", "Sports", "Art", "Academic", "Career", "Social",
	"Volunteering", "Food", "Technology", "Wellness",
}

// CategoryService serves the single document listing known event tags.
type CategoryService struct {
	collection *mongo.Collection
}

func NewCategoryService(db *mongo.Database) *CategoryService {
	s := &CategoryService{collection: db.Collection("categories")}

	// Seed sample data if collection is empty
	count, err := s.collection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		log.Printf("Failed to count category documents: %v", err)
		return s
	}
	if count == 0 {
		log.Println("No categories found, seeding default list...")
		_, err := s.collection.InsertOne(context.Background(), models.CategoryList{Categories: defaultCategories})
		if err != nil {
			log.Printf("Failed to seed categories: %v", err)
		}
	}
	return s
}

// ListCategories returns the category tags known to the system.
func (s *CategoryService) ListCategories(ctx context.Context) ([]string, error) {
	var doc models.CategoryList
	err := s.collection.FindOne(ctx, bson.M{}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFound("No categories document found")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching categories", http.StatusInternalServerError)
	}
	return doc.Categories, nil
}
