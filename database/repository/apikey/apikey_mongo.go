package apikeyRepo

import (
	"context"
	"fmt"
	"time"

	"signage/database"
	"signage/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAPIKeyRepo implements APIKeyRepository using MongoDB.
type MongoAPIKeyRepo struct {
	coll *mongo.Collection
}

// NewMongoAPIKeyRepo creates a new instance of APIKeyRepository using MongoDB.
func NewMongoAPIKeyRepo() APIKeyRepository {
	coll := database.MongoClient.Database("signage").Collection("apikeys")
	repo := &MongoAPIKeyRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoAPIKeyRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create apikey id index: %w", err)
	}
	return nil
}

// GetAll returns every tenant API key.
func (r *MongoAPIKeyRepo) GetAll(ctx context.Context) ([]models.APIKey, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer cursor.Close(ctx)

	var keys []models.APIKey
	if err := cursor.All(ctx, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode api keys: %w", err)
	}
	return keys, nil
}

// GetByID fetches a single API key by its id.
func (r *MongoAPIKeyRepo) GetByID(ctx context.Context, id string) (*models.APIKey, error) {
	var key models.APIKey
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&key)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("api key with id %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch api key %s: %w", id, err)
	}
	return &key, nil
}
