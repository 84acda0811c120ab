package hostconfigRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no configuration exists for a host.
var ErrNotFound = errors.New("host configuration not found")

// MongoHostConfigRepo implements HostConfigRepository using MongoDB.
type MongoHostConfigRepo struct {
	coll *mongo.Collection
}

// NewMongoHostConfigRepo creates a new instance of HostConfigRepository using MongoDB.
func NewMongoHostConfigRepo() HostConfigRepository {
	coll := database.MongoClient.Database("slotwise").Collection("host_configs")
	repo := &MongoHostConfigRepo{coll: coll}
	repo.ensureIndexes()
	return repo
}

func (r *MongoHostConfigRepo) GetByHostID(hostID string) (*models.HostConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var cfg models.HostConfig
	if err := r.coll.FindOne(ctx, bson.M{"host_id": hostID}).Decode(&cfg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch host config for %s: %w", hostID, err)
	}
	return &cfg, nil
}

func (r *MongoHostConfigRepo) Create(cfg *models.HostConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, cfg); err != nil {
		return fmt.Errorf("failed to create host config: %w", err)
	}
	return nil
}

func (r *MongoHostConfigRepo) Update(cfg *models.HostConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"host_id": cfg.HostID}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": cfg})
	if err != nil {
		return fmt.Errorf("failed to update host config for %s: %w", cfg.HostID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoHostConfigRepo) Delete(hostID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := r.coll.DeleteOne(ctx, bson.M{"host_id": hostID})
	if err != nil {
		return fmt.Errorf("failed to delete host config for %s: %w", hostID, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
