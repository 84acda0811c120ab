package credentialRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a host has no stored calendar credential.
var ErrNotFound = errors.New("calendar credential not found")

// CredentialStore persists per-host external calendar credentials. Owned by
// the calendar adapter: it reads tokens and writes back refreshed ones.
type CredentialStore interface {
	GetByHostID(hostID string) (*models.CalendarCredential, error)
	Save(cred *models.CalendarCredential) error
}

// MongoCredentialStore implements CredentialStore using MongoDB.
type MongoCredentialStore struct {
	coll *mongo.Collection
}

// NewMongoCredentialStore creates a new instance of CredentialStore using MongoDB.
func NewMongoCredentialStore() CredentialStore {
	coll := database.MongoClient.Database("slotwise").Collection("calendar_credentials")
	return &MongoCredentialStore{coll: coll}
}

func (r *MongoCredentialStore) GetByHostID(hostID string) (*models.CalendarCredential, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var cred models.CalendarCredential
	if err := r.coll.FindOne(ctx, bson.M{"host_id": hostID}).Decode(&cred); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch calendar credential for %s: %w", hostID, err)
	}
	return &cred, nil
}

// Save upserts the credential so a refreshed token replaces the stale one.
func (r *MongoCredentialStore) Save(cred *models.CalendarCredential) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cred.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"host_id": cred.HostID}, cred, opts); err != nil {
		return fmt.Errorf("failed to save calendar credential for %s: %w", cred.HostID, err)
	}
	return nil
}
