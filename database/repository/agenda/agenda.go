package agendaRepo

import (
	"context"
	"fmt"
	"time"

	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AgendaRepository stores the host's internal schedule entries that mirror
// bookings. Entries are display data only; conflict checks never consult them.
type AgendaRepository interface {
	Create(entry *models.AgendaEntry) error
	DeleteByBookingID(bookingID string) error
	ListForHost(hostID string, from, to time.Time) ([]models.AgendaEntry, error)
}

// MongoAgendaRepo implements AgendaRepository using MongoDB.
type MongoAgendaRepo struct {
	coll *mongo.Collection
}

// NewMongoAgendaRepo creates a new instance of AgendaRepository using MongoDB.
func NewMongoAgendaRepo() AgendaRepository {
	coll := database.MongoClient.Database("slotwise").Collection("agenda_entries")
	return &MongoAgendaRepo{coll: coll}
}

func (r *MongoAgendaRepo) Create(entry *models.AgendaEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to create agenda entry: %w", err)
	}
	return nil
}

func (r *MongoAgendaRepo) DeleteByBookingID(bookingID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.DeleteOne(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("failed to delete agenda entry for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *MongoAgendaRepo) ListForHost(hostID string, from, to time.Time) ([]models.AgendaEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{
		"host_id": hostID,
		"start":   bson.M{"$lt": to},
		"end":     bson.M{"$gt": from},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda entries for %s: %w", hostID, err)
	}
	defer cursor.Close(ctx)
	var entries []models.AgendaEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode agenda entries: %w", err)
	}
	return entries, nil
}
