package bookingRepo

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

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("booking not found")

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection // one document per host, written by every reserve
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("slotwise")
	repo := &MongoBookingRepo{
		coll:  db.Collection("bookings"),
		locks: db.Collection("booking_locks"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) GetByCancelToken(token string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"cancel_token": token}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking by token: %w", err)
	}
	return &b, nil
}

// FindConfirmedInRange returns confirmed bookings whose window intersects [from, to).
func (r *MongoBookingRepo) FindConfirmedInRange(hostID string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{
		"host_id": hostID,
		"status":  models.BookingStatusConfirmed,
		"start":   bson.M{"$lt": to},
		"end":     bson.M{"$gt": from},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for host %s: %w", hostID, err)
	}
	defer cursor.Close(ctx)
	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Cancel transitions a booking to cancelled. Idempotent at this layer: an
// already-cancelled booking matches nothing and returns ErrNotFound, which the
// engine handles by re-reading the current state.
func (r *MongoBookingRepo) Cancel(id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id, "status": models.BookingStatusConfirmed}
	update := bson.M{"$set": bson.M{
		"status":       models.BookingStatusCancelled,
		"cancelled_at": at,
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSideEffectRefs stores the external event id and agenda entry id created
// after the booking committed. Empty values are left untouched.
func (r *MongoBookingRepo) SetSideEffectRefs(id, externalEventID, agendaEntryID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	set := bson.M{}
	if externalEventID != "" {
		set["external_event_id"] = externalEventID
	}
	if agendaEntryID != "" {
		set["agenda_entry_id"] = agendaEntryID
	}
	if len(set) == 0 {
		return nil
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to store side effect refs for booking %s: %w", id, err)
	}
	return nil
}
