package bookingRepo

import (
	"context"
	"log"
	"time"

	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "cancel_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Serves the day-range and overlap queries.
		{
			Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}},
		},
		// Backstop for the identical-start duplicate: only one confirmed
		// booking per host may start at a given instant.
		{
			Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().
				SetName("uniq_confirmed_host_start").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.BookingStatusConfirmed}),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("booking: failed to create indexes: %v", err)
	}

	// One lock document per host; the reserve transaction upserts by host_id.
	lock := mongo.IndexModel{
		Keys:    bson.D{{Key: "host_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.locks.Indexes().CreateOne(ctx, lock); err != nil {
		log.Printf("booking: failed to create lock index: %v", err)
	}
}
