package bookingRepo

import (
	"context"
	"errors"
	"fmt"

	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrWindowConflict is returned when another confirmed booking already covers
// part of the requested window. The losing writer of two concurrent requests
// always receives this error, never a silent success.
var ErrWindowConflict = errors.New("booking window conflicts with an existing confirmed booking")

// ReserveTransactionally re-checks for overlapping confirmed bookings and
// inserts the new booking inside a single session transaction, closing the
// check-then-act race between advertising a slot and committing a reservation.
//
// Mongo transactions are snapshot isolated and only detect conflicts on
// documents both writers touch; two inserts for overlapping windows write
// disjoint documents and would otherwise both commit. Every reserve therefore
// also bumps the host's slot-lock document inside the transaction. Concurrent
// writers for the same host collide on that document, the loser is retried by
// WithTransaction on a fresh snapshot and then sees the winner's booking in
// the overlap re-check.
func (r *MongoBookingRepo) ReserveTransactionally(ctx context.Context, booking *models.Booking) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.locks.UpdateOne(sc,
			bson.M{"host_id": booking.HostID},
			bson.M{"$inc": bson.M{"version": 1}},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("host slot lock update failed: %w", err)
		}

		filter := bson.M{
			"host_id": booking.HostID,
			"status":  models.BookingStatusConfirmed,
			"start":   bson.M{"$lt": booking.End},
			"end":     bson.M{"$gt": booking.Start},
		}
		n, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return nil, fmt.Errorf("overlap re-check failed: %w", err)
		}
		if n > 0 {
			return nil, ErrWindowConflict
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			// The partial unique index on {host_id, start} catches the
			// identical-start duplicate even outside the transaction path.
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrWindowConflict
			}
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrWindowConflict) {
			return ErrWindowConflict
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}
