package customerRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no customer record matches the email.
var ErrNotFound = errors.New("customer not found")

// CustomerRepository looks up existing customer records. The booking engine
// uses it read-only to link reservations to known customers.
type CustomerRepository interface {
	FindByEmail(email string) (*models.Customer, error)
}

// MongoCustomerRepo implements CustomerRepository using MongoDB.
type MongoCustomerRepo struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepo creates a new instance of CustomerRepository using MongoDB.
func NewMongoCustomerRepo() CustomerRepository {
	coll := database.MongoClient.Database("slotwise").Collection("customers")
	return &MongoCustomerRepo{coll: coll}
}

func (r *MongoCustomerRepo) FindByEmail(email string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var c models.Customer
	// Case-insensitive exact match; the address is user input, so quote it.
	filter := bson.M{"email": bson.M{"$regex": "^" + regexp.QuoteMeta(email) + "$", "$options": "i"}}
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up customer by email: %w", err)
	}
	return &c, nil
}
