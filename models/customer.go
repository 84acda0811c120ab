package models

import "time"

// Customer is an existing customer record. Bookings are opportunistically
// linked to it by requester email; the record itself is maintained elsewhere.
type Customer struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Company   string    `bson:"company,omitempty" json:"company,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
