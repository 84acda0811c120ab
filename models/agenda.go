package models

import "time"

// AgendaEntry mirrors a booking into the host's internal schedule view.
// Created best-effort after a booking commits; removed on cancellation.
type AgendaEntry struct {
	ID        string    `bson:"id" json:"id"`
	HostID    string    `bson:"host_id" json:"hostId"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	Title     string    `bson:"title" json:"title"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
