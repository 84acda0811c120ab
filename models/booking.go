package models

import "time"

// Booking status values. There is no intermediate "pending" state: the engine
// confirms immediately or rejects.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a confirmed reservation of one slot for one host.
type Booking struct {
	ID              string    `bson:"id" json:"id"`
	HostID          string    `bson:"host_id" json:"hostId"`
	Name            string    `bson:"name" json:"name"`   // requester name
	Email           string    `bson:"email" json:"email"` // requester email
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Company         string    `bson:"company,omitempty" json:"company,omitempty"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Start           time.Time `bson:"start" json:"start"` // UTC instants, half-open [start, end)
	End             time.Time `bson:"end" json:"end"`
	Status          string    `bson:"status" json:"status"`
	CustomerID      string    `bson:"customer_id,omitempty" json:"customerId,omitempty"`            // matched existing customer record, if any
	ExternalEventID string    `bson:"external_event_id,omitempty" json:"externalEventId,omitempty"` // event created in the host's external calendar
	AgendaEntryID   string    `bson:"agenda_entry_id,omitempty" json:"agendaEntryId,omitempty"`     // mirrored internal calendar entry
	CancelToken     string    `bson:"cancel_token" json:"-"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	CancelledAt     time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
}

// Window returns the booking's reserved interval.
func (b *Booking) Window() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// Completed reports whether a confirmed booking's window has fully passed.
// Derived, never stored.
func (b *Booking) Completed(now time.Time) bool {
	return b.Status == BookingStatusConfirmed && b.End.Before(now)
}

// BookingRequest is the input contract for creating a booking.
type BookingRequest struct {
	HostID  string    `json:"hostId" binding:"required"`
	Start   time.Time `json:"start" binding:"required"`
	End     time.Time `json:"end" binding:"required"`
	Name    string    `json:"name" binding:"required"`
	Email   string    `json:"email" binding:"required,email"`
	Phone   string    `json:"phone"`
	Company string    `json:"company"`
	Notes   string    `json:"notes"`
}

// BookingConfirmation is returned to the requester after a successful reserve.
type BookingConfirmation struct {
	BookingID       string    `json:"bookingId"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Status          string    `json:"status"`
	CancelToken     string    `json:"cancelToken"`
	ExternalEventID string    `json:"externalEventId,omitempty"`
}
