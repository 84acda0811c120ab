package calendar

import (
	"context"
	"time"

	"slotwise/models"
)

// Event describes a remote calendar event to be created for a booking.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string // IANA name for the event's display timezone
}

// CalendarAdapter is the boundary to the host's external calendar. Every
// implementation must tolerate total unavailability: callers treat any error
// as "degrade, do not fail the request".
type CalendarAdapter interface {
	// FreeBusy returns the host's busy intervals within [dayStart, dayEnd).
	FreeBusy(ctx context.Context, hostID string, dayStart, dayEnd time.Time) ([]models.Interval, error)
	// CreateEvent creates a remote event and returns its id.
	CreateEvent(ctx context.Context, hostID string, ev Event) (string, error)
	// DeleteEvent removes a previously created remote event.
	DeleteEvent(ctx context.Context, hostID, eventID string) error
}
