package bookingRepo

import (
	"context"
	"time"

	"slotwise/models"
)

// BookingRepository persists reservations and answers the overlap queries the
// availability calculator and the booking engine depend on.
type BookingRepository interface {
	GetByID(id string) (*models.Booking, error)
	GetByCancelToken(token string) (*models.Booking, error)
	FindConfirmedInRange(hostID string, from, to time.Time) ([]models.Booking, error)
	ReserveTransactionally(ctx context.Context, booking *models.Booking) error
	Cancel(id string, at time.Time) error
	SetSideEffectRefs(id, externalEventID, agendaEntryID string) error
}
