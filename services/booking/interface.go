package booking

import (
	"context"

	"slotwise/models"
)

// BookingEngine reserves and cancels slots. Reserve re-derives availability at
// write time; it never trusts that the requested window came from a slot this
// system previously advertised.
type BookingEngine interface {
	Reserve(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error)
	CancelByToken(ctx context.Context, token string) (*models.Booking, error)
}
