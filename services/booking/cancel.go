package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "slotwise/database/repository/booking"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// CancelByToken redeems a cancellation token. Redeeming the token of an
// already-cancelled booking is an idempotent no-op success: the booking is
// returned unchanged and no side effects run a second time.
func (e *DefaultBookingEngine) CancelByToken(ctx context.Context, token string) (*models.Booking, error) {
	logger := utils.GetLogger()

	b, err := e.BookingRepo.GetByCancelToken(token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to resolve cancellation token: %w", err)
	}

	if b.Status == models.BookingStatusCancelled {
		return b, nil
	}

	now := time.Now().UTC()
	if err := e.BookingRepo.Cancel(b.ID, now); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			// Lost a race against another redeem of the same token; treat it
			// like the idempotent case.
			if current, readErr := e.BookingRepo.GetByID(b.ID); readErr == nil {
				return current, nil
			}
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to cancel booking %s: %w", b.ID, err)
	}
	b.Status = models.BookingStatusCancelled
	b.CancelledAt = now

	logger.Info("booking cancelled",
		zap.String("bookingID", b.ID),
		zap.String("hostID", b.HostID))

	// Best-effort cleanup mirrors the reserve pipeline: failures are logged,
	// the cancellation itself stands.
	if e.Calendar != nil && b.ExternalEventID != "" {
		if err := e.Calendar.DeleteEvent(ctx, b.HostID, b.ExternalEventID); err != nil {
			logger.Warn("external calendar event deletion failed",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
	if e.AgendaRepo != nil {
		if err := e.AgendaRepo.DeleteByBookingID(b.ID); err != nil {
			logger.Warn("agenda entry deletion failed",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}

	cfg, err := e.ConfigRepo.GetByHostID(b.HostID)
	if err != nil {
		logger.Warn("host config lookup failed during cancellation",
			zap.String("hostID", b.HostID), zap.Error(err))
		return b, nil
	}

	e.sendCancellations(cfg, b)

	if e.Availability != nil {
		for _, date := range localDates(cfg, b) {
			e.Availability.InvalidateDay(ctx, b.HostID, date)
		}
	}

	return b, nil
}

func (e *DefaultBookingEngine) sendCancellations(cfg *models.HostConfig, b *models.Booking) {
	if e.Notifier == nil {
		return
	}
	logger := utils.GetLogger()
	window := formatWindow(cfg, b)

	body := fmt.Sprintf("Hi %s,\n\nyour appointment %q on %s has been cancelled.\n", b.Name, cfg.Title, window)
	if err := e.Notifier.Send(b.Email, fmt.Sprintf("Booking cancelled: %s", cfg.Title), body); err != nil {
		logger.Warn("requester cancellation mail failed",
			zap.String("bookingID", b.ID), zap.Error(err))
	}

	if cfg.HostEmail != "" {
		hostBody := fmt.Sprintf("The booking for %q on %s by %s <%s> was cancelled.\n", cfg.Title, window, b.Name, b.Email)
		if err := e.Notifier.Send(cfg.HostEmail, fmt.Sprintf("Booking cancelled: %s", cfg.Title), hostBody); err != nil {
			logger.Warn("host cancellation mail failed",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
}
