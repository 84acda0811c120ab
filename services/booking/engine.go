package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	agendaRepo "slotwise/database/repository/agenda"
	bookingRepo "slotwise/database/repository/booking"
	customerRepo "slotwise/database/repository/customer"
	hostconfigRepo "slotwise/database/repository/hostconfig"
	"slotwise/models"
	"slotwise/services/availability"
	"slotwise/services/calendar"
	"slotwise/services/notification"
	"slotwise/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DefaultBookingEngine is the production booking engine.
type DefaultBookingEngine struct {
	ConfigRepo   hostconfigRepo.HostConfigRepository
	BookingRepo  bookingRepo.BookingRepository
	CustomerRepo customerRepo.CustomerRepository
	AgendaRepo   agendaRepo.AgendaRepository
	Calendar     calendar.CalendarAdapter
	Notifier     notification.NotificationService
	Availability *availability.Service
	Reminders    *asynq.Client
	ReminderLead time.Duration
}

// Reserve validates the request, closes the check-then-act race inside a
// single transaction, then runs the best-effort side-effect pipeline. A
// committed booking is never rolled back by a side-effect failure.
func (e *DefaultBookingEngine) Reserve(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error) {
	logger := utils.GetLogger()
	now := time.Now()

	cfg, err := e.ConfigRepo.GetByHostID(req.HostID)
	if err != nil {
		if errors.Is(err, hostconfigRepo.ErrNotFound) {
			return nil, availability.ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to load host config: %w", err)
	}
	if !cfg.Active {
		return nil, availability.ErrConfigInactive
	}

	if err := validateRequest(req, now); err != nil {
		return nil, err
	}

	token, err := utils.GenerateCancelToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cancellation token: %w", err)
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		HostID:      req.HostID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Company:     strings.TrimSpace(req.Company),
		Notes:       req.Notes,
		Start:       req.Start.UTC(),
		End:         req.End.UTC(),
		Status:      models.BookingStatusConfirmed,
		CancelToken: token,
		CreatedAt:   now.UTC(),
	}

	// Opportunistic customer link; no match is not an error.
	if e.CustomerRepo != nil {
		if customer, err := e.CustomerRepo.FindByEmail(booking.Email); err == nil {
			booking.CustomerID = customer.ID
		} else if !errors.Is(err, customerRepo.ErrNotFound) {
			logger.Warn("customer lookup failed", zap.String("email", booking.Email), zap.Error(err))
		}
	}

	// Conflict re-check + insert under one transaction. The losing writer of
	// two concurrent requests for overlapping windows gets ErrSlotTaken here.
	if err := e.BookingRepo.ReserveTransactionally(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrWindowConflict) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	logger.Info("booking confirmed",
		zap.String("bookingID", booking.ID),
		zap.String("hostID", booking.HostID),
		zap.Time("start", booking.Start),
		zap.Time("end", booking.End))

	externalEventID := e.runPostCommit(ctx, cfg, booking)

	return &models.BookingConfirmation{
		BookingID:       booking.ID,
		Start:           booking.Start,
		End:             booking.End,
		Status:          booking.Status,
		CancelToken:     booking.CancelToken,
		ExternalEventID: externalEventID,
	}, nil
}

func validateRequest(req models.BookingRequest, now time.Time) error {
	if req.Start.IsZero() || req.End.IsZero() || !req.End.After(req.Start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidWindow)
	}
	if !req.Start.After(now) {
		return fmt.Errorf("%w: start must be in the future", ErrInvalidWindow)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: requester name and email are required", ErrInvalidWindow)
	}
	return nil
}

// localDates returns the booking's start and end dates in the host's
// timezone, used as availability cache key components. Usually one date; two
// when the window crosses midnight, so both affected days get invalidated.
func localDates(cfg *models.HostConfig, b *models.Booking) []string {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.UTC
	}
	start := b.Start.In(loc).Format(availability.DateLayout)
	end := b.End.In(loc).Format(availability.DateLayout)
	if end == start {
		return []string{start}
	}
	return []string{start, end}
}
