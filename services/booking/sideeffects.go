package booking

import (
	"context"
	"fmt"
	"time"

	"slotwise/models"
	"slotwise/services/calendar"
	"slotwise/services/tasks"
	"slotwise/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// runPostCommit executes the best-effort pipeline after a booking is durably
// committed: external calendar event, internal agenda mirror, confirmation
// mail, reminder enqueue, cache invalidation. Each step only logs on failure;
// none of them can unwind the booking. Returns the external event id, if one
// was created.
func (e *DefaultBookingEngine) runPostCommit(ctx context.Context, cfg *models.HostConfig, b *models.Booking) string {
	logger := utils.GetLogger()

	var externalEventID string
	if e.Calendar != nil {
		eventID, err := e.Calendar.CreateEvent(ctx, b.HostID, calendar.Event{
			Summary:     fmt.Sprintf("%s - %s", cfg.Title, b.Name),
			Description: b.Notes,
			Start:       b.Start,
			End:         b.End,
			Timezone:    cfg.Timezone,
		})
		if err != nil {
			logger.Warn("external calendar event creation failed",
				zap.String("bookingID", b.ID), zap.Error(err))
		} else {
			externalEventID = eventID
		}
	}

	var agendaEntryID string
	if e.AgendaRepo != nil {
		entry := &models.AgendaEntry{
			ID:        uuid.New().String(),
			HostID:    b.HostID,
			BookingID: b.ID,
			Title:     fmt.Sprintf("%s with %s", cfg.Title, b.Name),
			Start:     b.Start,
			End:       b.End,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.AgendaRepo.Create(entry); err != nil {
			logger.Warn("agenda entry creation failed",
				zap.String("bookingID", b.ID), zap.Error(err))
		} else {
			agendaEntryID = entry.ID
		}
	}

	if externalEventID != "" || agendaEntryID != "" {
		if err := e.BookingRepo.SetSideEffectRefs(b.ID, externalEventID, agendaEntryID); err != nil {
			logger.Warn("failed to store side effect refs",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}

	e.sendConfirmations(cfg, b)
	e.enqueueReminder(cfg, b)

	if e.Availability != nil {
		for _, date := range localDates(cfg, b) {
			e.Availability.InvalidateDay(ctx, b.HostID, date)
		}
	}

	return externalEventID
}

func (e *DefaultBookingEngine) sendConfirmations(cfg *models.HostConfig, b *models.Booking) {
	if e.Notifier == nil {
		return
	}
	logger := utils.GetLogger()
	window := formatWindow(cfg, b)

	subject := fmt.Sprintf("Booking confirmed: %s", cfg.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\nyour appointment %q on %s is confirmed.\n\nTo cancel, use your cancellation link.\n",
		b.Name, cfg.Title, window,
	)
	if err := e.Notifier.Send(b.Email, subject, body); err != nil {
		logger.Warn("requester confirmation mail failed",
			zap.String("bookingID", b.ID), zap.Error(err))
	}

	if cfg.HostEmail != "" {
		hostBody := fmt.Sprintf(
			"New booking for %q on %s.\n\nRequester: %s <%s>\nPhone: %s\nCompany: %s\nNotes: %s\n",
			cfg.Title, window, b.Name, b.Email, b.Phone, b.Company, b.Notes,
		)
		if err := e.Notifier.Send(cfg.HostEmail, fmt.Sprintf("New booking: %s", cfg.Title), hostBody); err != nil {
			logger.Warn("host confirmation mail failed",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
}

func (e *DefaultBookingEngine) enqueueReminder(cfg *models.HostConfig, b *models.Booking) {
	if e.Reminders == nil || e.ReminderLead <= 0 {
		return
	}
	fireAt := b.Start.Add(-e.ReminderLead)
	if !fireAt.After(time.Now()) {
		return
	}
	task, err := tasks.NewReminderTask(models.ReminderPayload{
		BookingID: b.ID,
		HostID:    b.HostID,
		Email:     b.Email,
		Name:      b.Name,
		Title:     cfg.Title,
		Start:     b.Start,
		End:       b.End,
	})
	if err != nil {
		utils.GetLogger().Warn("failed to build reminder task",
			zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	if _, err := e.Reminders.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		utils.GetLogger().Warn("failed to enqueue reminder",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}

func formatWindow(cfg *models.HostConfig, b *models.Booking) string {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.UTC
	}
	start := b.Start.In(loc)
	end := b.End.In(loc)
	return fmt.Sprintf("%s from %s to %s (%s)",
		start.Format("Monday, 2 January 2006"),
		start.Format("15:04"),
		end.Format("15:04"),
		cfg.Timezone,
	)
}
