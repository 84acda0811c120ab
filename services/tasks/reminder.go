package tasks

import (
	"encoding/json"
	"fmt"

	"slotwise/models"

	"github.com/hibiken/asynq"
)

// TypeSendReminder identifies the appointment-reminder task on the queue.
const TypeSendReminder = "reminder:send"

// NewReminderTask packs the payload for a scheduled appointment reminder.
// Scheduling itself (asynq.ProcessAt) is the enqueuer's concern.
func NewReminderTask(payload models.ReminderPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TypeSendReminder, b), nil
}
