package models

import "time"

// ReminderPayload is the asynq task payload for an appointment reminder email.
type ReminderPayload struct {
	BookingID string    `json:"bookingId"`
	HostID    string    `json:"hostId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Title     string    `json:"title"` // host display title for the message body
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}
