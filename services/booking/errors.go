package booking

import "errors"

// Hard failures surfaced to the caller. Everything else the engine touches
// (external calendar, agenda mirror, notifications, reminders) is best-effort
// and only ever logged.
var (
	// ErrSlotTaken means the re-check found a confirmed booking overlapping
	// the requested window. The caller must re-poll availability.
	ErrSlotTaken = errors.New("requested window is no longer available")
	// ErrInvalidWindow means the requested window is malformed or in the past,
	// or a required requester field is missing.
	ErrInvalidWindow = errors.New("invalid booking window")
	// ErrBookingNotFound means no booking matches the given id or token.
	ErrBookingNotFound = errors.New("booking not found")
)
