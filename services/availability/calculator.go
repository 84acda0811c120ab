package availability

import (
	"time"

	"slotwise/models"
)

// BuildSlots generates the candidate slot grid for one host-local day and
// filters it against the merged busy set. day must be midnight in the host's
// timezone. now is an explicit input so results are deterministic.
//
// Candidates start at the work-window start and are spaced duration+buffer
// apart. A candidate survives if it fits inside the work window, starts
// strictly in the future, and overlaps no busy interval (half-open test).
func BuildSlots(cfg *models.HostConfig, day time.Time, busy []models.Interval, now time.Time) []models.Slot {
	loc := day.Location()
	workStart := time.Date(day.Year(), day.Month(), day.Day(), cfg.WorkStartHour, 0, 0, 0, loc)
	workEnd := time.Date(day.Year(), day.Month(), day.Day(), cfg.WorkEndHour, 0, 0, 0, loc)

	duration := cfg.SlotDuration()
	step := cfg.SlotStep()

	var slots []models.Slot
	for cursor := workStart; !cursor.Add(duration).After(workEnd); cursor = cursor.Add(step) {
		candidate := models.Interval{Start: cursor, End: cursor.Add(duration)}
		if !candidate.Start.After(now) {
			continue
		}
		if candidate.OverlapsAny(busy) {
			continue
		}
		slots = append(slots, models.Slot{
			Start:       candidate.Start,
			End:         candidate.End,
			DurationMin: cfg.SlotDurationMin,
		})
	}
	return slots
}

// MergeBusy combines the two busy sources. No coalescing: pairwise overlap
// checks against the raw set are sufficient at this scale.
func MergeBusy(external []models.Interval, bookings []models.Booking) []models.Interval {
	busy := make([]models.Interval, 0, len(external)+len(bookings))
	busy = append(busy, external...)
	for _, b := range bookings {
		busy = append(busy, b.Window())
	}
	return busy
}
