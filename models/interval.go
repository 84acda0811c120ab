package models

import "time"

// Interval is a half-open time window [Start, End).
// It is used both for busy time (external calendar events, confirmed bookings)
// and for candidate slots.
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// OverlapsAny reports whether the interval intersects any of the given busy windows.
func (iv Interval) OverlapsAny(busy []Interval) bool {
	for _, b := range busy {
		if iv.Overlaps(b) {
			return true
		}
	}
	return false
}

// Valid reports whether the interval has positive length.
func (iv Interval) Valid() bool {
	return iv.End.After(iv.Start)
}

// Slot is a bookable candidate window offered to a requester.
type Slot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"durationMin"`
}

// Interval returns the slot's window as an Interval.
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}
