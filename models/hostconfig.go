package models

import (
	"fmt"
	"time"
)

// HostConfig holds one scheduling configuration per host.
// Created and edited by the host; read-only to the booking flow.
type HostConfig struct {
	ID              string         `bson:"id" json:"id"`
	HostID          string         `bson:"host_id" json:"hostId"`
	HostName        string         `bson:"host_name" json:"hostName"`
	HostEmail       string         `bson:"host_email" json:"hostEmail"`
	Title           string         `bson:"title" json:"title"`                   // display title for the booking page
	Description     string         `bson:"description" json:"description"`       // display description
	WorkStartHour   int            `bson:"work_start_hour" json:"workStartHour"` // host-local hour, e.g. 9
	WorkEndHour     int            `bson:"work_end_hour" json:"workEndHour"`     // host-local hour, e.g. 17
	SlotDurationMin int            `bson:"slot_duration_min" json:"slotDurationMin"`
	BufferMin       int            `bson:"buffer_min" json:"bufferMin"` // gap enforced after each slot
	Workdays        []time.Weekday `bson:"workdays" json:"workdays"`
	Timezone        string         `bson:"timezone" json:"timezone"` // IANA name, e.g. "Europe/Berlin"
	Active          bool           `bson:"active" json:"active"`
	CreatedAt       time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updated_at" json:"updatedAt"`
}

// Validate checks the structural invariants of a host configuration.
func (c *HostConfig) Validate() error {
	if c.HostID == "" {
		return fmt.Errorf("hostId is required")
	}
	if c.WorkStartHour < 0 || c.WorkEndHour > 24 || c.WorkStartHour >= c.WorkEndHour {
		return fmt.Errorf("invalid work window: start %d, end %d", c.WorkStartHour, c.WorkEndHour)
	}
	if c.SlotDurationMin <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", c.SlotDurationMin)
	}
	if c.BufferMin < 0 {
		return fmt.Errorf("buffer must not be negative, got %d", c.BufferMin)
	}
	if len(c.Workdays) == 0 {
		return fmt.Errorf("at least one workday is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the host's timezone. Callers must have validated the config.
func (c *HostConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// WorksOn reports whether the given weekday is in the host's active set.
func (c *HostConfig) WorksOn(day time.Weekday) bool {
	for _, d := range c.Workdays {
		if d == day {
			return true
		}
	}
	return false
}

// SlotDuration returns the slot length as a duration.
func (c *HostConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotDurationMin) * time.Minute
}

// SlotStep returns the spacing between consecutive candidate slot starts.
func (c *HostConfig) SlotStep() time.Duration {
	return time.Duration(c.SlotDurationMin+c.BufferMin) * time.Minute
}
