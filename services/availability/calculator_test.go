package availability

import (
	"math/rand"
	"testing"
	"time"

	"slotwise/models"
)

func testConfig() *models.HostConfig {
	return &models.HostConfig{
		ID:              "cfg-1",
		HostID:          "host-1",
		Title:           "Consultation",
		WorkStartHour:   9,
		WorkEndHour:     17,
		SlotDurationMin: 30,
		BufferMin:       10,
		Workdays:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Timezone:        "UTC",
		Active:          true,
	}
}

// 2026-01-28 is a Wednesday.
var testDay = time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return testDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestBuildSlots_Grid(t *testing.T) {
	cfg := testConfig()
	now := at(8, 0)

	slots := BuildSlots(cfg, testDay, nil, now)

	// 9:00, 9:40, 10:20, ... spaced 40 minutes apart; last start 16:20
	// because a 16:40 start would end at 17:10, past the work end.
	if len(slots) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(at(9, 0)) || !slots[0].End.Equal(at(9, 30)) {
		t.Errorf("first slot = [%s, %s), want [09:00, 09:30)", slots[0].Start, slots[0].End)
	}
	if !slots[1].Start.Equal(at(9, 40)) || !slots[1].End.Equal(at(10, 10)) {
		t.Errorf("second slot = [%s, %s), want [09:40, 10:10)", slots[1].Start, slots[1].End)
	}
	last := slots[len(slots)-1]
	if !last.Start.Equal(at(16, 20)) {
		t.Errorf("last slot start = %s, want 16:20", last.Start)
	}
	workEnd := at(17, 0)
	for _, s := range slots {
		if s.End.After(workEnd) {
			t.Errorf("slot [%s, %s) crosses the work end", s.Start, s.End)
		}
	}
}

func TestBuildSlots_BusyExcludesOverlapping(t *testing.T) {
	cfg := testConfig()
	now := at(8, 0)
	busy := []models.Interval{{Start: at(10, 0), End: at(10, 30)}}

	slots := BuildSlots(cfg, testDay, busy, now)

	// 09:40-10:10 and 10:20-10:50 both overlap [10:00, 10:30) and are gone;
	// neighbors 09:00 and 11:00 are unaffected.
	if len(slots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Interval().OverlapsAny(busy) {
			t.Errorf("slot [%s, %s) overlaps a busy interval", s.Start, s.End)
		}
	}
	if !slots[0].Start.Equal(at(9, 0)) {
		t.Errorf("first slot = %s, want 09:00", slots[0].Start)
	}
	if !slots[1].Start.Equal(at(11, 0)) {
		t.Errorf("slot after the busy block = %s, want 11:00", slots[1].Start)
	}
}

func TestBuildSlots_SkipsPast(t *testing.T) {
	cfg := testConfig()
	now := at(12, 0)

	slots := BuildSlots(cfg, testDay, nil, now)

	for _, s := range slots {
		if !s.Start.After(now) {
			t.Errorf("slot starting %s is not strictly in the future of %s", s.Start, now)
		}
	}
	// First future grid start after 12:00 is 12:20.
	if len(slots) == 0 || !slots[0].Start.Equal(at(12, 20)) {
		t.Fatalf("expected first slot 12:20, got %v", slots)
	}
}

func TestBuildSlots_BookingsCountAsBusy(t *testing.T) {
	cfg := testConfig()
	now := at(8, 0)
	bookings := []models.Booking{{
		Status: models.BookingStatusConfirmed,
		Start:  at(9, 0),
		End:    at(9, 30),
	}}

	slots := BuildSlots(cfg, testDay, MergeBusy(nil, bookings), now)

	for _, s := range slots {
		if s.Start.Equal(at(9, 0)) {
			t.Error("booked 09:00 slot should not be offered")
		}
	}
}

// Randomized busy sets: no generated slot may ever overlap a busy interval,
// cross the work end, or start in the past.
func TestBuildSlots_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := at(7, 0)

	for i := 0; i < 200; i++ {
		cfg := testConfig()
		cfg.SlotDurationMin = 5 + rng.Intn(120)
		cfg.BufferMin = rng.Intn(30)

		var busy []models.Interval
		for n := rng.Intn(8); n > 0; n-- {
			startMin := rng.Intn(24 * 60)
			length := 1 + rng.Intn(180)
			busy = append(busy, models.Interval{
				Start: testDay.Add(time.Duration(startMin) * time.Minute),
				End:   testDay.Add(time.Duration(startMin+length) * time.Minute),
			})
		}

		slots := BuildSlots(cfg, testDay, busy, now)
		workEnd := at(cfg.WorkEndHour, 0)
		for _, s := range slots {
			if s.Interval().OverlapsAny(busy) {
				t.Fatalf("case %d: slot [%s, %s) overlaps busy set %v", i, s.Start, s.End, busy)
			}
			if s.End.After(workEnd) {
				t.Fatalf("case %d: slot [%s, %s) crosses work end", i, s.Start, s.End)
			}
			if !s.Start.After(now) {
				t.Fatalf("case %d: slot [%s, %s) is not in the future", i, s.Start, s.End)
			}
		}
	}
}
