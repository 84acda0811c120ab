package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "slotwise/database/repository/booking"
	hostconfigRepo "slotwise/database/repository/hostconfig"
	"slotwise/models"
	"slotwise/services/calendar"
	"slotwise/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// ErrConfigNotFound means the host has no scheduling configuration.
	ErrConfigNotFound = errors.New("host configuration not found")
	// ErrConfigInactive means the host exists but is not currently bookable.
	ErrConfigInactive = errors.New("host configuration is inactive")
)

// DateLayout is the wire format for host-local calendar days.
const DateLayout = "2006-01-02"

// DayAvailability is the slot list for one host and day, plus display metadata.
type DayAvailability struct {
	HostID           string        `json:"hostId"`
	Date             string        `json:"date"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	DurationMin      int           `json:"durationMin"`
	Slots            []models.Slot `json:"slots"`
	CalendarDegraded bool          `json:"calendarDegraded,omitempty"` // external calendar was unreachable; slots ignore it
}

// Service derives bookable slots for a host and day. The external calendar is
// a soft dependency: any adapter failure degrades to "ignore external busy"
// because the booking engine re-validates before committing.
type Service struct {
	ConfigRepo  hostconfigRepo.HostConfigRepository
	BookingRepo bookingRepo.BookingRepository
	Calendar    calendar.CalendarAdapter
	Cache       *redis.Client
	CacheTTL    time.Duration
}

// CacheKey returns the redis key holding one host-day availability result.
func CacheKey(hostID, date string) string {
	return fmt.Sprintf("avail:%s:%s", hostID, date)
}

// ForDay computes the available slots for hostID on the given host-local date
// ("2006-01-02"). now is explicit for deterministic results.
func (s *Service) ForDay(ctx context.Context, hostID, date string, now time.Time) (*DayAvailability, error) {
	logger := utils.GetLogger()

	cfg, err := s.ConfigRepo.GetByHostID(hostID)
	if err != nil {
		if errors.Is(err, hostconfigRepo.ErrNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to load host config: %w", err)
	}
	if !cfg.Active {
		return nil, ErrConfigInactive
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("host %s has invalid timezone %q: %w", hostID, cfg.Timezone, err)
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	if cached := s.fromCache(ctx, hostID, date, now); cached != nil {
		return cached, nil
	}

	result := &DayAvailability{
		HostID:      hostID,
		Date:        date,
		Title:       cfg.Title,
		Description: cfg.Description,
		DurationMin: cfg.SlotDurationMin,
	}

	// Inactive weekday: empty list, no external calls.
	if !cfg.WorksOn(day.Weekday()) {
		return result, nil
	}

	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	var external []models.Interval
	if s.Calendar != nil {
		external, err = s.Calendar.FreeBusy(ctx, hostID, dayStart, dayEnd)
		if err != nil {
			// Degrade: availability without the external calendar beats no
			// availability at all. The booking engine re-validates anyway.
			logger.Warn("external calendar degraded, ignoring external busy",
				zap.String("hostID", hostID), zap.String("date", date), zap.Error(err))
			external = nil
			result.CalendarDegraded = true
		}
	}

	bookings, err := s.BookingRepo.FindConfirmedInRange(hostID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed bookings: %w", err)
	}

	busy := MergeBusy(external, bookings)
	result.Slots = BuildSlots(cfg, day, busy, now)

	s.toCache(ctx, result)
	return result, nil
}

// InvalidateDay drops the cached availability for one host-day. Called by the
// booking engine after a reserve or cancel commits.
func (s *Service) InvalidateDay(ctx context.Context, hostID, date string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, CacheKey(hostID, date)).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate availability cache",
			zap.String("hostID", hostID), zap.String("date", date), zap.Error(err))
	}
}

// fromCache returns the cached day result with slots that have since become
// past filtered out, or nil on any miss or error.
func (s *Service) fromCache(ctx context.Context, hostID, date string, now time.Time) *DayAvailability {
	if s.Cache == nil {
		return nil
	}
	data, err := s.Cache.Get(ctx, CacheKey(hostID, date)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("availability cache read failed", zap.Error(err))
		}
		return nil
	}
	var result DayAvailability
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil
	}
	fresh := result.Slots[:0]
	for _, slot := range result.Slots {
		if slot.Start.After(now) {
			fresh = append(fresh, slot)
		}
	}
	result.Slots = fresh
	return &result
}

func (s *Service) toCache(ctx context.Context, result *DayAvailability) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.Cache.Set(ctx, CacheKey(result.HostID, result.Date), data, ttl).Err(); err != nil {
		utils.GetLogger().Warn("availability cache write failed", zap.Error(err))
	}
}
