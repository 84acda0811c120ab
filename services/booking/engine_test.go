package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingRepo "slotwise/database/repository/booking"
	customerRepo "slotwise/database/repository/customer"
	hostconfigRepo "slotwise/database/repository/hostconfig"
	"slotwise/models"
	"slotwise/services/availability"
	"slotwise/services/calendar"
)

type fakeConfigRepo struct {
	cfg *models.HostConfig
}

func (f *fakeConfigRepo) GetByHostID(hostID string) (*models.HostConfig, error) {
	if f.cfg == nil || f.cfg.HostID != hostID {
		return nil, hostconfigRepo.ErrNotFound
	}
	return f.cfg, nil
}
func (f *fakeConfigRepo) Create(cfg *models.HostConfig) error { return nil }
func (f *fakeConfigRepo) Update(cfg *models.HostConfig) error { return nil }
func (f *fakeConfigRepo) Delete(hostID string) error          { return nil }

// fakeBookingStore mimics the transactional reserve contract in memory: the
// overlap re-check and the insert happen under one lock.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) GetByID(id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingStore) GetByCancelToken(token string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.CancelToken == token {
			out := *b
			return &out, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingStore) FindConfirmedInRange(hostID string, from, to time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	window := models.Interval{Start: from, End: to}
	for _, b := range f.bookings {
		if b.HostID == hostID && b.Status == models.BookingStatusConfirmed && b.Window().Overlaps(window) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ReserveTransactionally(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.HostID == booking.HostID && b.Status == models.BookingStatusConfirmed && b.Window().Overlaps(booking.Window()) {
			return bookingRepo.ErrWindowConflict
		}
	}
	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookingStore) Cancel(id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != models.BookingStatusConfirmed {
		return bookingRepo.ErrNotFound
	}
	b.Status = models.BookingStatusCancelled
	b.CancelledAt = at
	return nil
}

func (f *fakeBookingStore) SetSideEffectRefs(id, externalEventID, agendaEntryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		if externalEventID != "" {
			b.ExternalEventID = externalEventID
		}
		if agendaEntryID != "" {
			b.AgendaEntryID = agendaEntryID
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	customer *models.Customer
}

func (f *fakeCustomerRepo) FindByEmail(email string) (*models.Customer, error) {
	if f.customer != nil && f.customer.Email == email {
		return f.customer, nil
	}
	return nil, customerRepo.ErrNotFound
}

type fakeNotifier struct {
	mu    sync.Mutex
	sends []string
	err   error
}

func (f *fakeNotifier) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, to)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

type fakeCalendarAdapter struct {
	eventID   string
	createErr error
	deleted   []string
}

func (f *fakeCalendarAdapter) FreeBusy(ctx context.Context, hostID string, dayStart, dayEnd time.Time) ([]models.Interval, error) {
	return nil, nil
}
func (f *fakeCalendarAdapter) CreateEvent(ctx context.Context, hostID string, ev calendar.Event) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.eventID, nil
}
func (f *fakeCalendarAdapter) DeleteEvent(ctx context.Context, hostID, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

func activeConfig() *models.HostConfig {
	return &models.HostConfig{
		ID:              "cfg-1",
		HostID:          "host-1",
		Title:           "Consultation",
		HostEmail:       "host@example.com",
		WorkStartHour:   9,
		WorkEndHour:     17,
		SlotDurationMin: 30,
		BufferMin:       10,
		Workdays:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Timezone:        "UTC",
		Active:          true,
	}
}

func futureWindow(d time.Duration) (time.Time, time.Time) {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	return start, start.Add(d)
}

func newTestEngine(cfg *models.HostConfig, store *fakeBookingStore) (*DefaultBookingEngine, *fakeNotifier, *fakeCalendarAdapter) {
	notifier := &fakeNotifier{}
	adapter := &fakeCalendarAdapter{eventID: "ev-123"}
	engine := &DefaultBookingEngine{
		ConfigRepo:  &fakeConfigRepo{cfg: cfg},
		BookingRepo: store,
		Calendar:    adapter,
		Notifier:    notifier,
	}
	return engine, notifier, adapter
}

func validRequest() models.BookingRequest {
	start, end := futureWindow(30 * time.Minute)
	return models.BookingRequest{
		HostID: "host-1",
		Start:  start,
		End:    end,
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
	}
}

func TestReserve_Success(t *testing.T) {
	store := newFakeBookingStore()
	engine, notifier, _ := newTestEngine(activeConfig(), store)

	conf, err := engine.Reserve(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %q, want confirmed", conf.Status)
	}
	if conf.CancelToken == "" {
		t.Error("expected a cancellation token")
	}
	if conf.ExternalEventID != "ev-123" {
		t.Errorf("external event id = %q, want ev-123", conf.ExternalEventID)
	}

	stored, err := store.GetByID(conf.BookingID)
	if err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	if stored.ExternalEventID != "ev-123" {
		t.Errorf("stored external event id = %q", stored.ExternalEventID)
	}
	// Requester and host both get a confirmation.
	if notifier.count() != 2 {
		t.Errorf("expected 2 confirmation mails, got %d", notifier.count())
	}
}

func TestReserve_OverlapRejected(t *testing.T) {
	store := newFakeBookingStore()
	engine, _, _ := newTestEngine(activeConfig(), store)
	req := validRequest()

	if _, err := engine.Reserve(context.Background(), req); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}

	// Identical window.
	if _, err := engine.Reserve(context.Background(), req); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken for identical window, got %v", err)
	}

	// Partially overlapping window.
	shifted := req
	shifted.Start = req.Start.Add(15 * time.Minute)
	shifted.End = req.End.Add(15 * time.Minute)
	if _, err := engine.Reserve(context.Background(), shifted); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken for overlapping window, got %v", err)
	}

	// Nothing was written for the losers.
	bookings, _ := store.FindConfirmedInRange("host-1", req.Start.Add(-time.Hour), req.End.Add(time.Hour))
	if len(bookings) != 1 {
		t.Errorf("expected exactly 1 confirmed booking, got %d", len(bookings))
	}
}

func TestReserve_InvalidWindows(t *testing.T) {
	engine, _, _ := newTestEngine(activeConfig(), newFakeBookingStore())

	tests := []struct {
		name   string
		mutate func(*models.BookingRequest)
	}{
		{"end before start", func(r *models.BookingRequest) { r.End = r.Start.Add(-time.Minute) }},
		{"zero-length window", func(r *models.BookingRequest) { r.End = r.Start }},
		{"start in the past", func(r *models.BookingRequest) {
			r.Start = time.Now().Add(-time.Hour)
			r.End = r.Start.Add(30 * time.Minute)
		}},
		{"missing name", func(r *models.BookingRequest) { r.Name = "  " }},
		{"missing email", func(r *models.BookingRequest) { r.Email = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if _, err := engine.Reserve(context.Background(), req); !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("expected ErrInvalidWindow, got %v", err)
			}
		})
	}
}

func TestReserve_HostPreconditions(t *testing.T) {
	engine, _, _ := newTestEngine(activeConfig(), newFakeBookingStore())
	req := validRequest()
	req.HostID = "nobody"
	if _, err := engine.Reserve(context.Background(), req); !errors.Is(err, availability.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	inactive := activeConfig()
	inactive.Active = false
	engine, _, _ = newTestEngine(inactive, newFakeBookingStore())
	if _, err := engine.Reserve(context.Background(), validRequest()); !errors.Is(err, availability.ErrConfigInactive) {
		t.Errorf("expected ErrConfigInactive, got %v", err)
	}
}

func TestReserve_LinksExistingCustomer(t *testing.T) {
	store := newFakeBookingStore()
	engine, _, _ := newTestEngine(activeConfig(), store)
	engine.CustomerRepo = &fakeCustomerRepo{customer: &models.Customer{ID: "cust-7", Email: "ada@example.com"}}

	conf, err := engine.Reserve(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := store.GetByID(conf.BookingID)
	if stored.CustomerID != "cust-7" {
		t.Errorf("customer id = %q, want cust-7", stored.CustomerID)
	}
}

func TestReserve_SideEffectFailuresAreSoft(t *testing.T) {
	store := newFakeBookingStore()
	engine, notifier, adapter := newTestEngine(activeConfig(), store)
	adapter.createErr = errors.New("calendar down")
	notifier.err = errors.New("smtp down")

	conf, err := engine.Reserve(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("side-effect failures must not fail the booking, got %v", err)
	}
	if conf.ExternalEventID != "" {
		t.Errorf("expected no external event id, got %q", conf.ExternalEventID)
	}
	if _, err := store.GetByID(conf.BookingID); err != nil {
		t.Errorf("booking must survive side-effect failures: %v", err)
	}
}

func TestLocalDates(t *testing.T) {
	cfg := activeConfig()
	cfg.Timezone = "Europe/Berlin"
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}

	within := &models.Booking{
		Start: time.Date(2026, 1, 28, 14, 0, 0, 0, berlin),
		End:   time.Date(2026, 1, 28, 14, 30, 0, 0, berlin),
	}
	if got := localDates(cfg, within); len(got) != 1 || got[0] != "2026-01-28" {
		t.Errorf("same-day window dates = %v, want [2026-01-28]", got)
	}

	// A window crossing host-local midnight touches two cached days.
	crossing := &models.Booking{
		Start: time.Date(2026, 1, 28, 23, 30, 0, 0, berlin),
		End:   time.Date(2026, 1, 29, 0, 15, 0, 0, berlin),
	}
	got := localDates(cfg, crossing)
	if len(got) != 2 || got[0] != "2026-01-28" || got[1] != "2026-01-29" {
		t.Errorf("midnight-crossing window dates = %v, want [2026-01-28 2026-01-29]", got)
	}
}

func TestCancelByToken(t *testing.T) {
	store := newFakeBookingStore()
	engine, notifier, adapter := newTestEngine(activeConfig(), store)

	conf, err := engine.Reserve(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	cancelled, err := engine.CancelByToken(context.Background(), conf.CancelToken)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if len(adapter.deleted) != 1 || adapter.deleted[0] != "ev-123" {
		t.Errorf("external event not deleted: %v", adapter.deleted)
	}

	// Re-redeeming the token is an idempotent no-op: same result, no second
	// round of side effects.
	sendsAfterFirst := notifier.count()
	again, err := engine.CancelByToken(context.Background(), conf.CancelToken)
	if err != nil {
		t.Fatalf("second cancel must succeed, got %v", err)
	}
	if again.Status != models.BookingStatusCancelled {
		t.Errorf("second cancel status = %q", again.Status)
	}
	if notifier.count() != sendsAfterFirst {
		t.Error("second cancel must not send more mail")
	}
	if len(adapter.deleted) != 1 {
		t.Error("second cancel must not delete the event again")
	}
}

func TestCancelByToken_Unknown(t *testing.T) {
	engine, _, _ := newTestEngine(activeConfig(), newFakeBookingStore())
	if _, err := engine.CancelByToken(context.Background(), "no-such-token"); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestCancelFreesWindowForRebooking(t *testing.T) {
	store := newFakeBookingStore()
	engine, _, _ := newTestEngine(activeConfig(), store)
	req := validRequest()

	first, err := engine.Reserve(context.Background(), req)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if _, err := engine.Reserve(context.Background(), req); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken before cancellation, got %v", err)
	}

	if _, err := engine.CancelByToken(context.Background(), first.CancelToken); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := engine.Reserve(context.Background(), req); err != nil {
		t.Fatalf("window must be bookable again after cancellation, got %v", err)
	}
}

// Two goroutines racing for the same window: exactly one wins, the loser gets
// ErrSlotTaken.
func TestReserve_ConcurrentSameWindow(t *testing.T) {
	store := newFakeBookingStore()
	engine, _, _ := newTestEngine(activeConfig(), store)
	req := validRequest()

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := engine.Reserve(context.Background(), req)
			results <- err
		}()
	}

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d/%d", wins, conflicts)
	}
}

// Overlapping windows with different start instants race each other: the
// reserve path serializes writers per host, so the loser must observe the
// winner's booking and get ErrSlotTaken rather than both committing.
func TestReserve_ConcurrentOverlappingWindows(t *testing.T) {
	store := newFakeBookingStore()
	engine, _, _ := newTestEngine(activeConfig(), store)

	first := validRequest()
	second := first
	second.Start = first.Start.Add(15 * time.Minute)
	second.End = first.End.Add(15 * time.Minute)

	results := make(chan error, 2)
	for _, req := range []models.BookingRequest{first, second} {
		go func(r models.BookingRequest) {
			_, err := engine.Reserve(context.Background(), r)
			results <- err
		}(req)
	}

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d/%d", wins, conflicts)
	}

	stored, _ := store.FindConfirmedInRange("host-1", first.Start.Add(-time.Hour), second.End.Add(time.Hour))
	if len(stored) != 1 {
		t.Fatalf("expected exactly 1 confirmed booking after the race, got %d", len(stored))
	}
}
