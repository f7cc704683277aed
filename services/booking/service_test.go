package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agendaRepo "agendly/database/repository/agenda"
	bookingRepo "agendly/database/repository/booking"
	catalogRepo "agendly/database/repository/catalog"
	"agendly/models"
	"agendly/services/scheduling"
)

type fakeCatalog struct {
	providers map[string]*models.Provider
	locations map[string]*models.Location
	members   map[string]*models.Member
	services  map[string]*models.Service
}

func (f *fakeCatalog) GetProviderByID(_ context.Context, id string) (*models.Provider, error) {
	if p, ok := f.providers[id]; ok {
		return p, nil
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) CreateProvider(_ context.Context, p *models.Provider) error {
	f.providers[p.ID] = p
	return nil
}

func (f *fakeCatalog) UpdateProviderSettings(_ context.Context, id string, settings models.ProviderSettings) error {
	p, ok := f.providers[id]
	if !ok {
		return catalogRepo.ErrNotFound
	}
	p.Settings = settings
	return nil
}

func (f *fakeCatalog) GetLocationByID(_ context.Context, providerID, id string) (*models.Location, error) {
	if l, ok := f.locations[id]; ok && l.ProviderID == providerID {
		return l, nil
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) CreateLocation(_ context.Context, l *models.Location) error {
	f.locations[l.ID] = l
	return nil
}

func (f *fakeCatalog) GetMemberByID(_ context.Context, providerID, id string) (*models.Member, error) {
	if m, ok := f.members[id]; ok && m.ProviderID == providerID {
		return m, nil
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) CreateMember(_ context.Context, m *models.Member) error {
	f.members[m.ID] = m
	return nil
}

func (f *fakeCatalog) ListMembersByLocation(_ context.Context, providerID, locationID string) ([]models.Member, error) {
	var out []models.Member
	for _, m := range f.members {
		if m.ProviderID == providerID && m.LocationID == locationID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) UpdateMemberLocation(_ context.Context, providerID, memberID, locationID string) error {
	m, ok := f.members[memberID]
	if !ok || m.ProviderID != providerID {
		return catalogRepo.ErrNotFound
	}
	m.LocationID = locationID
	return nil
}

func (f *fakeCatalog) DeleteMember(_ context.Context, providerID, memberID string) error {
	delete(f.members, memberID)
	return nil
}

func (f *fakeCatalog) GetServiceByID(_ context.Context, providerID, id string) (*models.Service, error) {
	if s, ok := f.services[id]; ok && s.ProviderID == providerID {
		return s, nil
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) CreateService(_ context.Context, s *models.Service) error {
	f.services[s.ID] = s
	return nil
}

type fakeBookingStore struct {
	mu    sync.Mutex
	items []models.Booking
}

func (f *fakeBookingStore) Insert(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *b)
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, providerID, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ProviderID == providerID && f.items[i].ID == id {
			b := f.items[i]
			return &b, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingStore) GetActiveByToken(_ context.Context, token string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].CancelToken == token && models.IsActiveBookingStatus(f.items[i].Status) {
			b := f.items[i]
			return &b, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingStore) transition(providerID, id string, from []string, apply func(*models.Booking)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		b := &f.items[i]
		if b.ProviderID != providerID || b.ID != id {
			continue
		}
		for _, s := range from {
			if b.Status == s {
				apply(b)
				return nil
			}
		}
		return bookingRepo.ErrStateConflict
	}
	return bookingRepo.ErrNotFound
}

func (f *fakeBookingStore) SetStatus(_ context.Context, providerID, id string, from []string, to string) error {
	return f.transition(providerID, id, from, func(b *models.Booking) { b.Status = to })
}

func (f *fakeBookingStore) SetCancelled(_ context.Context, providerID, id string, from []string, cancelledBy, reason string, at time.Time) error {
	return f.transition(providerID, id, from, func(b *models.Booking) {
		b.Status = models.BookingStatusCancelled
		b.CancelledBy = cancelledBy
		b.CancelReason = reason
		b.CancelledAt = &at
	})
}

func (f *fakeBookingStore) SetTimes(_ context.Context, providerID, id string, from []string, start, end time.Time) error {
	return f.transition(providerID, id, from, func(b *models.Booking) {
		b.Datetime = start
		b.EndDatetime = end
	})
}

func (f *fakeBookingStore) MarkReviewRequested(_ context.Context, providerID, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		b := &f.items[i]
		if b.ProviderID == providerID && b.ID == id {
			if b.ReviewRequestSentAt != nil {
				return false, nil
			}
			b.ReviewRequestSentAt = &at
			return true, nil
		}
	}
	return false, bookingRepo.ErrNotFound
}

func (f *fakeBookingStore) ListActiveInRange(_ context.Context, providerID, memberID, locationID string, from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) ListUpcomingByMember(_ context.Context, providerID, memberID string, from time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) ListByProvider(_ context.Context, providerID, status string, from, to time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.items {
		if b.ProviderID == providerID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByClient(_ context.Context, providerID, clientID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.items {
		if b.ProviderID == providerID && b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) CountFutureActiveByMember(_ context.Context, providerID, memberID string, from time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeBookingStore) CountByStatus(_ context.Context, providerID string, from, to time.Time) (models.BookingStatusCounts, error) {
	return models.BookingStatusCounts{}, nil
}

// fakeAgenda enforces real hold exclusivity under a mutex, so concurrent
// Reserve calls behave like the Mongo conditional upsert.
type fakeAgenda struct {
	mu    sync.Mutex
	holds map[string][]agendaRepo.Hold
}

func newFakeAgenda() *fakeAgenda {
	return &fakeAgenda{holds: map[string][]agendaRepo.Hold{}}
}

func agendaKey(providerID, locationID, date string) string {
	return fmt.Sprintf("%s|%s|%s", providerID, locationID, date)
}

func (f *fakeAgenda) Reserve(_ context.Context, providerID, locationID, date string, hold agendaRepo.Hold, excludeBookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := agendaKey(providerID, locationID, date)
	for _, h := range f.holds[key] {
		if excludeBookingID != "" && h.BookingID == excludeBookingID {
			continue
		}
		// Two distinct members never contend; location-level holds contend
		// with everything.
		if hold.MemberID != "" && h.MemberID != "" && h.MemberID != hold.MemberID {
			continue
		}
		if h.Start < hold.ServiceEnd && hold.Start < h.End {
			return agendaRepo.ErrHoldConflict
		}
	}
	f.holds[key] = append(f.holds[key], hold)
	return nil
}

func (f *fakeAgenda) Release(_ context.Context, providerID, locationID, date, bookingID string, start int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := agendaKey(providerID, locationID, date)
	kept := f.holds[key][:0]
	for _, h := range f.holds[key] {
		if !(h.BookingID == bookingID && h.Start == start) {
			kept = append(kept, h)
		}
	}
	f.holds[key] = kept
	return nil
}

func (f *fakeAgenda) holdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, hs := range f.holds {
		n += len(hs)
	}
	return n
}

// stubEngine answers every availability check the same way, so tests can
// isolate the hold exclusivity and state machine logic.
type stubEngine struct {
	available bool
}

func (s *stubEngine) GetAvailableSlots(context.Context, scheduling.SlotQuery) ([]scheduling.Slot, error) {
	return nil, nil
}

func (s *stubEngine) IsSlotAvailable(context.Context, scheduling.SlotCheck) (bool, error) {
	return s.available, nil
}

type bookingFixture struct {
	catalog  *fakeCatalog
	bookings *fakeBookingStore
	agenda   *fakeAgenda
	engine   *stubEngine
	svc      *DefaultBookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	catalog := &fakeCatalog{
		providers: map[string]*models.Provider{
			"p1": {
				ID: "p1", Name: "Shear Genius",
				Settings: models.ProviderSettings{Timezone: "UTC"},
			},
		},
		locations: map[string]*models.Location{
			"l1": {ID: "l1", ProviderID: "p1", Name: "Downtown", Address: "1 Main St"},
		},
		members: map[string]*models.Member{
			"m1": {ID: "m1", ProviderID: "p1", LocationID: "l1", DisplayName: "Alex"},
		},
		services: map[string]*models.Service{
			"s1": {
				ID: "s1", ProviderID: "p1", Name: "Cut",
				DurationMinutes: 60, BufferMinutes: 15, PriceMinor: 3500,
			},
		},
	}
	bookings := &fakeBookingStore{}
	agenda := newFakeAgenda()
	engine := &stubEngine{available: true}

	svc := NewBookingService(catalog, bookings, agenda, engine)
	svc.Now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return &bookingFixture{catalog: catalog, bookings: bookings, agenda: agenda, engine: engine, svc: svc}
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		ProviderID: "p1",
		LocationID: "l1",
		ServiceID:  "s1",
		MemberID:   "m1",
		Datetime:   time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		ClientInfo: &models.ClientInfo{Name: "Dana", Email: "dana@example.com"},
	}
}

func TestCreateBookingSnapshotsCatalog(t *testing.T) {
	fx := newBookingFixture(t)

	b, err := fx.svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.NotEmpty(t, b.CancelToken)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, "Cut", b.ServiceName)
	assert.Equal(t, "Downtown", b.LocationName)
	assert.Equal(t, "Alex", b.MemberName)
	assert.Equal(t, int64(3500), b.PriceMinor)
	assert.Equal(t, 60, b.DurationMinutes)
	assert.Equal(t, 15, b.BufferMinutes)
	assert.Equal(t, b.Datetime.Add(60*time.Minute), b.EndDatetime)
	assert.Equal(t, 1, fx.agenda.holdCount())
}

func TestCreateBookingPendingWhenConfirmationRequired(t *testing.T) {
	fx := newBookingFixture(t)
	fx.catalog.providers["p1"].Settings.RequiresConfirmation = true

	b, err := fx.svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)
}

func TestCreateBookingClientIdentityValidation(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	in := validInput()
	in.ClientID = "c1"
	_, err := fx.svc.CreateBooking(ctx, in)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	in = validInput()
	in.ClientInfo = nil
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	in = validInput()
	in.ClientInfo = &models.ClientInfo{Name: "Dana"}
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})
}

func TestCreateBookingRejectsUnavailableSlot(t *testing.T) {
	fx := newBookingFixture(t)
	fx.engine.available = false

	_, err := fx.svc.CreateBooking(context.Background(), validInput())
	assert.ErrorAs(t, err, &scheduling.SlotUnavailableError{})
	assert.Equal(t, 0, fx.agenda.holdCount())
}

func TestCreateBookingDoubleBookRace(t *testing.T) {
	fx := newBookingFixture(t)

	// The stub engine says yes to both; the agenda hold must let exactly
	// one through.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = fx.svc.CreateBooking(context.Background(), validInput())
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var slotErr scheduling.SlotUnavailableError
		require.ErrorAs(t, err, &slotErr)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, fx.agenda.holdCount())
}

func TestCreateBookingOverlappingHoldRejected(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	// 10:45 is inside the first booking's buffered hold [10:00, 11:15).
	in := validInput()
	in.Datetime = time.Date(2026, 9, 7, 10, 45, 0, 0, time.UTC)
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.ErrorAs(t, err, &scheduling.SlotUnavailableError{})

	// 11:15 clears the buffer.
	in.Datetime = time.Date(2026, 9, 7, 11, 15, 0, 0, time.UTC)
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.NoError(t, err)
}

func TestCreateBookingBackToBackBeforeExisting(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	// 09:00 ends exactly at the existing booking's start. The buffer trails
	// the existing booking, so the earlier side stays open.
	in := validInput()
	in.Datetime = time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.NoError(t, err)
	assert.Equal(t, 2, fx.agenda.holdCount())
}

func TestCreateBookingMemberAndLocationHoldsContend(t *testing.T) {
	fx := newBookingFixture(t)
	fx.catalog.members["m2"] = &models.Member{
		ID: "m2", ProviderID: "p1", LocationID: "l1", DisplayName: "Bea",
	}
	ctx := context.Background()

	_, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	// A location-level booking at the same time loses to the member hold.
	in := validInput()
	in.MemberID = ""
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.ErrorAs(t, err, &scheduling.SlotUnavailableError{})

	// Another member is free to take the same time.
	in = validInput()
	in.MemberID = "m2"
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.NoError(t, err)

	// A location-level hold binds every member.
	in = validInput()
	in.MemberID = ""
	in.Datetime = time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)
	_, err = fx.svc.CreateBooking(ctx, in)
	require.NoError(t, err)

	in = validInput()
	in.Datetime = time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.ErrorAs(t, err, &scheduling.SlotUnavailableError{})
}

func TestConfirmBookingStateMachine(t *testing.T) {
	fx := newBookingFixture(t)
	fx.catalog.providers["p1"].Settings.RequiresConfirmation = true
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	confirmed, err := fx.svc.ConfirmBooking(ctx, "p1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	_, err = fx.svc.ConfirmBooking(ctx, "p1", b.ID)
	assert.ErrorAs(t, err, &scheduling.InvalidStateError{})

	_, err = fx.svc.ConfirmBooking(ctx, "p1", "nope")
	assert.ErrorAs(t, err, &scheduling.NotFoundError{})
}

func TestCancelBookingReleasesHold(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)
	require.Equal(t, 1, fx.agenda.holdCount())

	cancelled, err := fx.svc.CancelBooking(ctx, "p1", b.ID, CancelledByProvider, "closing early")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, CancelledByProvider, cancelled.CancelledBy)
	assert.Equal(t, "closing early", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 0, fx.agenda.holdCount())

	// The slot is bookable again.
	_, err = fx.svc.CreateBooking(ctx, validInput())
	assert.NoError(t, err)

	// Cancelling a cancelled booking is a state conflict.
	_, err = fx.svc.CancelBooking(ctx, "p1", b.ID, CancelledByProvider, "")
	assert.ErrorAs(t, err, &scheduling.InvalidStateError{})
}

func TestCancelBookingRejectsUnknownActor(t *testing.T) {
	fx := newBookingFixture(t)
	b, err := fx.svc.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	_, err = fx.svc.CancelBooking(context.Background(), "p1", b.ID, "gremlin", "")
	assert.ErrorAs(t, err, &scheduling.ValidationError{})
}

func TestCancelBookingByToken(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	cancelled, err := fx.svc.CancelBookingByToken(ctx, b.CancelToken, "can't make it")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, CancelledByClient, cancelled.CancelledBy)

	// An already-used token reads as not found, same as an unknown one.
	_, err = fx.svc.CancelBookingByToken(ctx, b.CancelToken, "")
	assert.ErrorAs(t, err, &scheduling.NotFoundError{})

	_, err = fx.svc.CancelBookingByToken(ctx, "bogus", "")
	assert.ErrorAs(t, err, &scheduling.NotFoundError{})
}

func TestRescheduleBookingMovesHold(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	newStart := time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)
	result, err := fx.svc.RescheduleBooking(ctx, "p1", b.ID, newStart)
	require.NoError(t, err)

	assert.Equal(t, b.ID, result.Booking.ID)
	assert.Equal(t, b.CancelToken, result.Booking.CancelToken)
	assert.Equal(t, b.PriceMinor, result.Booking.PriceMinor)
	assert.Equal(t, validInput().Datetime, result.OldDatetime)
	assert.Equal(t, newStart, result.NewDatetime)
	assert.Equal(t, newStart, result.Booking.Datetime)
	assert.Equal(t, newStart.Add(60*time.Minute), result.Booking.EndDatetime)
	assert.Equal(t, 1, fx.agenda.holdCount())

	// The old time is free again, the new one is held.
	in := validInput()
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.NoError(t, err)

	in.Datetime = newStart
	_, err = fx.svc.CreateBooking(ctx, in)
	assert.ErrorAs(t, err, &scheduling.SlotUnavailableError{})
}

func TestRescheduleOntoOwnSlot(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	// 30 minutes later overlaps the booking's own hold; the exclusion must
	// let it through.
	newStart := validInput().Datetime.Add(30 * time.Minute)
	result, err := fx.svc.RescheduleBooking(ctx, "p1", b.ID, newStart)
	require.NoError(t, err)
	assert.Equal(t, newStart, result.Booking.Datetime)
	assert.Equal(t, 1, fx.agenda.holdCount())
}

func TestRescheduleTerminalBookingRejected(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)
	_, err = fx.svc.CancelBooking(ctx, "p1", b.ID, CancelledByProvider, "")
	require.NoError(t, err)

	_, err = fx.svc.RescheduleBooking(ctx, "p1", b.ID, validInput().Datetime.Add(time.Hour))
	assert.ErrorAs(t, err, &scheduling.InvalidStateError{})
}

func TestCompleteBookingStampsReviewOnce(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	result, err := fx.svc.CompleteBooking(ctx, "p1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, result.Booking.Status)
	assert.True(t, result.ReviewRequested)

	// Completing again is a state conflict, and the review stamp stays put.
	_, err = fx.svc.CompleteBooking(ctx, "p1", b.ID)
	assert.ErrorAs(t, err, &scheduling.InvalidStateError{})

	stored, err := fx.svc.GetBooking(ctx, "p1", b.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ReviewRequestSentAt)
}

func TestCompleteBookingRejectsPending(t *testing.T) {
	fx := newBookingFixture(t)
	fx.catalog.providers["p1"].Settings.RequiresConfirmation = true
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, b.Status)

	_, err = fx.svc.CompleteBooking(ctx, "p1", b.ID)
	var stateErr scheduling.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.BookingStatusPending, stateErr.Current)

	stored, err := fx.svc.GetBooking(ctx, "p1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Nil(t, stored.ReviewRequestSentAt)
}

func TestMarkNoShow(t *testing.T) {
	fx := newBookingFixture(t)
	fx.catalog.providers["p1"].Settings.RequiresConfirmation = true
	ctx := context.Background()

	b, err := fx.svc.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	// A pending booking cannot be marked no-show.
	_, err = fx.svc.MarkNoShow(ctx, "p1", b.ID)
	assert.ErrorAs(t, err, &scheduling.InvalidStateError{})

	_, err = fx.svc.ConfirmBooking(ctx, "p1", b.ID)
	require.NoError(t, err)

	marked, err := fx.svc.MarkNoShow(ctx, "p1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusNoShow, marked.Status)
}

func TestListProviderBookingsValidatesStatus(t *testing.T) {
	fx := newBookingFixture(t)

	_, err := fx.svc.ListProviderBookings(context.Background(), "p1", "limbo", time.Time{}, time.Now())
	assert.ErrorAs(t, err, &scheduling.ValidationError{})
}
