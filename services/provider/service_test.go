package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		providers: map[string]*models.Provider{},
		locations: map[string]*models.Location{},
		members:   map[string]*models.Member{},
		services:  map[string]*models.Service{},
	}
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
	m, ok := f.members[memberID]
	if !ok || m.ProviderID != providerID {
		return catalogRepo.ErrNotFound
	}
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

type fakeAvailability struct {
	week       []models.Availability
	exceptions []models.ExceptionSlot
}

func (f *fakeAvailability) UpsertDay(_ context.Context, day models.Availability) error {
	for i, d := range f.week {
		if d.ProviderID == day.ProviderID && d.MemberID == day.MemberID &&
			d.LocationID == day.LocationID && d.DayOfWeek == day.DayOfWeek {
			f.week[i] = day
			return nil
		}
	}
	f.week = append(f.week, day)
	return nil
}

func (f *fakeAvailability) ReplaceWeek(_ context.Context, providerID, memberID, locationID string, week []models.Availability) error {
	kept := f.week[:0]
	for _, d := range f.week {
		if !(d.ProviderID == providerID && d.MemberID == memberID && d.LocationID == locationID) {
			kept = append(kept, d)
		}
	}
	f.week = append(kept, week...)
	return nil
}

func (f *fakeAvailability) GetWeek(_ context.Context, providerID, locationID, memberID string) ([]models.Availability, error) {
	var out []models.Availability
	for _, d := range f.week {
		if d.ProviderID == providerID && d.LocationID == locationID && d.MemberID == memberID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeAvailability) UpsertException(_ context.Context, exc models.ExceptionSlot) error {
	f.exceptions = append(f.exceptions, exc)
	return nil
}

func (f *fakeAvailability) DeleteException(_ context.Context, providerID, memberID, locationID, date string) error {
	kept := f.exceptions[:0]
	for _, e := range f.exceptions {
		if !(e.ProviderID == providerID && e.MemberID == memberID && e.LocationID == locationID && e.Date == date) {
			kept = append(kept, e)
		}
	}
	f.exceptions = kept
	return nil
}

func (f *fakeAvailability) ListExceptions(_ context.Context, providerID, memberID, locationID, fromDate, toDate string) ([]models.ExceptionSlot, error) {
	var out []models.ExceptionSlot
	for _, e := range f.exceptions {
		if e.ProviderID == providerID && e.MemberID == memberID && e.LocationID == locationID &&
			e.Date >= fromDate && e.Date <= toDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAvailability) RekeyLocation(_ context.Context, providerID, memberID, oldLocationID, newLocationID string) error {
	for i := range f.week {
		d := &f.week[i]
		if d.ProviderID == providerID && d.MemberID == memberID && d.LocationID == oldLocationID {
			d.LocationID = newLocationID
		}
	}
	for i := range f.exceptions {
		e := &f.exceptions[i]
		if e.ProviderID == providerID && e.MemberID == memberID && e.LocationID == oldLocationID {
			e.LocationID = newLocationID
		}
	}
	return nil
}

type fakeBlocked struct {
	items []models.BlockedPeriod
}

func (f *fakeBlocked) Create(_ context.Context, b *models.BlockedPeriod) error {
	f.items = append(f.items, *b)
	return nil
}

func (f *fakeBlocked) Delete(_ context.Context, providerID, blockedID string) error {
	kept := f.items[:0]
	for _, b := range f.items {
		if !(b.ProviderID == providerID && b.ID == blockedID) {
			kept = append(kept, b)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeBlocked) ListByProvider(_ context.Context, providerID string) ([]models.BlockedPeriod, error) {
	var out []models.BlockedPeriod
	for _, b := range f.items {
		if b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlocked) RekeyLocation(_ context.Context, providerID, memberID, oldLocationID, newLocationID string) error {
	for i := range f.items {
		b := &f.items[i]
		if b.ProviderID == providerID && b.MemberID == memberID && b.LocationID == oldLocationID {
			b.LocationID = newLocationID
		}
	}
	return nil
}

// fakeBookingCounter only answers the future-booking count the member
// deletion guard asks for.
type fakeBookingCounter struct {
	futureActive int64
}

func (f *fakeBookingCounter) Insert(context.Context, *models.Booking) error { return nil }
func (f *fakeBookingCounter) GetByID(context.Context, string, string) (*models.Booking, error) {
	return nil, bookingRepo.ErrNotFound
}
func (f *fakeBookingCounter) GetActiveByToken(context.Context, string) (*models.Booking, error) {
	return nil, bookingRepo.ErrNotFound
}
func (f *fakeBookingCounter) SetStatus(context.Context, string, string, []string, string) error {
	return nil
}
func (f *fakeBookingCounter) SetCancelled(context.Context, string, string, []string, string, string, time.Time) error {
	return nil
}
func (f *fakeBookingCounter) SetTimes(context.Context, string, string, []string, time.Time, time.Time) error {
	return nil
}
func (f *fakeBookingCounter) MarkReviewRequested(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}
func (f *fakeBookingCounter) ListActiveInRange(context.Context, string, string, string, time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingCounter) ListUpcomingByMember(context.Context, string, string, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingCounter) ListByProvider(context.Context, string, string, time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingCounter) ListByClient(context.Context, string, string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingCounter) CountFutureActiveByMember(context.Context, string, string, time.Time) (int64, error) {
	return f.futureActive, nil
}
func (f *fakeBookingCounter) CountByStatus(context.Context, string, time.Time, time.Time) (models.BookingStatusCounts, error) {
	return models.BookingStatusCounts{}, nil
}

type providerFixture struct {
	catalog      *fakeCatalog
	availability *fakeAvailability
	blocked      *fakeBlocked
	bookings     *fakeBookingCounter
	svc          *DefaultProviderService
}

func newProviderFixture(t *testing.T) *providerFixture {
	t.Helper()

	catalog := newFakeCatalog()
	catalog.providers["p1"] = &models.Provider{ID: "p1", Name: "Shear Genius", Email: "hi@shear.example"}
	catalog.locations["l1"] = &models.Location{ID: "l1", ProviderID: "p1", Name: "Downtown"}
	catalog.locations["l2"] = &models.Location{ID: "l2", ProviderID: "p1", Name: "Uptown"}
	catalog.members["m1"] = &models.Member{ID: "m1", ProviderID: "p1", LocationID: "l1", DisplayName: "Alex"}

	availability := &fakeAvailability{}
	blocked := &fakeBlocked{}
	bookings := &fakeBookingCounter{}

	svc := NewProviderService(catalog, availability, blocked, bookings)
	svc.Now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return &providerFixture{catalog: catalog, availability: availability, blocked: blocked, bookings: bookings, svc: svc}
}

func openWeek() WeekInput {
	var week WeekInput
	for dow := 0; dow < 7; dow++ {
		day := DayInput{DayOfWeek: dow}
		if dow >= 1 && dow <= 5 {
			day.IsOpen = true
			day.Slots = []models.TimeRange{{Start: "09:00", End: "17:00"}}
		}
		week.Days = append(week.Days, day)
	}
	return week
}

func TestSetWeeklyScheduleRoundTrip(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.svc.SetWeeklySchedule(ctx, "p1", "m1", "l1", openWeek()))

	week, err := fx.svc.GetWeeklySchedule(ctx, "p1", "m1", "l1")
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.False(t, week[0].IsOpen)
	assert.True(t, week[1].IsOpen)
	assert.Equal(t, []models.TimeRange{{Start: "09:00", End: "17:00"}}, week[1].Slots)
}

func TestSetWeeklyScheduleValidation(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	short := openWeek()
	short.Days = short.Days[:6]
	err := fx.svc.SetWeeklySchedule(ctx, "p1", "m1", "l1", short)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	dup := openWeek()
	dup.Days[6].DayOfWeek = 0
	err = fx.svc.SetWeeklySchedule(ctx, "p1", "m1", "l1", dup)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	overlapping := openWeek()
	overlapping.Days[1].Slots = []models.TimeRange{
		{Start: "09:00", End: "12:00"},
		{Start: "11:00", End: "17:00"},
	}
	err = fx.svc.SetWeeklySchedule(ctx, "p1", "m1", "l1", overlapping)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	inverted := openWeek()
	inverted.Days[1].Slots = []models.TimeRange{{Start: "17:00", End: "09:00"}}
	err = fx.svc.SetWeeklySchedule(ctx, "p1", "m1", "l1", inverted)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	unparsable := openWeek()
	unparsable.Days[1].Slots = []models.TimeRange{{Start: "9am", End: "5pm"}}
	err = fx.svc.SetWeeklySchedule(ctx, "p1", "m1", "l1", unparsable)
	assert.ErrorAs(t, err, &scheduling.ValidationError{})
}

func TestSetAvailabilitySortsRanges(t *testing.T) {
	fx := newProviderFixture(t)

	day := DayInput{
		DayOfWeek: 1,
		IsOpen:    true,
		Slots: []models.TimeRange{
			{Start: "14:00", End: "18:00"},
			{Start: "09:00", End: "12:00"},
		},
	}
	require.NoError(t, fx.svc.SetAvailability(context.Background(), "p1", "m1", "l1", day))

	require.Len(t, fx.availability.week, 1)
	assert.Equal(t, "09:00", fx.availability.week[0].Slots[0].Start)
}

func TestSetAvailabilityUnknownAgenda(t *testing.T) {
	fx := newProviderFixture(t)
	day := DayInput{DayOfWeek: 1}

	err := fx.svc.SetAvailability(context.Background(), "p1", "m1", "l2", day)
	assert.ErrorAs(t, err, &scheduling.NotFoundError{}, "member is based at l1, not l2")

	err = fx.svc.SetAvailability(context.Background(), "p1", "ghost", "l1", day)
	assert.ErrorAs(t, err, &scheduling.NotFoundError{})
}

func TestExceptionLifecycle(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	exc := ExceptionInput{Date: "2026-12-24", IsOpen: true, Slots: []models.TimeRange{{Start: "09:00", End: "13:00"}}}
	require.NoError(t, fx.svc.SetException(ctx, "p1", "m1", "l1", exc))

	listed, err := fx.svc.ListExceptions(ctx, "p1", "m1", "l1", "2026-12-01", "2026-12-31")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "2026-12-24", listed[0].Date)

	require.NoError(t, fx.svc.RemoveException(ctx, "p1", "m1", "l1", "2026-12-24"))
	// Removing again is a no-op.
	require.NoError(t, fx.svc.RemoveException(ctx, "p1", "m1", "l1", "2026-12-24"))

	err = fx.svc.SetException(ctx, "p1", "m1", "l1", ExceptionInput{Date: "christmas eve"})
	assert.ErrorAs(t, err, &scheduling.ValidationError{})
}

func TestBlockPeriodValidation(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   BlockInput
	}{
		{"inverted dates", BlockInput{StartDate: "2026-09-10", EndDate: "2026-09-09", AllDay: true}},
		{"missing times", BlockInput{StartDate: "2026-09-10", EndDate: "2026-09-10"}},
		{"inverted times", BlockInput{StartDate: "2026-09-10", EndDate: "2026-09-10", StartTime: "15:00", EndTime: "14:00"}},
		{"recurring without days", BlockInput{StartDate: "2026-09-10", EndDate: "2026-09-20", AllDay: true, IsRecurring: true}},
		{"bad recurring day", BlockInput{StartDate: "2026-09-10", EndDate: "2026-09-20", AllDay: true, IsRecurring: true, RecurringDays: []int{7}}},
	}
	for _, tc := range cases {
		_, err := fx.svc.BlockPeriod(ctx, "p1", tc.in)
		assert.ErrorAs(t, err, &scheduling.ValidationError{}, tc.name)
	}
}

func TestBlockAndUnblockPeriod(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	bp, err := fx.svc.BlockPeriod(ctx, "p1", BlockInput{
		MemberID:  "m1",
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
		AllDay:    true,
		StartTime: "09:00", // ignored for all-day blocks
		EndTime:   "17:00",
		Reason:    "vacation",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, bp.ID)
	assert.Empty(t, bp.StartTime)
	assert.Empty(t, bp.EndTime)

	listed, err := fx.svc.GetBlockedSlots(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, fx.svc.UnblockPeriod(ctx, "p1", bp.ID))
	// Unblocking twice succeeds.
	require.NoError(t, fx.svc.UnblockPeriod(ctx, "p1", bp.ID))

	listed, err = fx.svc.GetBlockedSlots(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestChangeMemberLocationRekeysSchedules(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.svc.SetWeeklySchedule(ctx, "p1", "m1", "l1", openWeek()))
	require.NoError(t, fx.svc.SetException(ctx, "p1", "m1", "l1", ExceptionInput{Date: "2026-12-24", IsOpen: false}))
	_, err := fx.svc.BlockPeriod(ctx, "p1", BlockInput{
		MemberID: "m1", LocationID: "l1",
		StartDate: "2026-09-10", EndDate: "2026-09-10", AllDay: true,
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.ChangeMemberLocation(ctx, "p1", "m1", "l2"))

	member, err := fx.catalog.GetMemberByID(ctx, "p1", "m1")
	require.NoError(t, err)
	assert.Equal(t, "l2", member.LocationID)

	week, err := fx.svc.GetWeeklySchedule(ctx, "p1", "m1", "l2")
	require.NoError(t, err)
	assert.Len(t, week, 7)

	listed, err := fx.svc.ListExceptions(ctx, "p1", "m1", "l2", "2026-12-01", "2026-12-31")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	blocked, err := fx.svc.GetBlockedSlots(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "l2", blocked[0].LocationID)

	// Unknown target location is rejected.
	err = fx.svc.ChangeMemberLocation(ctx, "p1", "m1", "l9")
	assert.ErrorAs(t, err, &scheduling.NotFoundError{})
}

func TestDeleteMemberGuard(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	fx.bookings.futureActive = 2
	err := fx.svc.DeleteMember(ctx, "p1", "m1")
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	fx.bookings.futureActive = 0
	require.NoError(t, fx.svc.DeleteMember(ctx, "p1", "m1"))

	err = fx.svc.DeleteMember(ctx, "p1", "m1")
	assert.ErrorAs(t, err, &scheduling.NotFoundError{})
}

func TestCreateServiceValidation(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateService(ctx, &models.Service{ProviderID: "p1", Name: "Blink", DurationMinutes: 2})
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	_, err = fx.svc.CreateService(ctx, &models.Service{ProviderID: "p1", Name: "Epic", DurationMinutes: 500})
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	_, err = fx.svc.CreateService(ctx, &models.Service{ProviderID: "p1", Name: "Cheap", DurationMinutes: 30, PriceMinor: -1})
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	svc, err := fx.svc.CreateService(ctx, &models.Service{ProviderID: "p1", Name: "Cut", DurationMinutes: 45, PriceMinor: 3000})
	require.NoError(t, err)
	assert.NotEmpty(t, svc.ID)
}

func TestUpdateSettingsValidation(t *testing.T) {
	fx := newProviderFixture(t)
	ctx := context.Background()

	err := fx.svc.UpdateSettings(ctx, "p1", models.ProviderSettings{Timezone: "Mars/Olympus"})
	assert.ErrorAs(t, err, &scheduling.ValidationError{})

	err = fx.svc.UpdateSettings(ctx, "p1", models.ProviderSettings{Timezone: "Europe/Paris", SlotIntervalMinutes: 15})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", fx.catalog.providers["p1"].Settings.Timezone)
}
