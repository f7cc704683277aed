package scheduling

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"agendly/config"
	availabilityRepo "agendly/database/repository/availability"
	blockedRepo "agendly/database/repository/blocked"
	bookingRepo "agendly/database/repository/booking"
	catalogRepo "agendly/database/repository/catalog"
	"agendly/models"
	"agendly/utils"
)

const (
	// bookingFetchSlack widens the booking query window so bookings that
	// start before the queried range but occupy into it are still seen.
	bookingFetchSlack = 24 * time.Hour
	// maxQueryDays caps a single slot query range.
	maxQueryDays = 366
)

// SlotQuery asks for all open slots of one service within a date range.
type SlotQuery struct {
	ProviderID string
	ServiceID  string
	LocationID string
	Scope      Scope
	StartDate  string // "2006-01-02", inclusive
	EndDate    string // "2006-01-02", inclusive
}

// Slot is one bookable start offered to a client.
type Slot struct {
	Date        string    `json:"date"`
	Start       string    `json:"start"` // "HH:mm"
	End         string    `json:"end"`   // "HH:mm", service end without buffer
	Datetime    time.Time `json:"datetime"`
	EndDatetime time.Time `json:"end_datetime"`
}

// SlotCheck asks whether one concrete start is bookable right now. The
// candidate is checked as its bare service interval; buffers belong to the
// bookings already on the schedule, never to the candidate.
type SlotCheck struct {
	ProviderID      string
	LocationID      string
	Scope           Scope
	Datetime        time.Time
	DurationMinutes int
	// ExcludeBookingID ignores one existing booking, so a reschedule does
	// not collide with the slot it is vacating.
	ExcludeBookingID string
}

// SchedulingEngine computes open slots from the weekly templates,
// exceptions, blocked periods and active bookings of one agenda.
type SchedulingEngine interface {
	GetAvailableSlots(ctx context.Context, q SlotQuery) ([]Slot, error)
	IsSlotAvailable(ctx context.Context, c SlotCheck) (bool, error)
}

// DefaultSchedulingEngine is the repository-backed engine.
type DefaultSchedulingEngine struct {
	CatalogRepo      catalogRepo.CatalogRepository
	AvailabilityRepo availabilityRepo.AvailabilityRepository
	BlockedRepo      blockedRepo.BlockedRepository
	BookingRepo      bookingRepo.BookingRepository

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

// NewSchedulingEngine wires the default engine.
func NewSchedulingEngine(
	catalog catalogRepo.CatalogRepository,
	availability availabilityRepo.AvailabilityRepository,
	blocked blockedRepo.BlockedRepository,
	bookings bookingRepo.BookingRepository,
) *DefaultSchedulingEngine {
	return &DefaultSchedulingEngine{
		CatalogRepo:      catalog,
		AvailabilityRepo: availability,
		BlockedRepo:      blocked,
		BookingRepo:      bookings,
	}
}

func (e *DefaultSchedulingEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// GetAvailableSlots walks each date in the range, overlays exceptions on
// the weekly template, carves out blocked periods and occupied bookings,
// and emits candidate starts on the provider's slot interval grid. Slots
// whose start is not strictly in the future are dropped.
func (e *DefaultSchedulingEngine) GetAvailableSlots(ctx context.Context, q SlotQuery) ([]Slot, error) {
	logger := utils.GetLogger().With(
		zap.String("provider_id", q.ProviderID),
		zap.String("service_id", q.ServiceID),
		zap.String("agenda", q.Scope.Key(q.LocationID)),
	)

	provider, err := e.loadProvider(ctx, q.ProviderID)
	if err != nil {
		return nil, err
	}
	loc := ProviderLocation(provider)

	startDay, err := ParseDate(q.StartDate, loc)
	if err != nil {
		return nil, NewValidationError("invalid startDate %q", q.StartDate)
	}
	endDay, err := ParseDate(q.EndDate, loc)
	if err != nil {
		return nil, NewValidationError("invalid endDate %q", q.EndDate)
	}
	if startDay.After(endDay) {
		return []Slot{}, nil
	}
	if endDay.Sub(startDay) > maxQueryDays*24*time.Hour {
		return nil, NewValidationError("date range exceeds %d days", maxQueryDays)
	}

	service, err := e.CatalogRepo.GetServiceByID(ctx, q.ProviderID, q.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, NotFoundError{Resource: "service", ID: q.ServiceID}
		}
		return nil, PersistenceError{Op: "load service", Err: err}
	}
	if !service.OfferedAt(q.LocationID) {
		return nil, NotFoundError{Resource: "service", ID: q.ServiceID}
	}
	if memberID, ok := q.Scope.MemberID(); ok && !service.PerformedBy(memberID) {
		return nil, NotFoundError{Resource: "service", ID: q.ServiceID}
	}

	if err := e.checkLocationAndMember(ctx, q.ProviderID, q.LocationID, q.Scope, q.ServiceID); err != nil {
		return nil, err
	}

	sched, err := e.loadSchedule(ctx, q.ProviderID, q.LocationID, q.Scope, loc, startDay, endDay.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	interval := provider.Settings.SlotIntervalMinutes
	if interval <= 0 {
		interval = config.AppConfig.SlotIntervalMinutes
	}
	if interval <= 0 {
		interval = 30
	}
	duration := service.DurationMinutes

	now := e.now()
	var slots []Slot
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		date := DateOf(day, loc)
		open := sched.templateFor(date, day)
		if len(open) == 0 {
			continue
		}
		blocks, allDay := sched.blocksFor(date, day)
		if allDay {
			continue
		}
		for _, rng := range open {
			for start := rng.Start; start+duration <= rng.End; start += interval {
				cand := Interval{Start: start, End: start + duration}
				if overlapsAny(cand, blocks) {
					continue
				}
				candStart, err := ToDatetime(date, start, loc)
				if err != nil {
					continue
				}
				candEnd := candStart.Add(time.Duration(duration) * time.Minute)
				if sched.occupied(candStart, candEnd, "") {
					continue
				}
				if !candStart.After(now) {
					continue
				}
				slots = append(slots, Slot{
					Date:        date,
					Start:       FormatMinuteOfDay(cand.Start),
					End:         FormatMinuteOfDay(cand.End),
					Datetime:    candStart,
					EndDatetime: candEnd,
				})
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Datetime.Before(slots[j].Datetime) })
	logger.Debug("computed available slots", zap.Int("count", len(slots)))
	return slots, nil
}

// IsSlotAvailable re-validates one concrete start against the full
// schedule. Unlike GetAvailableSlots it does not require the start to sit
// on the slot interval grid.
func (e *DefaultSchedulingEngine) IsSlotAvailable(ctx context.Context, c SlotCheck) (bool, error) {
	if c.DurationMinutes <= 0 {
		return false, NewValidationError("duration must be positive")
	}

	provider, err := e.loadProvider(ctx, c.ProviderID)
	if err != nil {
		return false, err
	}
	loc := ProviderLocation(provider)

	local := c.Datetime.In(loc)
	if !local.After(e.now()) {
		return false, nil
	}

	date := DateOf(local, loc)
	day, err := ParseDate(date, loc)
	if err != nil {
		return false, NewValidationError("invalid datetime")
	}
	sched, err := e.loadSchedule(ctx, c.ProviderID, c.LocationID, c.Scope, loc, day, day.Add(24*time.Hour))
	if err != nil {
		return false, err
	}

	cand := Interval{
		Start: MinuteOfDay(local, loc),
		End:   MinuteOfDay(local, loc) + c.DurationMinutes,
	}

	open := sched.templateFor(date, day)
	contained := false
	for _, rng := range open {
		if rng.Contains(cand) {
			contained = true
			break
		}
	}
	if !contained {
		return false, nil
	}

	blocks, allDay := sched.blocksFor(date, day)
	if allDay || overlapsAny(cand, blocks) {
		return false, nil
	}

	end := local.Add(time.Duration(c.DurationMinutes) * time.Minute)
	if sched.occupied(local, end, c.ExcludeBookingID) {
		return false, nil
	}
	return true, nil
}

func (e *DefaultSchedulingEngine) loadProvider(ctx context.Context, providerID string) (*models.Provider, error) {
	provider, err := e.CatalogRepo.GetProviderByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, NotFoundError{Resource: "provider", ID: providerID}
		}
		return nil, PersistenceError{Op: "load provider", Err: err}
	}
	return provider, nil
}

func (e *DefaultSchedulingEngine) checkLocationAndMember(ctx context.Context, providerID, locationID string, scope Scope, serviceID string) error {
	if _, err := e.CatalogRepo.GetLocationByID(ctx, providerID, locationID); err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return NotFoundError{Resource: "location", ID: locationID}
		}
		return PersistenceError{Op: "load location", Err: err}
	}
	memberID, ok := scope.MemberID()
	if !ok {
		return nil
	}
	member, err := e.CatalogRepo.GetMemberByID(ctx, providerID, memberID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return NotFoundError{Resource: "member", ID: memberID}
		}
		return PersistenceError{Op: "load member", Err: err}
	}
	if member.LocationID != locationID {
		return NotFoundError{Resource: "member", ID: memberID}
	}
	if !member.CanPerform(serviceID) {
		return NotFoundError{Resource: "service", ID: serviceID}
	}
	return nil
}

// schedule is the in-memory overlay of one agenda for a date window.
type schedule struct {
	loc        *time.Location
	locationID string
	scope      Scope

	week       map[int]models.Availability
	exceptions map[string]models.ExceptionSlot
	blocked    []models.BlockedPeriod
	bookings   []models.Booking
}

func (e *DefaultSchedulingEngine) loadSchedule(ctx context.Context, providerID, locationID string, scope Scope, loc *time.Location, from, to time.Time) (*schedule, error) {
	memberID, _ := scope.MemberID()

	week, err := e.AvailabilityRepo.GetWeek(ctx, providerID, locationID, memberID)
	if err != nil {
		return nil, PersistenceError{Op: "load weekly availability", Err: err}
	}
	weekByDay := make(map[int]models.Availability, len(week))
	for _, day := range week {
		weekByDay[day.DayOfWeek] = day
	}

	excs, err := e.AvailabilityRepo.ListExceptions(ctx, providerID, memberID, locationID, DateOf(from, loc), DateOf(to.Add(-time.Minute), loc))
	if err != nil {
		return nil, PersistenceError{Op: "load exceptions", Err: err}
	}
	excByDate := make(map[string]models.ExceptionSlot, len(excs))
	for _, exc := range excs {
		excByDate[exc.Date] = exc
	}

	blocked, err := e.BlockedRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, PersistenceError{Op: "load blocked periods", Err: err}
	}

	bookings, err := e.BookingRepo.ListActiveInRange(ctx, providerID, memberID, locationID,
		from.Add(-bookingFetchSlack), to.Add(bookingFetchSlack))
	if err != nil {
		return nil, PersistenceError{Op: "load bookings", Err: err}
	}

	return &schedule{
		loc:        loc,
		locationID: locationID,
		scope:      scope,
		week:       weekByDay,
		exceptions: excByDate,
		blocked:    blocked,
		bookings:   bookings,
	}, nil
}

// templateFor returns the open ranges of one date: the exception override
// when present, the weekly template otherwise. Days never written are closed.
func (s *schedule) templateFor(date string, day time.Time) []Interval {
	if exc, ok := s.exceptions[date]; ok {
		if !exc.IsOpen {
			return nil
		}
		return parseRanges(exc.Slots)
	}
	tpl, ok := s.week[int(day.Weekday())]
	if !ok || !tpl.IsOpen {
		return nil
	}
	return parseRanges(tpl.Slots)
}

// parseRanges converts stored "HH:mm" ranges to minute intervals, dropping
// any it cannot parse.
func parseRanges(slots []models.TimeRange) []Interval {
	out := make([]Interval, 0, len(slots))
	for _, tr := range slots {
		start, err := ParseMinuteOfDay(tr.Start)
		if err != nil {
			utils.GetLogger().Warn("skipping unparsable availability range", zap.String("start", tr.Start))
			continue
		}
		end, err := ParseMinuteOfDay(tr.End)
		if err != nil {
			utils.GetLogger().Warn("skipping unparsable availability range", zap.String("end", tr.End))
			continue
		}
		if end <= start {
			continue
		}
		out = append(out, Interval{Start: start, End: end})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// blocksFor returns the timed block intervals applying to one date, and
// whether an all-day block closes the date entirely.
func (s *schedule) blocksFor(date string, day time.Time) ([]Interval, bool) {
	memberID, scoped := s.scope.MemberID()
	var timed []Interval
	for _, bp := range s.blocked {
		if date < bp.StartDate || date > bp.EndDate {
			continue
		}
		if bp.MemberID != "" && (!scoped || bp.MemberID != memberID) {
			continue
		}
		if bp.LocationID != "" && bp.LocationID != s.locationID {
			continue
		}
		if bp.IsRecurring && !containsInt(bp.RecurringDays, int(day.Weekday())) {
			continue
		}
		if bp.AllDay {
			return nil, true
		}
		start, err1 := ParseMinuteOfDay(bp.StartTime)
		end, err2 := ParseMinuteOfDay(bp.EndTime)
		if err1 != nil || err2 != nil || end <= start {
			utils.GetLogger().Warn("skipping unparsable blocked period", zap.String("blocked_id", bp.ID))
			continue
		}
		timed = append(timed, Interval{Start: start, End: end})
	}
	return timed, false
}

// occupied reports whether any active booking intersects [start, end).
// A booking occupies until its end plus buffer, so a candidate may end
// exactly at a booking's start but may not begin before its buffer clears.
func (s *schedule) occupied(start, end time.Time, excludeBookingID string) bool {
	for _, b := range s.bookings {
		if excludeBookingID != "" && b.ID == excludeBookingID {
			continue
		}
		if b.Datetime.Before(end) && b.OccupiedUntil().After(start) {
			return true
		}
	}
	return false
}

func overlapsAny(iv Interval, blocks []Interval) bool {
	for _, b := range blocks {
		if iv.Overlaps(b) {
			return true
		}
	}
	return false
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// ProviderLocation resolves the provider's IANA timezone, falling back to
// the configured default and then UTC when the zone cannot be loaded.
func ProviderLocation(provider *models.Provider) *time.Location {
	name := provider.Settings.Timezone
	if name == "" {
		name = config.AppConfig.SchedulingTimezone
	}
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		utils.GetLogger().Warn("unknown provider timezone, using UTC",
			zap.String("provider_id", provider.ID), zap.String("timezone", name))
		return time.UTC
	}
	return loc
}
