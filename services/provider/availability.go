package provider

import (
	"context"
	"sort"
	"time"

	"agendly/models"
	"agendly/services/scheduling"
)

// SetAvailability writes one day of a weekly template.
func (s *DefaultProviderService) SetAvailability(ctx context.Context, providerID, memberID, locationID string, day DayInput) error {
	if err := s.checkAgenda(ctx, providerID, memberID, locationID); err != nil {
		return err
	}
	if err := validateDay(day); err != nil {
		return err
	}
	rec := models.Availability{
		ProviderID: providerID,
		MemberID:   memberID,
		LocationID: locationID,
		DayOfWeek:  day.DayOfWeek,
		IsOpen:     day.IsOpen,
		Slots:      normalizeRanges(day.Slots),
	}
	if err := s.AvailabilityRepo.UpsertDay(ctx, rec); err != nil {
		return scheduling.PersistenceError{Op: "upsert availability day", Err: err}
	}
	return nil
}

// SetWeeklySchedule replaces all 7 days of an agenda's template in one
// transaction. The input must cover each day of week exactly once.
func (s *DefaultProviderService) SetWeeklySchedule(ctx context.Context, providerID, memberID, locationID string, week WeekInput) error {
	if err := s.checkAgenda(ctx, providerID, memberID, locationID); err != nil {
		return err
	}
	if len(week.Days) != 7 {
		return scheduling.NewValidationError("weekly schedule must cover all 7 days, got %d", len(week.Days))
	}
	seen := make(map[int]bool, 7)
	records := make([]models.Availability, 0, 7)
	for _, day := range week.Days {
		if err := validateDay(day); err != nil {
			return err
		}
		if seen[day.DayOfWeek] {
			return scheduling.NewValidationError("day of week %d appears more than once", day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true
		records = append(records, models.Availability{
			ProviderID: providerID,
			MemberID:   memberID,
			LocationID: locationID,
			DayOfWeek:  day.DayOfWeek,
			IsOpen:     day.IsOpen,
			Slots:      normalizeRanges(day.Slots),
		})
	}
	if err := s.AvailabilityRepo.ReplaceWeek(ctx, providerID, memberID, locationID, records); err != nil {
		return scheduling.PersistenceError{Op: "replace weekly schedule", Err: err}
	}
	return nil
}

// GetWeeklySchedule returns the stored weekly template, sorted by day of
// week. Days never written are absent and read as closed.
func (s *DefaultProviderService) GetWeeklySchedule(ctx context.Context, providerID, memberID, locationID string) ([]models.Availability, error) {
	if err := s.checkAgenda(ctx, providerID, memberID, locationID); err != nil {
		return nil, err
	}
	week, err := s.AvailabilityRepo.GetWeek(ctx, providerID, locationID, memberID)
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "load weekly schedule", Err: err}
	}
	sort.Slice(week, func(i, j int) bool { return week[i].DayOfWeek < week[j].DayOfWeek })
	return week, nil
}

// SetException overrides one calendar date of an agenda.
func (s *DefaultProviderService) SetException(ctx context.Context, providerID, memberID, locationID string, exc ExceptionInput) error {
	if err := s.checkAgenda(ctx, providerID, memberID, locationID); err != nil {
		return err
	}
	if _, err := time.Parse(scheduling.DateLayout, exc.Date); err != nil {
		return scheduling.NewValidationError("invalid date %q", exc.Date)
	}
	if exc.IsOpen {
		if err := validateRanges(exc.Slots); err != nil {
			return err
		}
	}
	rec := models.ExceptionSlot{
		ProviderID: providerID,
		MemberID:   memberID,
		LocationID: locationID,
		Date:       exc.Date,
		IsOpen:     exc.IsOpen,
		Slots:      normalizeRanges(exc.Slots),
	}
	if err := s.AvailabilityRepo.UpsertException(ctx, rec); err != nil {
		return scheduling.PersistenceError{Op: "upsert exception", Err: err}
	}
	return nil
}

// RemoveException deletes a date override, restoring the weekly template
// for that date. Removing an absent override succeeds.
func (s *DefaultProviderService) RemoveException(ctx context.Context, providerID, memberID, locationID, date string) error {
	if err := s.checkAgenda(ctx, providerID, memberID, locationID); err != nil {
		return err
	}
	if _, err := time.Parse(scheduling.DateLayout, date); err != nil {
		return scheduling.NewValidationError("invalid date %q", date)
	}
	if err := s.AvailabilityRepo.DeleteException(ctx, providerID, memberID, locationID, date); err != nil {
		return scheduling.PersistenceError{Op: "delete exception", Err: err}
	}
	return nil
}

// ListExceptions returns the date overrides of an agenda in [fromDate, toDate].
func (s *DefaultProviderService) ListExceptions(ctx context.Context, providerID, memberID, locationID, fromDate, toDate string) ([]models.ExceptionSlot, error) {
	if err := s.checkAgenda(ctx, providerID, memberID, locationID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(scheduling.DateLayout, fromDate); err != nil {
		return nil, scheduling.NewValidationError("invalid fromDate %q", fromDate)
	}
	if _, err := time.Parse(scheduling.DateLayout, toDate); err != nil {
		return nil, scheduling.NewValidationError("invalid toDate %q", toDate)
	}
	out, err := s.AvailabilityRepo.ListExceptions(ctx, providerID, memberID, locationID, fromDate, toDate)
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "list exceptions", Err: err}
	}
	return out, nil
}

// checkAgenda verifies the (member, location) pair addresses a real agenda
// of the provider.
func (s *DefaultProviderService) checkAgenda(ctx context.Context, providerID, memberID, locationID string) error {
	if _, err := s.CatalogRepo.GetLocationByID(ctx, providerID, locationID); err != nil {
		return asCatalogErr(err, "location", locationID)
	}
	if memberID == "" {
		return nil
	}
	member, err := s.CatalogRepo.GetMemberByID(ctx, providerID, memberID)
	if err != nil {
		return asCatalogErr(err, "member", memberID)
	}
	if member.LocationID != locationID {
		return scheduling.NotFoundError{Resource: "member", ID: memberID}
	}
	return nil
}

func validateDay(day DayInput) error {
	if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
		return scheduling.NewValidationError("dayOfWeek must be 0..6, got %d", day.DayOfWeek)
	}
	if !day.IsOpen {
		return nil
	}
	return validateRanges(day.Slots)
}

// validateRanges requires every range to parse, end after start, and the
// set to be mutually disjoint.
func validateRanges(slots []models.TimeRange) error {
	parsed := make([]scheduling.Interval, 0, len(slots))
	for _, tr := range slots {
		start, err := scheduling.ParseMinuteOfDay(tr.Start)
		if err != nil {
			return scheduling.NewValidationError("invalid time %q", tr.Start)
		}
		end, err := scheduling.ParseMinuteOfDay(tr.End)
		if err != nil {
			return scheduling.NewValidationError("invalid time %q", tr.End)
		}
		if end <= start {
			return scheduling.NewValidationError("range %s-%s must end after it starts", tr.Start, tr.End)
		}
		parsed = append(parsed, scheduling.Interval{Start: start, End: end})
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Start < parsed[j].Start })
	for i := 1; i < len(parsed); i++ {
		if parsed[i].Start < parsed[i-1].End {
			return scheduling.NewValidationError("availability ranges must not overlap")
		}
	}
	return nil
}

// normalizeRanges stores ranges sorted by start.
func normalizeRanges(slots []models.TimeRange) []models.TimeRange {
	out := make([]models.TimeRange, len(slots))
	copy(out, slots)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
