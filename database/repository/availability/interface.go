package availabilityRepo

import (
	"context"

	"agendly/models"
)

// AvailabilityRepository stores the weekly recurring templates and the
// per-date exception overrides. Records are keyed by
// (provider, member, location, dayOfWeek) and (provider, member, location,
// date) respectively; an empty member id keys a location-level agenda.
type AvailabilityRepository interface {
	UpsertDay(ctx context.Context, day models.Availability) error
	// ReplaceWeek swaps all 7 day records of one agenda in a single
	// transaction; readers never observe a partially-updated week.
	ReplaceWeek(ctx context.Context, providerID, memberID, locationID string, week []models.Availability) error
	GetWeek(ctx context.Context, providerID, locationID, memberID string) ([]models.Availability, error)

	UpsertException(ctx context.Context, exc models.ExceptionSlot) error
	DeleteException(ctx context.Context, providerID, memberID, locationID, date string) error
	// ListExceptions returns exception slots with date in [fromDate, toDate].
	ListExceptions(ctx context.Context, providerID, memberID, locationID, fromDate, toDate string) ([]models.ExceptionSlot, error)

	// RekeyLocation moves all weekly and exception records of a member to a
	// new location id.
	RekeyLocation(ctx context.Context, providerID, memberID, oldLocationID, newLocationID string) error
}
