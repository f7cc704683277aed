package bookingRepo

import (
	"context"
	"errors"
	"time"

	"agendly/models"
)

var (
	// ErrNotFound is returned when no booking matches the lookup.
	ErrNotFound = errors.New("booking not found")
	// ErrStateConflict is returned when a conditional transition matched no
	// document because the booking is no longer in the expected status.
	ErrStateConflict = errors.New("booking is not in the expected status")
)

// BookingRepository is the authoritative booking record store. Status
// transitions are conditional writes guarded by the expected current
// status, so concurrent transitions cannot interleave. Bookings are never
// deleted.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	// GetActiveByToken resolves a cancel token to its pending or confirmed
	// booking. Cancelled/terminal bookings resolve to ErrNotFound.
	GetActiveByToken(ctx context.Context, token string) (*models.Booking, error)

	// SetStatus transitions the booking to `to` only while its current
	// status is one of `from`.
	SetStatus(ctx context.Context, providerID, bookingID string, from []string, to string) error
	// SetCancelled transitions to cancelled and records who/why/when.
	SetCancelled(ctx context.Context, providerID, bookingID string, from []string, cancelledBy, reason string, at time.Time) error
	// SetTimes rewrites datetime/endDatetime in place (reschedule).
	SetTimes(ctx context.Context, providerID, bookingID string, from []string, start, end time.Time) error
	// MarkReviewRequested stamps reviewRequestSentAt once; reports whether
	// this call was the first.
	MarkReviewRequested(ctx context.Context, providerID, bookingID string, at time.Time) (bool, error)

	// ListActiveInRange returns pending/confirmed bookings for the scope
	// whose [datetime, endDatetime) intersects [from, to). An empty memberID
	// selects every booking at the location, member-assigned ones included;
	// a memberID selects that member's bookings plus the member-less ones
	// at the location.
	ListActiveInRange(ctx context.Context, providerID, memberID, locationID string, from, to time.Time) ([]models.Booking, error)
	ListUpcomingByMember(ctx context.Context, providerID, memberID string, from time.Time) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID, status string, from, to time.Time) ([]models.Booking, error)
	ListByClient(ctx context.Context, providerID, clientID string) ([]models.Booking, error)
	CountFutureActiveByMember(ctx context.Context, providerID, memberID string, from time.Time) (int64, error)
	CountByStatus(ctx context.Context, providerID string, from, to time.Time) (models.BookingStatusCounts, error)
}
