package booking

import (
	"context"
	"time"

	"agendly/models"
)

// Actor labels recorded on cancelled bookings.
const (
	CancelledByClient   = "client"
	CancelledByProvider = "provider"
)

// CreateBookingInput carries everything needed to create one booking.
// Exactly one of ClientID / ClientInfo must be set.
type CreateBookingInput struct {
	ProviderID string
	LocationID string
	ServiceID  string
	// MemberID empty books the location-level agenda.
	MemberID   string
	Datetime   time.Time
	ClientID   string
	ClientInfo *models.ClientInfo
}

// RescheduleResult reports both sides of a completed reschedule.
type RescheduleResult struct {
	Booking     *models.Booking
	OldDatetime time.Time
	NewDatetime time.Time
}

// CompleteResult reports a completion and whether this call was the first
// to trigger the review request.
type CompleteResult struct {
	Booking         *models.Booking
	ReviewRequested bool
}

// BookingService owns the booking lifecycle: creation against the
// scheduling engine, the status state machine, and the client-facing
// cancel-token flow.
type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)

	ConfirmBooking(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, providerID, bookingID, cancelledBy, reason string) (*models.Booking, error)
	// CancelBookingByToken cancels via the client's cancel token. Unknown and
	// already-inactive tokens are indistinguishable to the caller.
	CancelBookingByToken(ctx context.Context, token, reason string) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, providerID, bookingID string, newDatetime time.Time) (*RescheduleResult, error)
	CompleteBooking(ctx context.Context, providerID, bookingID string) (*CompleteResult, error)
	MarkNoShow(ctx context.Context, providerID, bookingID string) (*models.Booking, error)

	GetBooking(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	ListProviderBookings(ctx context.Context, providerID, status string, from, to time.Time) ([]models.Booking, error)
	ListClientBookings(ctx context.Context, providerID, clientID string) ([]models.Booking, error)
	GetBookingStats(ctx context.Context, providerID string, from, to time.Time) (models.BookingStatusCounts, error)
}
