package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "agendly/database/repository/booking"
	"agendly/models"
	"agendly/services/scheduling"
)

// GetBooking returns one booking by id.
func (s *DefaultBookingService) GetBooking(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	return s.getBooking(ctx, providerID, bookingID)
}

func (s *DefaultBookingService) getBooking(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	b, err := s.BookingRepo.GetByID(ctx, providerID, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, scheduling.NotFoundError{Resource: "booking", ID: bookingID}
		}
		return nil, scheduling.PersistenceError{Op: "load booking", Err: err}
	}
	return b, nil
}

// ListProviderBookings lists a provider's bookings, optionally filtered by
// status, within [from, to).
func (s *DefaultBookingService) ListProviderBookings(ctx context.Context, providerID, status string, from, to time.Time) ([]models.Booking, error) {
	if status != "" && !validStatus(status) {
		return nil, scheduling.NewValidationError("unknown status %q", status)
	}
	out, err := s.BookingRepo.ListByProvider(ctx, providerID, status, from, to)
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "list bookings", Err: err}
	}
	return out, nil
}

// ListClientBookings lists one client's bookings at a provider.
func (s *DefaultBookingService) ListClientBookings(ctx context.Context, providerID, clientID string) ([]models.Booking, error) {
	if clientID == "" {
		return nil, scheduling.NewValidationError("clientId is required")
	}
	out, err := s.BookingRepo.ListByClient(ctx, providerID, clientID)
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "list client bookings", Err: err}
	}
	return out, nil
}

// GetBookingStats aggregates booking counts by status within [from, to).
func (s *DefaultBookingService) GetBookingStats(ctx context.Context, providerID string, from, to time.Time) (models.BookingStatusCounts, error) {
	counts, err := s.BookingRepo.CountByStatus(ctx, providerID, from, to)
	if err != nil {
		return models.BookingStatusCounts{}, scheduling.PersistenceError{Op: "count bookings", Err: err}
	}
	return counts, nil
}

func validStatus(status string) bool {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusCancelled, models.BookingStatusCompleted,
		models.BookingStatusNoShow:
		return true
	}
	return false
}
