package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	agendaRepo "agendly/database/repository/agenda"
	bookingRepo "agendly/database/repository/booking"
	"agendly/models"
	"agendly/services/scheduling"
	"agendly/utils"
)

// ConfirmBooking transitions pending -> confirmed.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, providerID, bookingID)
	if err != nil {
		return nil, err
	}
	err = s.BookingRepo.SetStatus(ctx, providerID, bookingID,
		[]string{models.BookingStatusPending}, models.BookingStatusConfirmed)
	if err != nil {
		return nil, s.transitionErr(ctx, err, providerID, bookingID, models.BookingStatusConfirmed)
	}
	b.Status = models.BookingStatusConfirmed
	utils.GetLogger().Info("booking confirmed",
		zap.String("provider_id", providerID), zap.String("booking_id", bookingID))
	return b, nil
}

// CancelBooking transitions an active booking to cancelled and releases its
// agenda hold so the slot opens up again.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, providerID, bookingID, cancelledBy, reason string) (*models.Booking, error) {
	if cancelledBy != CancelledByClient && cancelledBy != CancelledByProvider {
		return nil, scheduling.NewValidationError("cancelledBy must be %q or %q", CancelledByClient, CancelledByProvider)
	}
	b, err := s.getBooking(ctx, providerID, bookingID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	err = s.BookingRepo.SetCancelled(ctx, providerID, bookingID,
		[]string{models.BookingStatusPending, models.BookingStatusConfirmed},
		cancelledBy, reason, now)
	if err != nil {
		return nil, s.transitionErr(ctx, err, providerID, bookingID, models.BookingStatusCancelled)
	}

	s.releaseHold(ctx, b)

	b.Status = models.BookingStatusCancelled
	b.CancelledBy = cancelledBy
	b.CancelReason = reason
	b.CancelledAt = &now
	utils.GetLogger().Info("booking cancelled",
		zap.String("provider_id", providerID),
		zap.String("booking_id", bookingID),
		zap.String("cancelled_by", cancelledBy))
	return b, nil
}

// CancelBookingByToken is the unauthenticated client cancellation path.
// Unknown tokens and tokens of already-inactive bookings both surface as
// not found, so the endpoint leaks nothing about past bookings.
func (s *DefaultBookingService) CancelBookingByToken(ctx context.Context, token, reason string) (*models.Booking, error) {
	if token == "" {
		return nil, scheduling.NotFoundError{Resource: "booking", ID: ""}
	}
	b, err := s.BookingRepo.GetActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, scheduling.NotFoundError{Resource: "booking", ID: ""}
		}
		return nil, scheduling.PersistenceError{Op: "resolve cancel token", Err: err}
	}
	cancelled, err := s.CancelBooking(ctx, b.ProviderID, b.ID, CancelledByClient, reason)
	if err != nil {
		// The booking raced into an inactive state between lookup and cancel.
		var stateErr scheduling.InvalidStateError
		if errors.As(err, &stateErr) {
			return nil, scheduling.NotFoundError{Resource: "booking", ID: ""}
		}
		return nil, err
	}
	return cancelled, nil
}

// RescheduleBooking moves an active booking to a new start. The new hold is
// claimed before the old one is released, so the booking is never
// unprotected; the overlap check excludes the booking's own current hold so
// it may move onto an adjacent or overlapping time.
func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, providerID, bookingID string, newDatetime time.Time) (*RescheduleResult, error) {
	if newDatetime.IsZero() {
		return nil, scheduling.NewValidationError("newDatetime is required")
	}
	b, err := s.getBooking(ctx, providerID, bookingID)
	if err != nil {
		return nil, err
	}
	if !models.IsActiveBookingStatus(b.Status) {
		return nil, scheduling.InvalidStateError{Current: b.Status, Requested: "reschedule"}
	}

	provider, err := s.CatalogRepo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, asCatalogErr(err, "provider", providerID)
	}
	loc := scheduling.ProviderLocation(provider)
	scope := bookingScope(b)

	available, err := s.Engine.IsSlotAvailable(ctx, scheduling.SlotCheck{
		ProviderID:       providerID,
		LocationID:       b.LocationID,
		Scope:            scope,
		Datetime:         newDatetime,
		DurationMinutes:  b.DurationMinutes,
		ExcludeBookingID: b.ID,
	})
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, scheduling.SlotUnavailableError{Reason: "the requested slot is not available"}
	}

	oldDate, oldStart, _, _ := holdBounds(b, loc)
	oldDatetime := b.Datetime

	newLocal := newDatetime.In(loc)
	newDate := scheduling.DateOf(newLocal, loc)
	newStart := scheduling.MinuteOfDay(newLocal, loc)
	newServiceEnd := newStart + b.DurationMinutes

	hold := agendaRepo.Hold{
		BookingID:  b.ID,
		MemberID:   b.MemberID,
		Start:      newStart,
		ServiceEnd: newServiceEnd,
		End:        newServiceEnd + b.BufferMinutes,
	}
	if err := s.AgendaRepo.Reserve(ctx, providerID, b.LocationID, newDate, hold, b.ID); err != nil {
		if errors.Is(err, agendaRepo.ErrHoldConflict) {
			return nil, scheduling.SlotUnavailableError{Reason: "the requested slot was just taken"}
		}
		return nil, scheduling.PersistenceError{Op: "reserve agenda hold", Err: err}
	}

	newEndDatetime := newLocal.Add(time.Duration(b.DurationMinutes) * time.Minute)
	err = s.BookingRepo.SetTimes(ctx, providerID, bookingID,
		[]string{models.BookingStatusPending, models.BookingStatusConfirmed},
		newLocal, newEndDatetime)
	if err != nil {
		// Undo the new hold; the booking keeps its old time and hold.
		if relErr := s.AgendaRepo.Release(ctx, providerID, b.LocationID, newDate, b.ID, newStart); relErr != nil {
			utils.GetLogger().Error("failed to release hold after aborted reschedule",
				zap.String("booking_id", b.ID), zap.Error(relErr))
		}
		return nil, s.transitionErr(ctx, err, providerID, bookingID, "rescheduled")
	}

	// Release keys on (bookingID, start), so the already-claimed new hold at
	// a different start survives this.
	if newDate != oldDate || newStart != oldStart {
		if relErr := s.AgendaRepo.Release(ctx, providerID, b.LocationID, oldDate, b.ID, oldStart); relErr != nil {
			utils.GetLogger().Error("failed to release previous hold after reschedule",
				zap.String("booking_id", b.ID), zap.Error(relErr))
		}
	}

	b.Datetime = newLocal
	b.EndDatetime = newEndDatetime
	utils.GetLogger().Info("booking rescheduled",
		zap.String("provider_id", providerID),
		zap.String("booking_id", bookingID),
		zap.Time("from", oldDatetime),
		zap.Time("to", newLocal))
	return &RescheduleResult{Booking: b, OldDatetime: oldDatetime, NewDatetime: newLocal}, nil
}

// CompleteBooking transitions confirmed -> completed and stamps the review
// request exactly once across retries.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, providerID, bookingID string) (*CompleteResult, error) {
	b, err := s.getBooking(ctx, providerID, bookingID)
	if err != nil {
		return nil, err
	}
	err = s.BookingRepo.SetStatus(ctx, providerID, bookingID,
		[]string{models.BookingStatusConfirmed}, models.BookingStatusCompleted)
	if err != nil {
		return nil, s.transitionErr(ctx, err, providerID, bookingID, models.BookingStatusCompleted)
	}
	b.Status = models.BookingStatusCompleted

	first, err := s.BookingRepo.MarkReviewRequested(ctx, providerID, bookingID, s.now())
	if err != nil {
		utils.GetLogger().Error("failed to stamp review request",
			zap.String("booking_id", bookingID), zap.Error(err))
		first = false
	}
	utils.GetLogger().Info("booking completed",
		zap.String("provider_id", providerID),
		zap.String("booking_id", bookingID),
		zap.Bool("review_requested", first))
	return &CompleteResult{Booking: b, ReviewRequested: first}, nil
}

// MarkNoShow transitions confirmed -> noshow.
func (s *DefaultBookingService) MarkNoShow(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, providerID, bookingID)
	if err != nil {
		return nil, err
	}
	err = s.BookingRepo.SetStatus(ctx, providerID, bookingID,
		[]string{models.BookingStatusConfirmed}, models.BookingStatusNoShow)
	if err != nil {
		return nil, s.transitionErr(ctx, err, providerID, bookingID, models.BookingStatusNoShow)
	}
	b.Status = models.BookingStatusNoShow
	utils.GetLogger().Info("booking marked no-show",
		zap.String("provider_id", providerID), zap.String("booking_id", bookingID))
	return b, nil
}

// releaseHold frees a booking's agenda hold. Failure is logged, not
// surfaced: the booking record is already cancelled, and a stale hold only
// keeps one slot closed until cleaned up.
func (s *DefaultBookingService) releaseHold(ctx context.Context, b *models.Booking) {
	provider, err := s.CatalogRepo.GetProviderByID(ctx, b.ProviderID)
	if err != nil {
		utils.GetLogger().Error("failed to load provider while releasing hold",
			zap.String("booking_id", b.ID), zap.Error(err))
		return
	}
	loc := scheduling.ProviderLocation(provider)
	date, start, _, _ := holdBounds(b, loc)
	if err := s.AgendaRepo.Release(ctx, b.ProviderID, b.LocationID, date, b.ID, start); err != nil {
		utils.GetLogger().Error("failed to release agenda hold",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}

// transitionErr maps a failed conditional transition to the caller-facing
// error, re-reading the booking to report its actual current status.
func (s *DefaultBookingService) transitionErr(ctx context.Context, err error, providerID, bookingID, requested string) error {
	switch {
	case errors.Is(err, bookingRepo.ErrNotFound):
		return scheduling.NotFoundError{Resource: "booking", ID: bookingID}
	case errors.Is(err, bookingRepo.ErrStateConflict):
		current := "unknown"
		if b, getErr := s.BookingRepo.GetByID(ctx, providerID, bookingID); getErr == nil {
			current = b.Status
		}
		return scheduling.InvalidStateError{Current: current, Requested: requested}
	default:
		return scheduling.PersistenceError{Op: "transition booking", Err: err}
	}
}
