package agendaRepo

import (
	"context"
	"errors"
)

// ErrHoldConflict is returned when a reservation overlaps an existing hold.
// It is the expected outcome for the loser of a booking race.
var ErrHoldConflict = errors.New("agenda hold conflict")

// Hold is one reserved interval on an agenda day. ServiceEnd is where the
// service itself ends; End extends it by the buffer. An incoming hold is
// matched by its bare service interval against the buffered End of holds
// already on the day, so a new booking may end exactly where an existing
// one starts, while the existing booking's trailing buffer still pushes
// later arrivals out.
type Hold struct {
	BookingID string `bson:"booking_id" json:"booking_id"`
	// MemberID is empty for location-level holds. A location-level hold
	// contends with every hold on the day; a member hold contends with
	// location-level holds and with its own member's holds only.
	MemberID   string `bson:"member_id" json:"member_id"`
	Start      int    `bson:"start" json:"start"` // minutes from local midnight
	ServiceEnd int    `bson:"service_end" json:"service_end"`
	End        int    `bson:"end" json:"end"` // ServiceEnd plus buffer, exclusive
}

// AgendaRepository is the slot-exclusivity guard: one document per
// (provider, location, date) holding that day's reserved intervals for
// every member and for the location itself. Reserve is a single
// conditional read-modify-write, so two concurrent bookings for
// contending intervals cannot both succeed, whichever scope each was
// taken under.
type AgendaRepository interface {
	// Reserve atomically appends the hold unless a contending hold already
	// exists, in which case ErrHoldConflict is returned. Holds whose booking
	// id equals excludeBookingID are ignored during the overlap check (used
	// when rescheduling a booking over its own previous time).
	Reserve(ctx context.Context, providerID, locationID, date string, hold Hold, excludeBookingID string) error
	// Release removes the hold for (bookingID, start). Idempotent.
	Release(ctx context.Context, providerID, locationID, date, bookingID string, start int) error
}
