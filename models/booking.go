package models

import "time"

// Booking status lifecycle. Pending and confirmed bookings count against
// availability; the three terminal states do not.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusNoShow    = "noshow"
)

// IsActiveBookingStatus reports whether a status still occupies its slot.
func IsActiveBookingStatus(status string) bool {
	return status == BookingStatusPending || status == BookingStatusConfirmed
}

// IsTerminalBookingStatus reports whether a status admits no further transitions.
func IsTerminalBookingStatus(status string) bool {
	switch status {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

// ClientInfo identifies a guest client booking without an account.
type ClientInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Booking is the authoritative reservation record. Display fields, price
// and duration are snapshotted from the catalog at creation time. Bookings
// are never physically deleted.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	ProviderID string `bson:"provider_id" json:"provider_id"`
	LocationID string `bson:"location_id" json:"location_id"`
	ServiceID  string `bson:"service_id" json:"service_id"`
	// MemberID is empty for location-level (member-less) bookings.
	MemberID string `bson:"member_id,omitempty" json:"member_id,omitempty"`

	// Denormalized display fields, captured at creation.
	ServiceName     string `bson:"service_name" json:"service_name"`
	LocationName    string `bson:"location_name" json:"location_name"`
	LocationAddress string `bson:"location_address,omitempty" json:"location_address,omitempty"`
	MemberName      string `bson:"member_name,omitempty" json:"member_name,omitempty"`

	Datetime        time.Time `bson:"datetime" json:"datetime"`
	EndDatetime     time.Time `bson:"end_datetime" json:"end_datetime"` // always Datetime + DurationMinutes
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	BufferMinutes   int       `bson:"buffer_minutes" json:"buffer_minutes"`
	PriceMinor      int64     `bson:"price_minor" json:"price_minor"`

	Status string `bson:"status" json:"status"`

	// Exactly one of ClientID / ClientInfo is set.
	ClientID   string      `bson:"client_id,omitempty" json:"client_id,omitempty"`
	ClientInfo *ClientInfo `bson:"client_info,omitempty" json:"client_info,omitempty"`

	// CancelToken authorizes unauthenticated self-service cancellation.
	CancelToken string `bson:"cancel_token" json:"-"`

	CancelReason string     `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CancelledBy  string     `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"` // "client" or "provider"
	CancelledAt  *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`

	ReviewRequestSentAt *time.Time `bson:"review_request_sent_at,omitempty" json:"review_request_sent_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// OccupiedUntil is the instant until which the booking blocks other
// bookings: its end plus the service buffer captured at creation.
func (b Booking) OccupiedUntil() time.Time {
	return b.EndDatetime.Add(time.Duration(b.BufferMinutes) * time.Minute)
}

// BookingStatusCounts aggregates booking outcomes for statistics.
type BookingStatusCounts struct {
	Pending   int64 `bson:"pending" json:"pending"`
	Confirmed int64 `bson:"confirmed" json:"confirmed"`
	Cancelled int64 `bson:"cancelled" json:"cancelled"`
	Completed int64 `bson:"completed" json:"completed"`
	NoShow    int64 `bson:"noshow" json:"noshow"`
}
