package models

import "time"

// Service duration bounds, in minutes.
const (
	MinServiceDuration = 5
	MaxServiceDuration = 480
)

// Service is a bookable offering. Duration and price are snapshotted onto
// bookings at creation time; later edits never rewrite history.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	ProviderID      string    `bson:"provider_id" json:"provider_id"`
	Name            string    `bson:"name" json:"name"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	// PriceMinor is the price in minor currency units (cents).
	PriceMinor int64 `bson:"price_minor" json:"price_minor"`
	// BufferMinutes is appended after the service before the next booking
	// may start.
	BufferMinutes int `bson:"buffer_minutes" json:"buffer_minutes"`
	// LocationIDs restricts where the service is offered; nil means all.
	LocationIDs []string `bson:"location_ids,omitempty" json:"location_ids,omitempty"`
	// MemberIDs restricts who performs the service; nil means all.
	MemberIDs []string  `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// OfferedAt reports whether the service may be booked at the given location.
func (s Service) OfferedAt(locationID string) bool {
	if s.LocationIDs == nil {
		return true
	}
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// PerformedBy reports whether the given member may perform this service.
func (s Service) PerformedBy(memberID string) bool {
	if s.MemberIDs == nil {
		return true
	}
	for _, id := range s.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
