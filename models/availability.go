package models

// TimeRange is a wall-clock time-of-day range within one day, "HH:mm",
// end exclusive.
type TimeRange struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// Availability is the recurring weekly template: one record per
// (provider, member, location, day-of-week). Days never written are closed.
// An empty MemberID keys a location-level agenda (no specific member).
type Availability struct {
	ProviderID string      `bson:"provider_id" json:"provider_id"`
	MemberID   string      `bson:"member_id,omitempty" json:"member_id,omitempty"`
	LocationID string      `bson:"location_id" json:"location_id"`
	DayOfWeek  int         `bson:"day_of_week" json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	IsOpen     bool        `bson:"is_open" json:"is_open"`
	Slots      []TimeRange `bson:"slots" json:"slots"`
}

// ExceptionSlot overrides the weekly template for a single calendar date.
type ExceptionSlot struct {
	ProviderID string      `bson:"provider_id" json:"provider_id"`
	MemberID   string      `bson:"member_id,omitempty" json:"member_id,omitempty"`
	LocationID string      `bson:"location_id" json:"location_id"`
	Date       string      `bson:"date" json:"date"` // "2006-01-02"
	IsOpen     bool        `bson:"is_open" json:"is_open"`
	Slots      []TimeRange `bson:"slots" json:"slots"`
}
