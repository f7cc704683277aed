package models

import "time"

// BlockedPeriod is an explicit closure across a date range, independent of
// the weekly template. An empty MemberID or LocationID means the block
// applies to all members / all locations of the provider.
type BlockedPeriod struct {
	ID         string `bson:"id" json:"id"`
	ProviderID string `bson:"provider_id" json:"provider_id"`
	MemberID   string `bson:"member_id,omitempty" json:"member_id,omitempty"`
	LocationID string `bson:"location_id,omitempty" json:"location_id,omitempty"`
	StartDate  string `bson:"start_date" json:"start_date"` // "2006-01-02", inclusive
	EndDate    string `bson:"end_date" json:"end_date"`     // "2006-01-02", inclusive
	AllDay     bool   `bson:"all_day" json:"all_day"`
	// StartTime/EndTime bound the closure within each day when not AllDay.
	StartTime string `bson:"start_time,omitempty" json:"start_time,omitempty"` // "HH:mm"
	EndTime   string `bson:"end_time,omitempty" json:"end_time,omitempty"`     // "HH:mm"
	// IsRecurring limits the block to RecurringDays within the date range.
	IsRecurring   bool      `bson:"is_recurring" json:"is_recurring"`
	RecurringDays []int     `bson:"recurring_days,omitempty" json:"recurring_days,omitempty"` // 0 = Sunday .. 6 = Saturday
	Reason        string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
