package models

import "time"

// Provider represents a tenant: the business whose staff and locations
// are booked through the platform.
type Provider struct {
	ID        string           `bson:"id" json:"id"`
	Name      string           `bson:"name" json:"name"`
	Email     string           `bson:"email" json:"email"`
	Phone     string           `bson:"phone,omitempty" json:"phone,omitempty"`
	Settings  ProviderSettings `bson:"settings" json:"settings"`
	Active    bool             `bson:"active" json:"active"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
}

// ProviderSettings holds the scheduling knobs a provider controls.
type ProviderSettings struct {
	// RequiresConfirmation controls the initial booking status: when false,
	// new bookings are created directly as confirmed.
	RequiresConfirmation bool `bson:"requiresConfirmation" json:"requiresConfirmation"`
	// SlotIntervalMinutes is the granularity of candidate slot starts.
	SlotIntervalMinutes int `bson:"slotIntervalMinutes" json:"slotIntervalMinutes"`
	// Timezone is the IANA zone all wall-clock schedules are interpreted in.
	Timezone string `bson:"timezone" json:"timezone"`
}
