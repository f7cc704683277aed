package models

import "time"

// Member is a bookable staff identity. A member belongs to exactly one
// location: one member, one agenda.
type Member struct {
	ID          string    `bson:"id" json:"id"`
	ProviderID  string    `bson:"provider_id" json:"provider_id"`
	LocationID  string    `bson:"location_id" json:"location_id"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	// ServiceIDs restricts which services this member performs; nil means all.
	ServiceIDs []string  `bson:"service_ids,omitempty" json:"service_ids,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// CanPerform reports whether the member is eligible for the given service.
func (m Member) CanPerform(serviceID string) bool {
	if m.ServiceIDs == nil {
		return true
	}
	for _, id := range m.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
