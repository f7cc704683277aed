package models

import "time"

// Location is a physical or virtual place of business owned by a provider.
type Location struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	Name       string    `bson:"name" json:"name"`
	Address    string    `bson:"address,omitempty" json:"address,omitempty"`
	City       string    `bson:"city,omitempty" json:"city,omitempty"`
	CityOnly   bool      `bson:"city_only" json:"city_only"` // address withheld, city-only mode
	Latitude   *float64  `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude  *float64  `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Active     bool      `bson:"active" json:"active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
