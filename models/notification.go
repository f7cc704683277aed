package models

import "time"

// Notification payloads for post-transition dispatch. The engine only
// supplies the data; delivery is the task worker's problem.

type BookingNoticePayload struct {
	BookingID    string      `json:"bookingId"`
	ProviderID   string      `json:"providerId"`
	ServiceName  string      `json:"serviceName"`
	MemberName   string      `json:"memberName,omitempty"`
	LocationName string      `json:"locationName"`
	Datetime     time.Time   `json:"datetime"`
	EndDatetime  time.Time   `json:"endDatetime"`
	PriceMinor   int64       `json:"priceMinor"`
	ClientID     string      `json:"clientId,omitempty"`
	ClientInfo   *ClientInfo `json:"clientInfo,omitempty"`
}

type ReschedulePayload struct {
	BookingNoticePayload
	OldDatetime time.Time `json:"oldDatetime"`
	NewDatetime time.Time `json:"newDatetime"`
}

type CancellationPayload struct {
	BookingNoticePayload
	CancelledBy  string `json:"cancelledBy"`
	CancelReason string `json:"cancelReason,omitempty"`
}

type ReminderPayload struct {
	BookingNoticePayload
	FireAt time.Time `json:"fireAt"`
}
