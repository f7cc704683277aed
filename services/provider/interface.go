package provider

import (
	"context"

	"agendly/models"
)

// WeekInput is a full weekly template: exactly one entry per day of week.
type WeekInput struct {
	Days []DayInput
}

// DayInput is one day's template in a weekly schedule write.
type DayInput struct {
	DayOfWeek int
	IsOpen    bool
	Slots     []models.TimeRange
}

// ExceptionInput overrides one calendar date.
type ExceptionInput struct {
	Date   string // "2006-01-02"
	IsOpen bool
	Slots  []models.TimeRange
}

// BlockInput creates a blocked period.
type BlockInput struct {
	// MemberID / LocationID empty means the block applies provider-wide.
	MemberID      string `json:"memberId"`
	LocationID    string `json:"locationId"`
	StartDate     string `json:"startDate" binding:"required"` // "2006-01-02", inclusive
	EndDate       string `json:"endDate" binding:"required"`   // "2006-01-02", inclusive
	AllDay        bool   `json:"allDay"`
	StartTime     string `json:"startTime"` // "HH:mm", required when not AllDay
	EndTime       string `json:"endTime"`   // "HH:mm", required when not AllDay
	IsRecurring   bool   `json:"isRecurring"`
	RecurringDays []int  `json:"recurringDays"`
	Reason        string `json:"reason"`
}

// ProviderService is the management surface: catalog writes and the
// availability, exception and blocked-period configuration of agendas. An
// empty memberID addresses the location-level agenda throughout.
type ProviderService interface {
	CreateProvider(ctx context.Context, p *models.Provider) (*models.Provider, error)
	GetProvider(ctx context.Context, providerID string) (*models.Provider, error)
	UpdateSettings(ctx context.Context, providerID string, settings models.ProviderSettings) error

	CreateLocation(ctx context.Context, l *models.Location) (*models.Location, error)
	CreateMember(ctx context.Context, m *models.Member) (*models.Member, error)
	CreateService(ctx context.Context, svc *models.Service) (*models.Service, error)
	ListMembersByLocation(ctx context.Context, providerID, locationID string) ([]models.Member, error)

	// ChangeMemberLocation moves a member and re-keys their weekly templates,
	// exceptions and location-scoped blocks to the new location.
	ChangeMemberLocation(ctx context.Context, providerID, memberID, newLocationID string) error
	// DeleteMember refuses while the member still has future active bookings.
	DeleteMember(ctx context.Context, providerID, memberID string) error

	SetAvailability(ctx context.Context, providerID, memberID, locationID string, day DayInput) error
	// SetWeeklySchedule replaces the whole week atomically.
	SetWeeklySchedule(ctx context.Context, providerID, memberID, locationID string, week WeekInput) error
	GetWeeklySchedule(ctx context.Context, providerID, memberID, locationID string) ([]models.Availability, error)

	SetException(ctx context.Context, providerID, memberID, locationID string, exc ExceptionInput) error
	// RemoveException is idempotent.
	RemoveException(ctx context.Context, providerID, memberID, locationID, date string) error
	ListExceptions(ctx context.Context, providerID, memberID, locationID, fromDate, toDate string) ([]models.ExceptionSlot, error)

	BlockPeriod(ctx context.Context, providerID string, in BlockInput) (*models.BlockedPeriod, error)
	// UnblockPeriod is idempotent.
	UnblockPeriod(ctx context.Context, providerID, blockedID string) error
	GetBlockedSlots(ctx context.Context, providerID string) ([]models.BlockedPeriod, error)
}
