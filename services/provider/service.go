package provider

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	availabilityRepo "agendly/database/repository/availability"
	blockedRepo "agendly/database/repository/blocked"
	bookingRepo "agendly/database/repository/booking"
	catalogRepo "agendly/database/repository/catalog"
	"agendly/models"
	"agendly/services/scheduling"
	"agendly/utils"
)

// DefaultProviderService is the repository-backed management service.
type DefaultProviderService struct {
	CatalogRepo      catalogRepo.CatalogRepository
	AvailabilityRepo availabilityRepo.AvailabilityRepository
	BlockedRepo      blockedRepo.BlockedRepository
	BookingRepo      bookingRepo.BookingRepository

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

// NewProviderService wires the default provider service.
func NewProviderService(
	catalog catalogRepo.CatalogRepository,
	availability availabilityRepo.AvailabilityRepository,
	blocked blockedRepo.BlockedRepository,
	bookings bookingRepo.BookingRepository,
) *DefaultProviderService {
	return &DefaultProviderService{
		CatalogRepo:      catalog,
		AvailabilityRepo: availability,
		BlockedRepo:      blocked,
		BookingRepo:      bookings,
	}
}

func (s *DefaultProviderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateProvider registers a new tenant.
func (s *DefaultProviderService) CreateProvider(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	if p.Name == "" || p.Email == "" {
		return nil, scheduling.NewValidationError("provider name and email are required")
	}
	if p.Settings.Timezone != "" {
		if _, err := time.LoadLocation(p.Settings.Timezone); err != nil {
			return nil, scheduling.NewValidationError("unknown timezone %q", p.Settings.Timezone)
		}
	}
	if p.Settings.SlotIntervalMinutes < 0 {
		return nil, scheduling.NewValidationError("slotIntervalMinutes must not be negative")
	}
	p.ID = uuid.NewString()
	p.Active = true
	p.CreatedAt = s.now()
	if err := s.CatalogRepo.CreateProvider(ctx, p); err != nil {
		return nil, scheduling.PersistenceError{Op: "create provider", Err: err}
	}
	utils.GetLogger().Info("provider created", zap.String("provider_id", p.ID))
	return p, nil
}

// GetProvider returns one provider by id.
func (s *DefaultProviderService) GetProvider(ctx context.Context, providerID string) (*models.Provider, error) {
	p, err := s.CatalogRepo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, asCatalogErr(err, "provider", providerID)
	}
	return p, nil
}

// UpdateSettings replaces the provider's scheduling settings.
func (s *DefaultProviderService) UpdateSettings(ctx context.Context, providerID string, settings models.ProviderSettings) error {
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return scheduling.NewValidationError("unknown timezone %q", settings.Timezone)
		}
	}
	if settings.SlotIntervalMinutes < 0 {
		return scheduling.NewValidationError("slotIntervalMinutes must not be negative")
	}
	if err := s.CatalogRepo.UpdateProviderSettings(ctx, providerID, settings); err != nil {
		return asCatalogErr(err, "provider", providerID)
	}
	return nil
}

// CreateLocation adds a location to a provider.
func (s *DefaultProviderService) CreateLocation(ctx context.Context, l *models.Location) (*models.Location, error) {
	if l.Name == "" {
		return nil, scheduling.NewValidationError("location name is required")
	}
	if _, err := s.CatalogRepo.GetProviderByID(ctx, l.ProviderID); err != nil {
		return nil, asCatalogErr(err, "provider", l.ProviderID)
	}
	l.ID = uuid.NewString()
	l.Active = true
	l.CreatedAt = s.now()
	if err := s.CatalogRepo.CreateLocation(ctx, l); err != nil {
		return nil, scheduling.PersistenceError{Op: "create location", Err: err}
	}
	return l, nil
}

// CreateMember adds a staff member at one of the provider's locations.
func (s *DefaultProviderService) CreateMember(ctx context.Context, m *models.Member) (*models.Member, error) {
	if m.DisplayName == "" {
		return nil, scheduling.NewValidationError("member displayName is required")
	}
	if _, err := s.CatalogRepo.GetLocationByID(ctx, m.ProviderID, m.LocationID); err != nil {
		return nil, asCatalogErr(err, "location", m.LocationID)
	}
	m.ID = uuid.NewString()
	m.Active = true
	m.CreatedAt = s.now()
	if err := s.CatalogRepo.CreateMember(ctx, m); err != nil {
		return nil, scheduling.PersistenceError{Op: "create member", Err: err}
	}
	return m, nil
}

// CreateService adds a bookable offering.
func (s *DefaultProviderService) CreateService(ctx context.Context, svc *models.Service) (*models.Service, error) {
	if svc.Name == "" {
		return nil, scheduling.NewValidationError("service name is required")
	}
	if svc.DurationMinutes < models.MinServiceDuration || svc.DurationMinutes > models.MaxServiceDuration {
		return nil, scheduling.NewValidationError("durationMinutes must be between %d and %d",
			models.MinServiceDuration, models.MaxServiceDuration)
	}
	if svc.PriceMinor < 0 {
		return nil, scheduling.NewValidationError("price must not be negative")
	}
	if svc.BufferMinutes < 0 {
		return nil, scheduling.NewValidationError("bufferMinutes must not be negative")
	}
	if _, err := s.CatalogRepo.GetProviderByID(ctx, svc.ProviderID); err != nil {
		return nil, asCatalogErr(err, "provider", svc.ProviderID)
	}
	svc.ID = uuid.NewString()
	svc.CreatedAt = s.now()
	if err := s.CatalogRepo.CreateService(ctx, svc); err != nil {
		return nil, scheduling.PersistenceError{Op: "create service", Err: err}
	}
	return svc, nil
}

// ListMembersByLocation lists the members based at one location.
func (s *DefaultProviderService) ListMembersByLocation(ctx context.Context, providerID, locationID string) ([]models.Member, error) {
	out, err := s.CatalogRepo.ListMembersByLocation(ctx, providerID, locationID)
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "list members", Err: err}
	}
	return out, nil
}

// ChangeMemberLocation moves a member to another location and re-keys their
// schedule records so future queries at the new location see them. Existing
// bookings keep their original location snapshot.
func (s *DefaultProviderService) ChangeMemberLocation(ctx context.Context, providerID, memberID, newLocationID string) error {
	member, err := s.CatalogRepo.GetMemberByID(ctx, providerID, memberID)
	if err != nil {
		return asCatalogErr(err, "member", memberID)
	}
	if _, err := s.CatalogRepo.GetLocationByID(ctx, providerID, newLocationID); err != nil {
		return asCatalogErr(err, "location", newLocationID)
	}
	if member.LocationID == newLocationID {
		return nil
	}

	oldLocationID := member.LocationID
	if err := s.CatalogRepo.UpdateMemberLocation(ctx, providerID, memberID, newLocationID); err != nil {
		return asCatalogErr(err, "member", memberID)
	}
	if err := s.AvailabilityRepo.RekeyLocation(ctx, providerID, memberID, oldLocationID, newLocationID); err != nil {
		return scheduling.PersistenceError{Op: "rekey availability", Err: err}
	}
	if err := s.BlockedRepo.RekeyLocation(ctx, providerID, memberID, oldLocationID, newLocationID); err != nil {
		return scheduling.PersistenceError{Op: "rekey blocked periods", Err: err}
	}
	utils.GetLogger().Info("member moved",
		zap.String("provider_id", providerID),
		zap.String("member_id", memberID),
		zap.String("from_location", oldLocationID),
		zap.String("to_location", newLocationID))
	return nil
}

// DeleteMember removes a member, refusing while future active bookings
// still reference them.
func (s *DefaultProviderService) DeleteMember(ctx context.Context, providerID, memberID string) error {
	if _, err := s.CatalogRepo.GetMemberByID(ctx, providerID, memberID); err != nil {
		return asCatalogErr(err, "member", memberID)
	}
	n, err := s.BookingRepo.CountFutureActiveByMember(ctx, providerID, memberID, s.now())
	if err != nil {
		return scheduling.PersistenceError{Op: "count member bookings", Err: err}
	}
	if n > 0 {
		return scheduling.NewValidationError("member has %d future active bookings", n)
	}
	if err := s.CatalogRepo.DeleteMember(ctx, providerID, memberID); err != nil {
		return asCatalogErr(err, "member", memberID)
	}
	return nil
}

func asCatalogErr(err error, resource, id string) error {
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return scheduling.NotFoundError{Resource: resource, ID: id}
	}
	return scheduling.PersistenceError{Op: "load " + resource, Err: err}
}
