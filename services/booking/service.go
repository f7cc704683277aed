package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	agendaRepo "agendly/database/repository/agenda"
	bookingRepo "agendly/database/repository/booking"
	catalogRepo "agendly/database/repository/catalog"
	"agendly/models"
	"agendly/services/scheduling"
	"agendly/utils"
)

// DefaultBookingService is the repository-backed booking service.
type DefaultBookingService struct {
	CatalogRepo catalogRepo.CatalogRepository
	BookingRepo bookingRepo.BookingRepository
	AgendaRepo  agendaRepo.AgendaRepository
	Engine      scheduling.SchedulingEngine

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

// NewBookingService wires the default booking service.
func NewBookingService(
	catalog catalogRepo.CatalogRepository,
	bookings bookingRepo.BookingRepository,
	agenda agendaRepo.AgendaRepository,
	engine scheduling.SchedulingEngine,
) *DefaultBookingService {
	return &DefaultBookingService{
		CatalogRepo: catalog,
		BookingRepo: bookings,
		AgendaRepo:  agenda,
		Engine:      engine,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateBooking validates the request against the catalog, re-checks the
// slot against the live schedule, then claims the agenda hold before
// inserting the record. The hold is the exclusivity guard: of two
// concurrent requests for overlapping times, exactly one wins.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	logger := utils.GetLogger().With(
		zap.String("provider_id", in.ProviderID),
		zap.String("service_id", in.ServiceID),
	)

	if (in.ClientID == "") == (in.ClientInfo == nil) {
		return nil, scheduling.NewValidationError("exactly one of clientId and clientInfo must be set")
	}
	if in.ClientInfo != nil && (in.ClientInfo.Name == "" || in.ClientInfo.Email == "") {
		return nil, scheduling.NewValidationError("clientInfo requires name and email")
	}
	if in.Datetime.IsZero() {
		return nil, scheduling.NewValidationError("datetime is required")
	}

	provider, err := s.CatalogRepo.GetProviderByID(ctx, in.ProviderID)
	if err != nil {
		return nil, asCatalogErr(err, "provider", in.ProviderID)
	}
	location, err := s.CatalogRepo.GetLocationByID(ctx, in.ProviderID, in.LocationID)
	if err != nil {
		return nil, asCatalogErr(err, "location", in.LocationID)
	}
	service, err := s.CatalogRepo.GetServiceByID(ctx, in.ProviderID, in.ServiceID)
	if err != nil {
		return nil, asCatalogErr(err, "service", in.ServiceID)
	}
	if !service.OfferedAt(in.LocationID) {
		return nil, scheduling.NotFoundError{Resource: "service", ID: in.ServiceID}
	}

	scope := scheduling.ForLocationOnly()
	var member *models.Member
	if in.MemberID != "" {
		member, err = s.CatalogRepo.GetMemberByID(ctx, in.ProviderID, in.MemberID)
		if err != nil {
			return nil, asCatalogErr(err, "member", in.MemberID)
		}
		if member.LocationID != in.LocationID {
			return nil, scheduling.NotFoundError{Resource: "member", ID: in.MemberID}
		}
		if !member.CanPerform(in.ServiceID) || !service.PerformedBy(in.MemberID) {
			return nil, scheduling.NotFoundError{Resource: "service", ID: in.ServiceID}
		}
		scope = scheduling.ForMember(in.MemberID)
	}

	available, err := s.Engine.IsSlotAvailable(ctx, scheduling.SlotCheck{
		ProviderID:      in.ProviderID,
		LocationID:      in.LocationID,
		Scope:           scope,
		Datetime:        in.Datetime,
		DurationMinutes: service.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, scheduling.SlotUnavailableError{Reason: "the requested slot is not available"}
	}

	token, err := utils.NewCancelToken()
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "generate cancel token", Err: err}
	}

	status := models.BookingStatusConfirmed
	if provider.Settings.RequiresConfirmation {
		status = models.BookingStatusPending
	}

	loc := scheduling.ProviderLocation(provider)
	local := in.Datetime.In(loc)
	now := s.now()

	b := &models.Booking{
		ID:              uuid.NewString(),
		ProviderID:      in.ProviderID,
		LocationID:      in.LocationID,
		ServiceID:       in.ServiceID,
		MemberID:        in.MemberID,
		ServiceName:     service.Name,
		LocationName:    location.Name,
		LocationAddress: location.Address,
		Datetime:        local,
		EndDatetime:     local.Add(time.Duration(service.DurationMinutes) * time.Minute),
		DurationMinutes: service.DurationMinutes,
		BufferMinutes:   service.BufferMinutes,
		PriceMinor:      service.PriceMinor,
		Status:          status,
		ClientID:        in.ClientID,
		ClientInfo:      in.ClientInfo,
		CancelToken:     token,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if member != nil {
		b.MemberName = member.DisplayName
	}

	date, start, serviceEnd, end := holdBounds(b, loc)
	hold := agendaRepo.Hold{
		BookingID:  b.ID,
		MemberID:   b.MemberID,
		Start:      start,
		ServiceEnd: serviceEnd,
		End:        end,
	}
	if err := s.AgendaRepo.Reserve(ctx, in.ProviderID, in.LocationID, date, hold, ""); err != nil {
		if errors.Is(err, agendaRepo.ErrHoldConflict) {
			return nil, scheduling.SlotUnavailableError{Reason: "the requested slot was just taken"}
		}
		return nil, scheduling.PersistenceError{Op: "reserve agenda hold", Err: err}
	}

	if err := s.BookingRepo.Insert(ctx, b); err != nil {
		// The hold was claimed but the record failed. Release so the slot
		// does not leak.
		if relErr := s.AgendaRepo.Release(ctx, in.ProviderID, in.LocationID, date, b.ID, start); relErr != nil {
			logger.Error("failed to release orphaned hold",
				zap.String("booking_id", b.ID), zap.Error(relErr))
		}
		return nil, scheduling.PersistenceError{Op: "insert booking", Err: err}
	}

	logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("status", b.Status),
		zap.Time("datetime", b.Datetime))
	return b, nil
}

// holdBounds computes the agenda-day key and minute bounds of a booking's
// hold in the provider's timezone. serviceEnd is the bare service end; end
// additionally covers the buffer.
func holdBounds(b *models.Booking, loc *time.Location) (date string, start, serviceEnd, end int) {
	local := b.Datetime.In(loc)
	date = scheduling.DateOf(local, loc)
	start = scheduling.MinuteOfDay(local, loc)
	serviceEnd = start + b.DurationMinutes
	end = serviceEnd + b.BufferMinutes
	return date, start, serviceEnd, end
}

// bookingScope reconstructs the agenda scope a booking was taken against.
func bookingScope(b *models.Booking) scheduling.Scope {
	if b.MemberID != "" {
		return scheduling.ForMember(b.MemberID)
	}
	return scheduling.ForLocationOnly()
}

func asCatalogErr(err error, resource, id string) error {
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return scheduling.NotFoundError{Resource: resource, ID: id}
	}
	return scheduling.PersistenceError{Op: "load " + resource, Err: err}
}
