package provider

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agendly/models"
	"agendly/services/scheduling"
	"agendly/utils"
)

// BlockPeriod records an explicit closure across a date range.
func (s *DefaultProviderService) BlockPeriod(ctx context.Context, providerID string, in BlockInput) (*models.BlockedPeriod, error) {
	if _, err := s.CatalogRepo.GetProviderByID(ctx, providerID); err != nil {
		return nil, asCatalogErr(err, "provider", providerID)
	}
	if in.LocationID != "" {
		if _, err := s.CatalogRepo.GetLocationByID(ctx, providerID, in.LocationID); err != nil {
			return nil, asCatalogErr(err, "location", in.LocationID)
		}
	}
	if in.MemberID != "" {
		if _, err := s.CatalogRepo.GetMemberByID(ctx, providerID, in.MemberID); err != nil {
			return nil, asCatalogErr(err, "member", in.MemberID)
		}
	}

	if _, err := time.Parse(scheduling.DateLayout, in.StartDate); err != nil {
		return nil, scheduling.NewValidationError("invalid startDate %q", in.StartDate)
	}
	if _, err := time.Parse(scheduling.DateLayout, in.EndDate); err != nil {
		return nil, scheduling.NewValidationError("invalid endDate %q", in.EndDate)
	}
	if in.EndDate < in.StartDate {
		return nil, scheduling.NewValidationError("endDate must not precede startDate")
	}

	if !in.AllDay {
		start, err := scheduling.ParseMinuteOfDay(in.StartTime)
		if err != nil {
			return nil, scheduling.NewValidationError("invalid startTime %q", in.StartTime)
		}
		end, err := scheduling.ParseMinuteOfDay(in.EndTime)
		if err != nil {
			return nil, scheduling.NewValidationError("invalid endTime %q", in.EndTime)
		}
		if end <= start {
			return nil, scheduling.NewValidationError("endTime must be after startTime")
		}
	}
	if in.IsRecurring {
		if len(in.RecurringDays) == 0 {
			return nil, scheduling.NewValidationError("recurring block requires recurringDays")
		}
		for _, d := range in.RecurringDays {
			if d < 0 || d > 6 {
				return nil, scheduling.NewValidationError("recurringDays entries must be 0..6, got %d", d)
			}
		}
	}

	bp := &models.BlockedPeriod{
		ID:            uuid.NewString(),
		ProviderID:    providerID,
		MemberID:      in.MemberID,
		LocationID:    in.LocationID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		AllDay:        in.AllDay,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		IsRecurring:   in.IsRecurring,
		RecurringDays: in.RecurringDays,
		Reason:        in.Reason,
		CreatedAt:     s.now(),
	}
	if bp.AllDay {
		bp.StartTime = ""
		bp.EndTime = ""
	}
	if err := s.BlockedRepo.Create(ctx, bp); err != nil {
		return nil, scheduling.PersistenceError{Op: "create blocked period", Err: err}
	}
	utils.GetLogger().Info("period blocked",
		zap.String("provider_id", providerID),
		zap.String("blocked_id", bp.ID),
		zap.String("start_date", bp.StartDate),
		zap.String("end_date", bp.EndDate))
	return bp, nil
}

// UnblockPeriod removes a blocked period. Removing an absent one succeeds.
func (s *DefaultProviderService) UnblockPeriod(ctx context.Context, providerID, blockedID string) error {
	if err := s.BlockedRepo.Delete(ctx, providerID, blockedID); err != nil {
		return scheduling.PersistenceError{Op: "delete blocked period", Err: err}
	}
	return nil
}

// GetBlockedSlots lists a provider's blocked periods, ordered by start date.
func (s *DefaultProviderService) GetBlockedSlots(ctx context.Context, providerID string) ([]models.BlockedPeriod, error) {
	out, err := s.BlockedRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "list blocked periods", Err: err}
	}
	return out, nil
}
