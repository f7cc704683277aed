package planning

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"agendly/config"
	bookingRepo "agendly/database/repository/booking"
	catalogRepo "agendly/database/repository/catalog"
	"agendly/models"
	"agendly/services/scheduling"
	"agendly/utils"
)

const (
	accessCodeLength = 8
	codeKeyPrefix    = "planning:code:"
)

// codeRecord is the redis payload behind one access code.
type codeRecord struct {
	ProviderID string `json:"provider_id"`
	MemberID   string `json:"member_id"`
}

// PlanningService issues short-lived access codes that let a member view
// their upcoming agenda without a full account login.
type PlanningService interface {
	IssueAccessCode(ctx context.Context, providerID, memberID string) (string, error)
	// ResolveAccessCode maps a code back to (providerID, memberID). Expired
	// and unknown codes are indistinguishable.
	ResolveAccessCode(ctx context.Context, code string) (providerID, memberID string, err error)
	ListUpcoming(ctx context.Context, code string) ([]models.Booking, error)
}

// DefaultPlanningService stores codes in the dedicated planning redis DB.
type DefaultPlanningService struct {
	CatalogRepo catalogRepo.CatalogRepository
	BookingRepo bookingRepo.BookingRepository
	Cache       *redis.Client

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

// NewPlanningService wires the default planning service.
func NewPlanningService(catalog catalogRepo.CatalogRepository, bookings bookingRepo.BookingRepository, cache *redis.Client) *DefaultPlanningService {
	return &DefaultPlanningService{
		CatalogRepo: catalog,
		BookingRepo: bookings,
		Cache:       cache,
	}
}

func (s *DefaultPlanningService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueAccessCode mints a fresh code for one member's agenda. Reissuing
// does not invalidate earlier codes; they age out on their own TTL.
func (s *DefaultPlanningService) IssueAccessCode(ctx context.Context, providerID, memberID string) (string, error) {
	member, err := s.CatalogRepo.GetMemberByID(ctx, providerID, memberID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return "", scheduling.NotFoundError{Resource: "member", ID: memberID}
		}
		return "", scheduling.PersistenceError{Op: "load member", Err: err}
	}

	code, err := utils.NewAccessCode(accessCodeLength)
	if err != nil {
		return "", scheduling.PersistenceError{Op: "generate access code", Err: err}
	}
	payload, err := json.Marshal(codeRecord{ProviderID: providerID, MemberID: member.ID})
	if err != nil {
		return "", scheduling.PersistenceError{Op: "encode access code", Err: err}
	}

	ttl := time.Duration(config.AppConfig.PlanningCodeTTLDays) * 24 * time.Hour
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	// SetNX so a rare code collision never silently rebinds someone else's code.
	ok, err := s.Cache.SetNX(ctx, codeKeyPrefix+code, payload, ttl).Result()
	if err != nil {
		return "", scheduling.PersistenceError{Op: "store access code", Err: err}
	}
	if !ok {
		return "", scheduling.PersistenceError{Op: "store access code", Err: errors.New("code collision")}
	}
	utils.GetLogger().Info("planning access code issued",
		zap.String("provider_id", providerID), zap.String("member_id", memberID))
	return code, nil
}

// ResolveAccessCode maps a code to its agenda identity.
func (s *DefaultPlanningService) ResolveAccessCode(ctx context.Context, code string) (string, string, error) {
	if code == "" {
		return "", "", scheduling.NotFoundError{Resource: "access code", ID: ""}
	}
	raw, err := s.Cache.Get(ctx, codeKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", "", scheduling.NotFoundError{Resource: "access code", ID: ""}
		}
		return "", "", scheduling.PersistenceError{Op: "resolve access code", Err: err}
	}
	var rec codeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", "", scheduling.PersistenceError{Op: "decode access code", Err: err}
	}
	return rec.ProviderID, rec.MemberID, nil
}

// ListUpcoming returns the member's future pending and confirmed bookings,
// soonest first.
func (s *DefaultPlanningService) ListUpcoming(ctx context.Context, code string) ([]models.Booking, error) {
	providerID, memberID, err := s.ResolveAccessCode(ctx, code)
	if err != nil {
		return nil, err
	}
	out, err := s.BookingRepo.ListUpcomingByMember(ctx, providerID, memberID, s.now())
	if err != nil {
		return nil, scheduling.PersistenceError{Op: "list upcoming bookings", Err: err}
	}
	return out, nil
}
