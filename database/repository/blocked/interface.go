package blockedRepo

import (
	"context"

	"agendly/models"
)

// BlockedRepository stores explicit closures (vacations, breaks) spanning
// one or more dates.
type BlockedRepository interface {
	Create(ctx context.Context, blocked *models.BlockedPeriod) error
	// Delete is idempotent: removing an already-absent block succeeds, so
	// retried unblock requests never fail.
	Delete(ctx context.Context, providerID, blockedID string) error
	ListByProvider(ctx context.Context, providerID string) ([]models.BlockedPeriod, error)
	// RekeyLocation moves a member's location-scoped blocks to a new location id.
	RekeyLocation(ctx context.Context, providerID, memberID, oldLocationID, newLocationID string) error
}
