package catalogRepo

import (
	"context"
	"errors"

	"agendly/models"
)

// ErrNotFound is returned when a catalog record does not exist.
var ErrNotFound = errors.New("catalog record not found")

// CatalogRepository exposes the provider/location/member/service catalogs.
// The scheduling engine only reads; the management surface also writes.
type CatalogRepository interface {
	GetProviderByID(ctx context.Context, providerID string) (*models.Provider, error)
	CreateProvider(ctx context.Context, provider *models.Provider) error
	UpdateProviderSettings(ctx context.Context, providerID string, settings models.ProviderSettings) error

	GetLocationByID(ctx context.Context, providerID, locationID string) (*models.Location, error)
	CreateLocation(ctx context.Context, location *models.Location) error

	GetMemberByID(ctx context.Context, providerID, memberID string) (*models.Member, error)
	CreateMember(ctx context.Context, member *models.Member) error
	ListMembersByLocation(ctx context.Context, providerID, locationID string) ([]models.Member, error)
	// UpdateMemberLocation moves a member to a new location. Re-keying of the
	// member's schedule records is orchestrated by the provider service.
	UpdateMemberLocation(ctx context.Context, providerID, memberID, locationID string) error
	DeleteMember(ctx context.Context, providerID, memberID string) error

	GetServiceByID(ctx context.Context, providerID, serviceID string) (*models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
}
