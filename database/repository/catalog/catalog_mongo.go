package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"agendly/database"
	"agendly/models"
)

const repoTimeout = 5 * time.Second

// MongoCatalogRepo implements CatalogRepository on MongoDB.
type MongoCatalogRepo struct {
	providerColl *mongo.Collection
	locationColl *mongo.Collection
	memberColl   *mongo.Collection
	serviceColl  *mongo.Collection
}

// NewMongoCatalogRepo creates a catalog repository bound to the default database.
func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.DB()
	return &MongoCatalogRepo{
		providerColl: db.Collection("providers"),
		locationColl: db.Collection("locations"),
		memberColl:   db.Collection("members"),
		serviceColl:  db.Collection("services"),
	}
}

func (r *MongoCatalogRepo) GetProviderByID(ctx context.Context, providerID string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var provider models.Provider
	err := r.providerColl.FindOne(ctx, bson.M{"id": providerID}).Decode(&provider)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider %s: %w", providerID, err)
	}
	return &provider, nil
}

func (r *MongoCatalogRepo) CreateProvider(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.providerColl.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to insert provider: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) UpdateProviderSettings(ctx context.Context, providerID string, settings models.ProviderSettings) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	res, err := r.providerColl.UpdateOne(ctx,
		bson.M{"id": providerID},
		bson.M{"$set": bson.M{"settings": settings}},
	)
	if err != nil {
		return fmt.Errorf("failed to update provider settings: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCatalogRepo) GetLocationByID(ctx context.Context, providerID, locationID string) (*models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var location models.Location
	err := r.locationColl.FindOne(ctx, bson.M{"id": locationID, "provider_id": providerID}).Decode(&location)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location %s: %w", locationID, err)
	}
	return &location, nil
}

func (r *MongoCatalogRepo) CreateLocation(ctx context.Context, location *models.Location) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.locationColl.InsertOne(ctx, location); err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) GetMemberByID(ctx context.Context, providerID, memberID string) (*models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var member models.Member
	err := r.memberColl.FindOne(ctx, bson.M{"id": memberID, "provider_id": providerID}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", memberID, err)
	}
	return &member, nil
}

func (r *MongoCatalogRepo) CreateMember(ctx context.Context, member *models.Member) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.memberColl.InsertOne(ctx, member); err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) ListMembersByLocation(ctx context.Context, providerID, locationID string) ([]models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	cursor, err := r.memberColl.Find(ctx, bson.M{"provider_id": providerID, "location_id": locationID})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return members, nil
}

func (r *MongoCatalogRepo) UpdateMemberLocation(ctx context.Context, providerID, memberID, locationID string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	res, err := r.memberColl.UpdateOne(ctx,
		bson.M{"id": memberID, "provider_id": providerID},
		bson.M{"$set": bson.M{"location_id": locationID}},
	)
	if err != nil {
		return fmt.Errorf("failed to update member location: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCatalogRepo) DeleteMember(ctx context.Context, providerID, memberID string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	res, err := r.memberColl.DeleteOne(ctx, bson.M{"id": memberID, "provider_id": providerID})
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCatalogRepo) GetServiceByID(ctx context.Context, providerID, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var service models.Service
	err := r.serviceColl.FindOne(ctx, bson.M{"id": serviceID, "provider_id": providerID}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", serviceID, err)
	}
	return &service, nil
}

func (r *MongoCatalogRepo) CreateService(ctx context.Context, service *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.serviceColl.InsertOne(ctx, service); err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}
	return nil
}
