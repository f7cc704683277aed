package blockedRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agendly/database"
	"agendly/models"
)

const repoTimeout = 5 * time.Second

// MongoBlockedRepo implements BlockedRepository on MongoDB.
type MongoBlockedRepo struct {
	coll *mongo.Collection
}

// NewMongoBlockedRepo creates a blocked-period repository bound to the default database.
func NewMongoBlockedRepo() *MongoBlockedRepo {
	return &MongoBlockedRepo{coll: database.DB().Collection("blocked_periods")}
}

func (r *MongoBlockedRepo) Create(ctx context.Context, blocked *models.BlockedPeriod) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, blocked); err != nil {
		return fmt.Errorf("failed to insert blocked period: %w", err)
	}
	return nil
}

func (r *MongoBlockedRepo) Delete(ctx context.Context, providerID, blockedID string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	// DeletedCount is deliberately ignored: double-unblock is a no-op.
	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": blockedID, "provider_id": providerID}); err != nil {
		return fmt.Errorf("failed to delete blocked period: %w", err)
	}
	return nil
}

func (r *MongoBlockedRepo) ListByProvider(ctx context.Context, providerID string) ([]models.BlockedPeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocked periods: %w", err)
	}
	defer cursor.Close(ctx)

	var blocked []models.BlockedPeriod
	if err := cursor.All(ctx, &blocked); err != nil {
		return nil, fmt.Errorf("failed to decode blocked periods: %w", err)
	}
	return blocked, nil
}

func (r *MongoBlockedRepo) RekeyLocation(ctx context.Context, providerID, memberID, oldLocationID, newLocationID string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"member_id":   memberID,
		"location_id": oldLocationID,
	}
	update := bson.M{"$set": bson.M{"location_id": newLocationID}}

	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to re-key blocked periods: %w", err)
	}
	return nil
}
