package availabilityRepo

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

// MongoAvailabilityRepo implements AvailabilityRepository on MongoDB.
type MongoAvailabilityRepo struct {
	weeklyColl    *mongo.Collection
	exceptionColl *mongo.Collection
}

// NewMongoAvailabilityRepo creates an availability repository bound to the default database.
func NewMongoAvailabilityRepo() *MongoAvailabilityRepo {
	db := database.DB()
	return &MongoAvailabilityRepo{
		weeklyColl:    db.Collection("availability"),
		exceptionColl: db.Collection("availability_exceptions"),
	}
}

func scopeFilter(providerID, memberID, locationID string) bson.M {
	filter := bson.M{
		"provider_id": providerID,
		"location_id": locationID,
	}
	if memberID == "" {
		// Location-level agendas are stored without the member_id field.
		filter["member_id"] = bson.M{"$exists": false}
	} else {
		filter["member_id"] = memberID
	}
	return filter
}

func (r *MongoAvailabilityRepo) UpsertDay(ctx context.Context, day models.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := scopeFilter(day.ProviderID, day.MemberID, day.LocationID)
	filter["day_of_week"] = day.DayOfWeek

	_, err := r.weeklyColl.ReplaceOne(ctx, filter, day, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert availability day: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) ReplaceWeek(ctx context.Context, providerID, memberID, locationID string, week []models.Availability) error {
	client := r.weeklyColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.weeklyColl.DeleteMany(sc, scopeFilter(providerID, memberID, locationID)); err != nil {
			return fmt.Errorf("failed to clear weekly schedule: %w", err)
		}
		docs := make([]interface{}, len(week))
		for i, day := range week {
			docs[i] = day
		}
		if _, err := r.weeklyColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("failed to insert weekly schedule: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("weekly schedule transaction failed: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) GetWeek(ctx context.Context, providerID, locationID, memberID string) ([]models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}})
	cursor, err := r.weeklyColl.Find(ctx, scopeFilter(providerID, memberID, locationID), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly schedule: %w", err)
	}
	defer cursor.Close(ctx)

	var week []models.Availability
	if err := cursor.All(ctx, &week); err != nil {
		return nil, fmt.Errorf("failed to decode weekly schedule: %w", err)
	}
	return week, nil
}

func (r *MongoAvailabilityRepo) UpsertException(ctx context.Context, exc models.ExceptionSlot) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := scopeFilter(exc.ProviderID, exc.MemberID, exc.LocationID)
	filter["date"] = exc.Date

	_, err := r.exceptionColl.ReplaceOne(ctx, filter, exc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert exception slot: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) DeleteException(ctx context.Context, providerID, memberID, locationID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := scopeFilter(providerID, memberID, locationID)
	filter["date"] = date

	// Idempotent: deleting an absent exception is not an error.
	if _, err := r.exceptionColl.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete exception slot: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) ListExceptions(ctx context.Context, providerID, memberID, locationID, fromDate, toDate string) ([]models.ExceptionSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := scopeFilter(providerID, memberID, locationID)
	filter["date"] = bson.M{"$gte": fromDate, "$lte": toDate}

	cursor, err := r.exceptionColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exception slots: %w", err)
	}
	defer cursor.Close(ctx)

	var exceptions []models.ExceptionSlot
	if err := cursor.All(ctx, &exceptions); err != nil {
		return nil, fmt.Errorf("failed to decode exception slots: %w", err)
	}
	return exceptions, nil
}

func (r *MongoAvailabilityRepo) RekeyLocation(ctx context.Context, providerID, memberID, oldLocationID, newLocationID string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"member_id":   memberID,
		"location_id": oldLocationID,
	}
	update := bson.M{"$set": bson.M{"location_id": newLocationID}}

	if _, err := r.weeklyColl.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to re-key weekly schedule: %w", err)
	}
	if _, err := r.exceptionColl.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to re-key exception slots: %w", err)
	}
	return nil
}
