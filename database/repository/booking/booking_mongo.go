package bookingRepo

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

// MongoBookingRepo implements BookingRepository on MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a booking repository bound to the default database.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.DB().Collection("bookings")}
}

func (r *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID, "provider_id": providerID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) GetActiveByToken(ctx context.Context, token string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := bson.M{
		"cancel_token": token,
		"status":       bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusConfirmed}},
	}
	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking by token: %w", err)
	}
	return &booking, nil
}

// transition runs a conditional update guarded by the expected statuses and
// maps a non-match to ErrNotFound or ErrStateConflict.
func (r *MongoBookingRepo) transition(ctx context.Context, providerID, bookingID string, from []string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	filter := bson.M{
		"id":          bookingID,
		"provider_id": providerID,
		"status":      bson.M{"$in": from},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing booking from a lost transition race.
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": bookingID, "provider_id": providerID})
		if err != nil {
			return fmt.Errorf("failed to check booking %s: %w", bookingID, err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrStateConflict
	}
	return nil
}

func (r *MongoBookingRepo) SetStatus(ctx context.Context, providerID, bookingID string, from []string, to string) error {
	return r.transition(ctx, providerID, bookingID, from, bson.M{"status": to})
}

func (r *MongoBookingRepo) SetCancelled(ctx context.Context, providerID, bookingID string, from []string, cancelledBy, reason string, at time.Time) error {
	return r.transition(ctx, providerID, bookingID, from, bson.M{
		"status":        models.BookingStatusCancelled,
		"cancelled_by":  cancelledBy,
		"cancel_reason": reason,
		"cancelled_at":  at,
	})
}

func (r *MongoBookingRepo) SetTimes(ctx context.Context, providerID, bookingID string, from []string, start, end time.Time) error {
	return r.transition(ctx, providerID, bookingID, from, bson.M{
		"datetime":     start,
		"end_datetime": end,
	})
}

func (r *MongoBookingRepo) MarkReviewRequested(ctx context.Context, providerID, bookingID string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := bson.M{
		"id":                     bookingID,
		"provider_id":            providerID,
		"review_request_sent_at": bson.M{"$exists": false},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"review_request_sent_at": at}})
	if err != nil {
		return false, fmt.Errorf("failed to mark review requested: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoBookingRepo) listActive(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) ListActiveInRange(ctx context.Context, providerID, memberID, locationID string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"provider_id":  providerID,
		"status":       bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusConfirmed}},
		"datetime":     bson.M{"$lt": to},
		"end_datetime": bson.M{"$gt": from},
	}
	if memberID == "" {
		// The location-level agenda aggregates every booking at the
		// location, member-assigned ones included.
		filter["location_id"] = locationID
	} else {
		// A member's agenda carries their own bookings plus the
		// location-level ones at their location.
		filter["$or"] = []bson.M{
			{"member_id": memberID},
			{"member_id": bson.M{"$exists": false}, "location_id": locationID},
		}
	}
	return r.listActive(ctx, filter)
}

func (r *MongoBookingRepo) ListUpcomingByMember(ctx context.Context, providerID, memberID string, from time.Time) ([]models.Booking, error) {
	return r.listActive(ctx, bson.M{
		"provider_id": providerID,
		"member_id":   memberID,
		"status":      bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusConfirmed}},
		"datetime":    bson.M{"$gte": from},
	})
}

func (r *MongoBookingRepo) ListByProvider(ctx context.Context, providerID, status string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"provider_id": providerID,
		"datetime":    bson.M{"$gte": from, "$lt": to},
	}
	if status != "" {
		filter["status"] = status
	}
	return r.listActive(ctx, filter)
}

func (r *MongoBookingRepo) ListByClient(ctx context.Context, providerID, clientID string) ([]models.Booking, error) {
	return r.listActive(ctx, bson.M{
		"provider_id": providerID,
		"client_id":   clientID,
	})
}

func (r *MongoBookingRepo) CountFutureActiveByMember(ctx context.Context, providerID, memberID string, from time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"provider_id": providerID,
		"member_id":   memberID,
		"status":      bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusConfirmed}},
		"datetime":    bson.M{"$gte": from},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count future bookings: %w", err)
	}
	return count, nil
}

func (r *MongoBookingRepo) CountByStatus(ctx context.Context, providerID string, from, to time.Time) (models.BookingStatusCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"provider_id": providerID,
			"datetime":    bson.M{"$gte": from, "$lt": to},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.BookingStatusCounts{}, fmt.Errorf("failed to aggregate booking counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.BookingStatusCounts{}, fmt.Errorf("failed to decode booking counts: %w", err)
	}

	var counts models.BookingStatusCounts
	for _, row := range rows {
		switch row.Status {
		case models.BookingStatusPending:
			counts.Pending = row.Count
		case models.BookingStatusConfirmed:
			counts.Confirmed = row.Count
		case models.BookingStatusCancelled:
			counts.Cancelled = row.Count
		case models.BookingStatusCompleted:
			counts.Completed = row.Count
		case models.BookingStatusNoShow:
			counts.NoShow = row.Count
		}
	}
	return counts, nil
}
