package agendaRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agendly/database"
)

const repoTimeout = 5 * time.Second

// MongoAgendaRepo implements AgendaRepository on MongoDB.
type MongoAgendaRepo struct {
	coll *mongo.Collection
}

// NewMongoAgendaRepo creates an agenda repository bound to the default database.
func NewMongoAgendaRepo() *MongoAgendaRepo {
	return &MongoAgendaRepo{coll: database.DB().Collection("agenda_days")}
}

// Reserve relies on two storage guarantees: the conditional UpdateOne is a
// per-document atomic read-modify-write, and the unique (provider,
// location, date) index turns a lost upsert race into a duplicate-key
// error. Either way the loser gets ErrHoldConflict, never a double
// booking.
//
// The overlap clause compares the incoming hold's ServiceEnd against the
// stored holds' buffered End. A hold whose buffer spills past local
// midnight is not matched against the next day's document; the schedule
// read path catches that case by fetching bookings with slack around the
// queried window.
func (r *MongoAgendaRepo) Reserve(ctx context.Context, providerID, locationID, date string, hold Hold, excludeBookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	overlap := bson.M{
		"start": bson.M{"$lt": hold.ServiceEnd},
		"end":   bson.M{"$gt": hold.Start},
	}
	if hold.MemberID != "" {
		// A member hold passes over other members' holds; location-level
		// holds (empty member_id) contend with everyone.
		overlap["member_id"] = bson.M{"$in": []string{"", hold.MemberID}}
	}
	if excludeBookingID != "" {
		overlap["booking_id"] = bson.M{"$ne": excludeBookingID}
	}

	filter := bson.M{
		"provider_id": providerID,
		"location_id": locationID,
		"date":        date,
		"holds":       bson.M{"$not": bson.M{"$elemMatch": overlap}},
	}
	update := bson.M{"$push": bson.M{"holds": hold}}

	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// The day document exists but a contending hold kept the filter
		// from matching, so the upsert collided with the unique index.
		return ErrHoldConflict
	}
	if err != nil {
		return fmt.Errorf("failed to reserve agenda hold: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrHoldConflict
	}
	return nil
}

func (r *MongoAgendaRepo) Release(ctx context.Context, providerID, locationID, date, bookingID string, start int) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"location_id": locationID,
		"date":        date,
	}
	update := bson.M{"$pull": bson.M{"holds": bson.M{"booking_id": bookingID, "start": start}}}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release agenda hold: %w", err)
	}
	return nil
}
