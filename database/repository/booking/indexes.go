package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the booking lookup indexes, including the unique
// cancel-token index.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "cancel_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "member_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "datetime", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "location_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "datetime", Value: 1},
			},
		},
	})
	return err
}
