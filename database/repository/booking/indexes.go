package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes backing the guarded updates, the sweep
// query and the per-provider earnings scan.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookingIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
		// Sweep query: awaiting-confirmation bookings ordered by deadline.
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "clientConfirmDeadline", Value: 1},
		}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, bookingIdx); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	eventIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "at", Value: 1}}},
	}
	if _, err := repo.eventColl.Indexes().CreateMany(ctx, eventIdx); err != nil {
		return fmt.Errorf("failed to create booking event indexes: %w", err)
	}
	return nil
}
