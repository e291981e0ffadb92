package disputeRepo

import (
	"context"
	"fmt"

	"adwuma/database"
	"adwuma/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const disputesCollection = "disputes"

// DisputeRepository exposes the open-dispute predicate the booking core needs.
// The dispute subsystem itself (raising, mediating, resolving) lives elsewhere.
type DisputeRepository interface {
	HasOpenDispute(ctx context.Context, bookingID string) (bool, error)
}

// MongoDisputeRepo implements DisputeRepository on MongoDB.
type MongoDisputeRepo struct {
	coll *mongo.Collection
}

func NewMongoDisputeRepo() *MongoDisputeRepo {
	return &MongoDisputeRepo{coll: database.Collection(disputesCollection)}
}

func (repo *MongoDisputeRepo) HasOpenDispute(ctx context.Context, bookingID string) (bool, error) {
	filter := bson.M{
		"bookingId": bookingID,
		"status":    models.DisputeOpen,
	}
	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check disputes for booking %s: %w", bookingID, err)
	}
	return count > 0, nil
}
