package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adwuma/database"
	"adwuma/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bookingsCollection      = "bookings"
	bookingEventsCollection = "booking_events"
)

// ErrBookingNotFound is returned when no booking matches the given id.
var ErrBookingNotFound = errors.New("booking not found")

// MongoBookingRepo implements BookingRepository on MongoDB.
type MongoBookingRepo struct {
	coll      *mongo.Collection
	eventColl *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		coll:      database.Collection(bookingsCollection),
		eventColl: database.Collection(bookingEventsCollection),
	}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

// ReplaceGuarded performs the optimistic compare-and-set that serializes
// concurrent transitions on a single booking: the filter pins both the status
// the caller validated against and the version it read.
func (repo *MongoBookingRepo) ReplaceGuarded(ctx context.Context, b *models.Booking, fromStatus []models.BookingStatus, fromVersion int64) (bool, error) {
	filter := bson.M{
		"id":      b.ID,
		"status":  bson.M{"$in": fromStatus},
		"version": fromVersion,
	}
	res, err := repo.coll.ReplaceOne(ctx, filter, b)
	if err != nil {
		return false, fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	return res.MatchedCount == 1, nil
}

func (repo *MongoBookingRepo) ListDueForAutoConfirm(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error) {
	filter := bson.M{
		"status":                models.BookingAwaitingClientConfirmation,
		"clientConfirmDeadline": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "clientConfirmDeadline", Value: 1}}).
		SetLimit(limit)
	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query due bookings: %w", err)
	}
	defer cur.Close(ctx)

	var due []models.Booking
	if err := cur.All(ctx, &due); err != nil {
		return nil, fmt.Errorf("failed to decode due bookings: %w", err)
	}
	return due, nil
}

func (repo *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	cur, err := repo.coll.Find(ctx, bson.M{"providerId": providerID})
	if err != nil {
		return nil, fmt.Errorf("failed to query provider bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode provider bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoBookingRepo) AppendEvent(ctx context.Context, ev models.BookingEvent) error {
	if _, err := repo.eventColl.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("failed to append booking event: %w", err)
	}
	return nil
}
