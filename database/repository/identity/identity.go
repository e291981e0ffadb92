package identityRepo

import (
	"context"
	"errors"
	"fmt"

	"adwuma/database"
	"adwuma/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	clientsCollection   = "users"
	providersCollection = "providers"
)

// ErrRecipientNotFound is returned when a recipient id resolves to nothing.
var ErrRecipientNotFound = errors.New("recipient not found")

// IdentityRepository resolves recipient references against the user and
// provider stores owned by the (external) identity subsystem. The booking core
// reads through it for authorization checks and push-token lookup only.
type IdentityRepository interface {
	Exists(ctx context.Context, r models.Recipient) (bool, error)
	PushToken(ctx context.Context, r models.Recipient) (string, error)
}

// MongoIdentityRepo implements IdentityRepository on the shared MongoDB.
type MongoIdentityRepo struct {
	clients   *mongo.Collection
	providers *mongo.Collection
}

func NewMongoIdentityRepo() *MongoIdentityRepo {
	return &MongoIdentityRepo{
		clients:   database.Collection(clientsCollection),
		providers: database.Collection(providersCollection),
	}
}

func (repo *MongoIdentityRepo) collectionFor(kind models.RecipientKind) (*mongo.Collection, error) {
	switch kind {
	case models.RecipientClient, models.RecipientAdmin:
		return repo.clients, nil
	case models.RecipientProvider:
		return repo.providers, nil
	default:
		return nil, fmt.Errorf("unknown recipient kind: %s", kind)
	}
}

func (repo *MongoIdentityRepo) Exists(ctx context.Context, r models.Recipient) (bool, error) {
	coll, err := repo.collectionFor(r.Kind)
	if err != nil {
		return false, err
	}
	count, err := coll.CountDocuments(ctx, bson.M{"id": r.ID})
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s %s: %w", r.Kind, r.ID, err)
	}
	return count > 0, nil
}

func (repo *MongoIdentityRepo) PushToken(ctx context.Context, r models.Recipient) (string, error) {
	coll, err := repo.collectionFor(r.Kind)
	if err != nil {
		return "", err
	}
	var doc struct {
		FCMToken string `bson:"fcmToken"`
	}
	if err := coll.FindOne(ctx, bson.M{"id": r.ID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrRecipientNotFound
		}
		return "", fmt.Errorf("failed to fetch push token for %s %s: %w", r.Kind, r.ID, err)
	}
	return doc.FCMToken, nil
}
