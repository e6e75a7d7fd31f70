package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "pushsubscriptions"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique userId index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Upsert(ctx context.Context, sub *models.PushSubscription) (*models.PushSubscription, error) {
	filter := bson.D{{Key: "userId", Value: sub.PrincipalID}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "endpoint", Value: sub.Endpoint},
			{Key: "p256dh", Value: sub.P256dh},
			{Key: "auth", Value: sub.Auth},
			{Key: "updatedAt", Value: sub.UpdatedAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: uuid.NewString()},
			{Key: "createdAt", Value: sub.UpdatedAt},
		}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.PushSubscription
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return &out, nil
}

func (r *MongoRepository) Get(ctx context.Context, principalID string) (*models.PushSubscription, error) {
	var out models.PushSubscription
	err := r.coll.FindOne(ctx, bson.D{{Key: "userId", Value: principalID}}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return &out, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]models.PushSubscription, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "userId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	var result []models.PushSubscription
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Delete(ctx context.Context, principalID string) error {
	return r.deleteOne(ctx, bson.D{{Key: "userId", Value: principalID}})
}

func (r *MongoRepository) DeleteEndpoint(ctx context.Context, principalID, endpoint string) error {
	return r.deleteOne(ctx, bson.D{{Key: "userId", Value: principalID}, {Key: "endpoint", Value: endpoint}})
}

func (r *MongoRepository) deleteOne(ctx context.Context, filter bson.D) error {
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
