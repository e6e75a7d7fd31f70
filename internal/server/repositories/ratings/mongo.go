package ratings

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

// CollectionName is the MongoDB collection holding ratings.
const CollectionName = "dayratings"

// MongoRepository implements rating storage over a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique (userId, date) index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	filter := bson.D{{Key: "userId", Value: rating.PrincipalID}, {Key: "date", Value: rating.Date}}

	set := bson.D{
		{Key: "rating", Value: rating.Mood},
		{Key: "updatedAt", Value: rating.UpdatedAt},
	}
	update := bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: uuid.NewString()},
			{Key: "createdAt", Value: rating.UpdatedAt},
		}},
	}
	if rating.Notes != "" {
		set = append(set, bson.E{Key: "notes", Value: rating.Notes})
	} else {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "notes", Value: ""}}})
	}
	update = append(update, bson.E{Key: "$set", Value: set})

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Rating
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return &out, nil
}

func (r *MongoRepository) Get(ctx context.Context, principalID, date string) (*models.Rating, error) {
	filter := bson.D{{Key: "userId", Value: principalID}, {Key: "date", Value: date}}

	var out models.Rating
	if err := r.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return &out, nil
}

func (r *MongoRepository) ListRange(ctx context.Context, principalID, from, to string) ([]models.Rating, error) {
	filter := bson.D{
		{Key: "userId", Value: principalID},
		{Key: "date", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	result := make([]models.Rating, 0)
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Delete(ctx context.Context, principalID, date string) error {
	filter := bson.D{{Key: "userId", Value: principalID}, {Key: "date", Value: date}}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
