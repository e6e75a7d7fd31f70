package repomanager

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/rateday/internal/server/repositories/ratings"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/subscriptions"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoDatabase is used when the DSN names no database.
const DefaultMongoDatabase = "rateday"

// MongoRepositoryManager vends MongoDB-backed repositories. Its
// "migrations" are the unique indexes the repositories rely on.
type MongoRepositoryManager struct {
	client        *mongo.Client
	ratings       *ratings.MongoRepository
	subscriptions *subscriptions.MongoRepository
}

func OpenMongo(ctx context.Context, dsn string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoRepositoryManager(client, client.Database(mongoDatabaseName(dsn))), nil
}

func NewMongoRepositoryManager(client *mongo.Client, db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client:        client,
		ratings:       ratings.NewMongoRepository(db),
		subscriptions: subscriptions.NewMongoRepository(db),
	}
}

func (m *MongoRepositoryManager) Ratings() ratings.Repository {
	return m.ratings
}

func (m *MongoRepositoryManager) Subscriptions() subscriptions.Repository {
	return m.subscriptions
}

func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.ratings.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ratings: %w", err)
	}
	if err := m.subscriptions.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("subscriptions: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

func mongoDatabaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return DefaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return DefaultMongoDatabase
}
