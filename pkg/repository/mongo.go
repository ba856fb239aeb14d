package repository

import (
	"context"
	"errors"
	"time"

	"github.com/duyshop/backend/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by all stores when a lookup matches nothing.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicateCode is returned when a unique-code insert collides, which the
// generator's pre-check should make unreachable in normal operation.
var ErrDuplicateCode = errors.New("repository: duplicate code")

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoRepository) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

func (m *MongoRepository) Client() *mongo.Client {
	return m.client
}

// setFields flattens an omitempty-tagged update DTO into the document $set
// expects. An empty result means no allow-listed field was supplied and the
// caller must skip the write: MongoDB rejects an empty $set operator.
func setFields(upd interface{}) (bson.M, error) {
	raw, err := bson.Marshal(upd)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func skipFor(page, limit int64) int64 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
