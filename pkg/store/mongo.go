package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend stores values in a MongoDB collection, one document per key.
type MongoBackend struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// layoutDoc is the document shape: the key is the document ID.
type layoutDoc struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoBackend connects to MongoDB and uses the given database and
// collection (defaults: "gridkit", "layouts").
func NewMongoBackend(ctx context.Context, uri, database, collection string) (*MongoBackend, error) {
	if database == "" {
		database = "gridkit"
	}
	if collection == "" {
		collection = "layouts"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoBackend{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Get retrieves a value. A missing document is a miss, not an error.
func (b *MongoBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc layoutDoc
	err := b.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Data, true, nil
}

// Set upserts a value.
func (b *MongoBackend) Set(ctx context.Context, key string, data []byte) error {
	doc := layoutDoc{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := b.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc,
		options.Replace().SetUpsert(true))
	return err
}

// Delete removes a value.
func (b *MongoBackend) Delete(ctx context.Context, key string) error {
	_, err := b.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Close disconnects the client.
func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

// Ensure MongoBackend implements Backend.
var _ Backend = (*MongoBackend)(nil)
