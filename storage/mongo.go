package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type slotDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per slot in the "slots" collection.
// ReplaceOne with upsert writes the whole value in a single operation.
type MongoStore struct {
	client     *mongo.Client
	Collection *mongo.Collection
}

// NewMongoStore uses the given database on an already connected client
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client:     client,
		Collection: client.Database(database).Collection("slots"),
	}
}

func (m *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc slotDocument
	err := m.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find slot %s", key)
	}
	return []byte(doc.Value), nil
}

func (m *MongoStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := slotDocument{Key: key, Value: string(value), UpdatedAt: time.Now()}
	_, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "replace slot %s", key)
}

func (m *MongoStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return errors.Wrapf(err, "delete slot %s", key)
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
