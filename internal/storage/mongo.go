package storage

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type cartDocument struct {
	Key       string            `bson:"_id"`
	Lines     []models.CartLine `bson:"lines"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

// MongoStore keeps one cart document per session key in the carts collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("carts")}
}

func (m *MongoStore) Save(ctx context.Context, key string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	doc := cartDocument{Key: key, Lines: lines, UpdatedAt: time.Now()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

// Load returns the persisted snapshot for key. A missing document yields an
// empty cart; a read or decode failure is logged and degrades to an empty
// cart rather than blocking the session.
func (m *MongoStore) Load(ctx context.Context, key string) ([]models.CartLine, error) {
	var doc cartDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.Printf("[STORAGE] [WARN] cart document unreadable for %s: %v", key, err)
		return nil, nil
	}
	return doc.Lines, nil
}

func (m *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
