package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCartIndexes expires abandoned cart documents thirty days after their
// last mutation.
func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("carts").Indexes()

	ttlIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().
			SetName("updatedAt_ttl").
			SetExpireAfterSeconds(30 * 24 * 60 * 60),
	}

	log.Println("EnsureCartIndexes: creating updatedAt_ttl index")
	_, err := indexes.CreateOne(ctx, ttlIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: ttl index error:", err)
		return err
	}
	log.Println("EnsureCartIndexes: updatedAt_ttl index created")
	return nil
}
