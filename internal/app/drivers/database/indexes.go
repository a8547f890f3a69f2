package database

import (
	"context"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the lifecycle relies on for dedupe and
// pair uniqueness. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		constvars.MongoCollectionAppointments: {
			{
				Keys:    bson.D{{Key: "paymentIntentId", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		constvars.MongoCollectionLedgerEvents: {
			{
				Keys:    bson.D{{Key: "paymentIntentId", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		constvars.MongoCollectionChats: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}, {Key: "nurse", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "nurse", Value: 1}},
			},
		},
		constvars.MongoCollectionNotifications: {
			{
				Keys: bson.D{{Key: "delivery.status", Value: 1}, {Key: "date", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "recipient", Value: 1}},
			},
		},
	}

	for collection, models := range indexes {
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return exceptions.ErrMongoCreateIndex(err, collection)
		}
	}
	return nil
}
