package notifications

import (
	"context"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationMongoRepository struct {
	Collection *mongo.Collection
}

func NewNotificationMongoRepository(db *mongo.Client, dbName string) contracts.NotificationRepository {
	return &NotificationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionNotifications),
	}
}

func (r *NotificationMongoRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, notification)
	if err != nil {
		return exceptions.ErrMongoInsert(err, constvars.MongoCollectionNotifications)
	}
	return nil
}

// FindPendingDelivery returns the oldest notifications whose push has not been
// handed to the queue yet.
func (r *NotificationMongoRepository) FindPendingDelivery(ctx context.Context, limit int) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.Collection.Find(ctx, bson.M{"delivery.status": constvars.PushDeliveryPending}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoFind(err, constvars.MongoCollectionNotifications)
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	err = cursor.All(ctx, &notifications)
	if err != nil {
		return nil, exceptions.ErrMongoDecode(err, constvars.MongoCollectionNotifications)
	}
	return notifications, nil
}

func (r *NotificationMongoRepository) MarkDelivery(ctx context.Context, notificationID primitive.ObjectID, status string, attempts int, lastError string) error {
	update := bson.M{
		"$set": bson.M{
			"delivery.status":    status,
			"delivery.attempts":  attempts,
			"delivery.lastError": lastError,
			"delivery.updatedAt": time.Now(),
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": notificationID}, update)
	if err != nil {
		return exceptions.ErrMongoUpdate(err, constvars.MongoCollectionNotifications)
	}
	return nil
}
