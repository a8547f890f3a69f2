package contracts

import (
	"context"
	"nursecare-service/internal/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindPendingDelivery(ctx context.Context, limit int) ([]models.Notification, error)
	MarkDelivery(ctx context.Context, notificationID primitive.ObjectID, status string, attempts int, lastError string) error
}

type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Type  string `json:"type"`
	ID    string `json:"id"`
	Date  string `json:"date"`
	Image string `json:"image"`
}

type PushDispatcher interface {
	Send(ctx context.Context, deviceToken string, payload PushPayload) error
}

// PushMessage is the queued unit of push delivery. NotificationID is empty for
// chat messages, which have no notification record.
type PushMessage struct {
	ID             string      `json:"id"`
	NotificationID string      `json:"notification_id,omitempty"`
	DeviceToken    string      `json:"device_token"`
	Payload        PushPayload `json:"payload"`
	FailedCount    int         `json:"failed_count"`
}

type QueuedPush struct {
	DeliveryTag uint64
	Message     PushMessage
}

type PushQueue interface {
	Enqueue(ctx context.Context, message PushMessage) error
	Reenqueue(ctx context.Context, message PushMessage) error
	EnqueueToDeadQueue(ctx context.Context, message PushMessage) error
	FetchN(ctx context.Context, max int) ([]QueuedPush, error)
	Ack(ctx context.Context, deliveryTag uint64) error
}
