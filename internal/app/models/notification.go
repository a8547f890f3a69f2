package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Recipient     primitive.ObjectID   `json:"recipient" bson:"recipient"`
	RecipientKind PartyKind            `json:"recipientKind" bson:"recipientKind"`
	Title         string               `json:"title" bson:"title"`
	Body          string               `json:"body" bson:"body"`
	Type          string               `json:"type" bson:"type"`
	Date          time.Time            `json:"date" bson:"date"`
	Status        string               `json:"status" bson:"status"`
	ReferenceID   string               `json:"referenceId,omitempty" bson:"referenceId,omitempty"`
	Image         string               `json:"image,omitempty" bson:"image,omitempty"`
	Delivery      NotificationDelivery `json:"-" bson:"delivery"`
}

// NotificationDelivery is the outbox state of the push attached to a notification.
type NotificationDelivery struct {
	Status      string    `bson:"status"`
	DeviceToken string    `bson:"deviceToken,omitempty"`
	Attempts    int       `bson:"attempts"`
	LastError   string    `bson:"lastError,omitempty"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}
