package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerEvent records a processed payment provider event so redeliveries are
// acknowledged without side effects.
type LedgerEvent struct {
	ID              string             `bson:"_id"`
	Type            string             `bson:"type"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty"`
	AppointmentID   primitive.ObjectID `bson:"appointmentId,omitempty"`
	ReceivedAt      time.Time          `bson:"receivedAt"`
}
