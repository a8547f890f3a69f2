package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Chat struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Nurse     primitive.ObjectID `json:"nurse" bson:"nurse"`
	Messages  []ChatMessage      `json:"messages" bson:"messages"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type ChatMessage struct {
	Content  string    `json:"content" bson:"content"`
	Sender   string    `json:"sender" bson:"sender"`
	Receiver string    `json:"receiver" bson:"receiver"`
	Date     time.Time `json:"date" bson:"date"`
}

// Participant reports which side of the chat partyID is on.
func (c *Chat) Participant(kind PartyKind, partyID primitive.ObjectID) bool {
	switch kind {
	case PartyKindUser:
		return c.User == partyID
	case PartyKindNurse:
		return c.Nurse == partyID
	}
	return false
}
