package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PartyKind string

const (
	PartyKindUser  PartyKind = "user"
	PartyKindNurse PartyKind = "nurse"
)

// Bucket names the denormalized appointment list on a party document. The
// value is the bson field name.
type Bucket string

const (
	BucketCurrent   Bucket = "currentAppointments"
	BucketCompleted Bucket = "completedAppointments"
	BucketCancelled Bucket = "cancelledAppointments"
	BucketRejected  Bucket = "rejectedAppointments"
	BucketRequests  Bucket = "requests"
)

var partyBuckets = map[PartyKind]map[string]Bucket{
	PartyKindUser: {
		"current":   BucketCurrent,
		"completed": BucketCompleted,
		"rejected":  BucketRejected,
		"cancelled": BucketCancelled,
	},
	PartyKindNurse: {
		"requests":  BucketRequests,
		"current":   BucketCurrent,
		"completed": BucketCompleted,
		"cancelled": BucketCancelled,
	},
}

// ParseBucket resolves a listing name such as "current" for the given party kind.
func ParseBucket(kind PartyKind, name string) (Bucket, bool) {
	bucket, ok := partyBuckets[kind][name]
	return bucket, ok
}

// Buckets lists every bucket a party of kind owns.
func Buckets(kind PartyKind) []Bucket {
	if kind == PartyKindNurse {
		return []Bucket{BucketRequests, BucketCurrent, BucketCompleted, BucketCancelled}
	}
	return []Bucket{BucketCurrent, BucketCompleted, BucketRejected, BucketCancelled}
}

// Party carries the portion of a user or nurse document the appointment
// lifecycle touches.
type Party struct {
	ID                    primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Kind                  PartyKind            `json:"kind" bson:"-"`
	Name                  string               `json:"name" bson:"name"`
	Email                 string               `json:"email" bson:"email"`
	Phone                 string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Photo                 string               `json:"photo,omitempty" bson:"photo,omitempty"`
	DeviceID              string               `json:"-" bson:"deviceId,omitempty"`
	CurrentAppointments   []primitive.ObjectID `json:"currentAppointments" bson:"currentAppointments"`
	CompletedAppointments []primitive.ObjectID `json:"completedAppointments" bson:"completedAppointments"`
	CancelledAppointments []primitive.ObjectID `json:"cancelledAppointments" bson:"cancelledAppointments"`
	RejectedAppointments  []primitive.ObjectID `json:"rejectedAppointments,omitempty" bson:"rejectedAppointments,omitempty"`
	Requests              []primitive.ObjectID `json:"requests,omitempty" bson:"requests,omitempty"`
	Notifications         []primitive.ObjectID `json:"notifications" bson:"notifications"`
	Chats                 []primitive.ObjectID `json:"chats" bson:"chats"`
	Patients              int                  `json:"patients,omitempty" bson:"patients,omitempty"`
	TimeModel             `bson:",inline"`
}

func (p *Party) Bucket(bucket Bucket) []primitive.ObjectID {
	switch bucket {
	case BucketCurrent:
		return p.CurrentAppointments
	case BucketCompleted:
		return p.CompletedAppointments
	case BucketCancelled:
		return p.CancelledAppointments
	case BucketRejected:
		return p.RejectedAppointments
	case BucketRequests:
		return p.Requests
	}
	return nil
}
