package parties

import (
	"context"
	"errors"
	"fmt"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PartyMongoRepository serves both the users and the nurses collection; the
// documents share the bucket layout the appointment lifecycle maintains.
type PartyMongoRepository struct {
	Collection *mongo.Collection
	kind       models.PartyKind
}

func NewUserMongoRepository(db *mongo.Client, dbName string) contracts.PartyRepository {
	return &PartyMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionUsers),
		kind:       models.PartyKindUser,
	}
}

func NewNurseMongoRepository(db *mongo.Client, dbName string) contracts.PartyRepository {
	return &PartyMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionNurses),
		kind:       models.PartyKindNurse,
	}
}

func (r *PartyMongoRepository) Kind() models.PartyKind {
	return r.kind
}

func (r *PartyMongoRepository) Create(ctx context.Context, party *models.Party) error {
	if party.ID.IsZero() {
		party.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, party)
	if err != nil {
		return exceptions.ErrMongoInsert(err, r.Collection.Name())
	}
	party.Kind = r.kind
	return nil
}

func (r *PartyMongoRepository) FindByID(ctx context.Context, partyID primitive.ObjectID) (*models.Party, error) {
	var party models.Party
	err := r.Collection.FindOne(ctx, bson.M{"_id": partyID}).Decode(&party)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoFind(err, r.Collection.Name())
	}
	party.Kind = r.kind
	return &party, nil
}

// MoveAppointment pulls appointmentID from every bucket in from and adds it to
// to in a single update. An empty to only pulls.
func (r *PartyMongoRepository) MoveAppointment(ctx context.Context, partyID, appointmentID primitive.ObjectID, from []models.Bucket, to models.Bucket) error {
	update := bson.M{
		"$set": bson.M{"updatedAt": time.Now()},
	}
	if len(from) > 0 {
		pull := bson.M{}
		for _, bucket := range from {
			if bucket == to {
				continue
			}
			pull[string(bucket)] = appointmentID
		}
		if len(pull) > 0 {
			update["$pull"] = pull
		}
	}
	if to != "" {
		update["$addToSet"] = bson.M{string(to): appointmentID}
	}
	return r.updateOne(ctx, partyID, update)
}

// PullAppointmentEverywhere removes appointmentID from every bucket. A missing
// party is not an error.
func (r *PartyMongoRepository) PullAppointmentEverywhere(ctx context.Context, partyID, appointmentID primitive.ObjectID) error {
	pull := bson.M{}
	for _, bucket := range []models.Bucket{
		models.BucketCurrent,
		models.BucketCompleted,
		models.BucketCancelled,
		models.BucketRejected,
		models.BucketRequests,
	} {
		pull[string(bucket)] = appointmentID
	}

	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": partyID}, bson.M{"$pull": pull})
	if err != nil {
		return exceptions.ErrMongoUpdate(err, r.Collection.Name())
	}
	return nil
}

func (r *PartyMongoRepository) AddChat(ctx context.Context, partyID, chatID primitive.ObjectID) error {
	return r.updateOne(ctx, partyID, bson.M{"$addToSet": bson.M{"chats": chatID}})
}

func (r *PartyMongoRepository) AddNotification(ctx context.Context, partyID, notificationID primitive.ObjectID) error {
	return r.updateOne(ctx, partyID, bson.M{"$push": bson.M{"notifications": notificationID}})
}

func (r *PartyMongoRepository) IncrementPatients(ctx context.Context, partyID primitive.ObjectID) error {
	return r.updateOne(ctx, partyID, bson.M{"$inc": bson.M{"patients": 1}})
}

func (r *PartyMongoRepository) updateOne(ctx context.Context, partyID primitive.ObjectID, update bson.M) error {
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": partyID}, update)
	if err != nil {
		return exceptions.ErrMongoUpdate(err, r.Collection.Name())
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrNotFound(fmt.Errorf("%s %s", r.kind, partyID.Hex()), r.Collection.Name())
	}
	return nil
}
