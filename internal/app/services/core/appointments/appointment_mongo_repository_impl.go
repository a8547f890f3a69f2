package appointments

import (
	"context"
	"errors"
	"fmt"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAppointmentMongoRepository(db *mongo.Client, dbName string) contracts.AppointmentRepository {
	return &AppointmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAppointments),
	}
}

func (r *AppointmentMongoRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, appointment)
	if err != nil {
		return exceptions.ErrMongoInsert(err, constvars.MongoCollectionAppointments)
	}
	return nil
}

func (r *AppointmentMongoRepository) FindByID(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.Collection.FindOne(ctx, bson.M{"_id": appointmentID}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoFind(err, constvars.MongoCollectionAppointments)
	}
	return &appointment, nil
}

func (r *AppointmentMongoRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// FindByIDs loads the appointments referenced by a bucket. Ids that no longer
// resolve are skipped.
func (r *AppointmentMongoRepository) FindByIDs(ctx context.Context, appointmentIDs []primitive.ObjectID, sortByDateTime bool) ([]models.Appointment, error) {
	if len(appointmentIDs) == 0 {
		return []models.Appointment{}, nil
	}
	opts := options.Find()
	if sortByDateTime {
		opts.SetSort(bson.D{{Key: "dateTime", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": appointmentIDs}}, opts)
}

// UpdateTransition writes the lifecycle fields only if the stored status is
// still expected. Documents written before the status field existed match
// when the field is absent.
func (r *AppointmentMongoRepository) UpdateTransition(ctx context.Context, appointment *models.Appointment, expected models.AppointmentStatus) error {
	filter := bson.M{
		"_id": appointment.ID,
		"$or": bson.A{
			bson.M{"status": expected},
			bson.M{"status": bson.M{"$exists": false}},
		},
	}

	set := bson.M{
		"status":          appointment.Status,
		"userConfirm":     appointment.UserConfirm,
		"nurseAcceptance": appointment.NurseAcceptance,
		"nurseRejection":  appointment.NurseRejection,
		"completed":       appointment.Completed,
		"cancelled":       appointment.Cancelled,
		"updatedAt":       appointment.UpdatedAt,
	}
	if appointment.CancelReason != "" {
		set["cancelReason"] = appointment.CancelReason
	}
	if appointment.RefundID != "" {
		set["refundId"] = appointment.RefundID
		set["refundedAt"] = appointment.RefundedAt
	}

	result, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return exceptions.ErrMongoUpdate(err, constvars.MongoCollectionAppointments)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrConcurrentTransition(
			fmt.Errorf("no appointment matched status %s", expected),
			appointment.ID.Hex(),
			string(expected),
		)
	}
	return nil
}

func (r *AppointmentMongoRepository) DeleteByID(ctx context.Context, appointmentID primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": appointmentID})
	if err != nil {
		return exceptions.ErrMongoDelete(err, constvars.MongoCollectionAppointments)
	}
	return nil
}

func (r *AppointmentMongoRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Appointment, error) {
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoFind(err, constvars.MongoCollectionAppointments)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	err = cursor.All(ctx, &appointments)
	if err != nil {
		return nil, exceptions.ErrMongoDecode(err, constvars.MongoCollectionAppointments)
	}
	return appointments, nil
}
