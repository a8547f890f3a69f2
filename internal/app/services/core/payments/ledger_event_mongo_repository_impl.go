package payments

import (
	"context"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/mongo"
)

type LedgerEventMongoRepository struct {
	Collection *mongo.Collection
}

func NewLedgerEventMongoRepository(db *mongo.Client, dbName string) contracts.LedgerEventRepository {
	return &LedgerEventMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionLedgerEvents),
	}
}

// Reserve claims the event id, and through the unique paymentIntentId index
// the payment intent. A duplicate key reports false. Inside a transaction the
// duplicate key also aborts the transaction, so callers must return an error
// when Reserve reports false.
func (r *LedgerEventMongoRepository) Reserve(ctx context.Context, event *models.LedgerEvent) (bool, error) {
	_, err := r.Collection.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, exceptions.ErrMongoInsert(err, constvars.MongoCollectionLedgerEvents)
	}
	return true, nil
}
