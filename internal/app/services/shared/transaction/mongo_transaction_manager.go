package transaction

import (
	"context"
	"errors"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

var (
	transactionManagerInstance contracts.TransactionManager
	onceTransactionManager     sync.Once
)

type mongoTransactionManager struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewMongoTransactionManager(client *mongo.Client, logger *zap.Logger) contracts.TransactionManager {
	onceTransactionManager.Do(func() {
		transactionManagerInstance = &mongoTransactionManager{
			Client: client,
			Log:    logger,
		}
	})
	return transactionManagerInstance
}

// WithTransaction runs fn inside a session transaction. Repositories must use
// the ctx handed to fn so their writes join the transaction. fn may be retried
// by the driver on transient errors.
func (m *mongoTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("mongoTransactionManager.WithTransaction called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	session, err := m.Client.StartSession()
	if err != nil {
		m.Log.Error("mongoTransactionManager.WithTransaction error starting session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrMongoTransaction(err)
	}
	defer session.EndSession(ctx)

	txnOptions := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessionCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessionCtx)
	}, txnOptions)
	if err != nil {
		m.Log.Error("mongoTransactionManager.WithTransaction aborted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) {
			return err
		}
		return exceptions.ErrMongoTransaction(err)
	}

	m.Log.Info("mongoTransactionManager.WithTransaction committed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}
