package utils

import (
	"context"
	"fmt"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func GetCallerID(ctx context.Context) string {
	callerID, _ := ctx.Value(constvars.CONTEXT_CALLER_ID_KEY).(string)
	return callerID
}

func GetCallerRole(ctx context.Context) string {
	role, _ := ctx.Value(constvars.CONTEXT_CALLER_ROLE_KEY).(string)
	return role
}

// GetCallerObjectID returns the authenticated party id. Tokens whose subject is
// not an ObjectID are treated as invalid rather than as a bad request.
func GetCallerObjectID(ctx context.Context) (primitive.ObjectID, error) {
	callerID := GetCallerID(ctx)
	if callerID == "" {
		return primitive.NilObjectID, exceptions.ErrTokenMissing(nil)
	}
	objectID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return primitive.NilObjectID, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("subject %q is not an object id: %w", callerID, err))
	}
	return objectID, nil
}
