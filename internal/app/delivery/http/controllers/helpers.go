package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func requestTimeout(internalConfig *config.InternalConfig) time.Duration {
	if internalConfig == nil || internalConfig.App.RequestTimeoutInSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(internalConfig.App.RequestTimeoutInSeconds) * time.Second
}

// requireRequestID mirrors the check every handler starts with. RequestIDMiddleware
// always sets it, so a miss means the route was mounted outside the stack.
func requireRequestID(log *zap.Logger, w http.ResponseWriter, r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, exceptions.ErrURLParamIDValidation(err, name)
	}
	return objectID, nil
}

// decodeBody parses and validates a JSON body. With optional set, an empty body
// leaves dst at its zero value.
func decodeBody(r *http.Request, dst interface{}, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return exceptions.ErrCannotParseJSON(err)
	}
	if err := utils.ValidateStruct(dst); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}

func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}

func partyKindOf(role string) models.PartyKind {
	if role == constvars.RoleNurse {
		return models.PartyKindNurse
	}
	return models.PartyKindUser
}
