package exceptions

import (
	"fmt"
	"nursecare-service/internal/pkg/constvars"
	"time"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidation, paramName))
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrReadBody = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevReadBody)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrTooManyRequests = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, constvars.ErrDevTooManyRequests)
	}
	ErrNotFound = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, fmt.Sprintf(constvars.ErrClientResourceNotFound, resource), fmt.Sprintf(constvars.ErrDevDocumentNotFound, resource))
	}
)

// auth
var (
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrTokenGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevAuthTokenGenerate)
	}
	ErrRoleNotAllowed = func(err error, role string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevRoleNotAllowed, role))
	}
)

// appointment lifecycle
var (
	ErrUnsupportedPricing = func(err error, appointmentType, option string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientUnsupportedPricing, fmt.Sprintf(constvars.ErrDevPricingUnsupported, appointmentType, option))
	}
	ErrOneActiveAppointment = func(err error, userID string, current int) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientOneActiveAppointment, fmt.Sprintf(constvars.ErrDevOneActiveAppointment, userID, current))
	}
	ErrAppointmentNotOwned = func(err error, callerID, role, appointmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientAppointmentNotBelongToYou, fmt.Sprintf(constvars.ErrDevNotOwner, callerID, role, appointmentID))
	}
	ErrAppointmentNotPaid = func(err error, appointmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientAppointmentNotPaid, fmt.Sprintf(constvars.ErrDevNotPaid, appointmentID))
	}
	ErrCancelUseTaxPath = func(err error, appointmentID string, insideWindow bool) *CustomError {
		clientMessage := constvars.ErrClientCancelUseTaxPath
		if insideWindow {
			clientMessage = constvars.ErrClientCancelUseTaxPathWindow
		}
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, clientMessage, fmt.Sprintf(constvars.ErrDevCancelAfterAcceptance, appointmentID))
	}
	ErrNurseCancelWindow = func(err error, appointmentID string, untilStart time.Duration) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrClientNurseCancelWindow, fmt.Sprintf(constvars.ErrDevNurseCancelWindow, appointmentID, untilStart))
	}
	ErrConfirmWithoutAcceptance = func(err error, appointmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrClientConfirmWithoutAcceptance, fmt.Sprintf(constvars.ErrDevConfirmWithoutAccept, appointmentID))
	}
	ErrConfirmBeforeSchedule = func(err error, appointmentID string, scheduledAt time.Time) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrClientConfirmBeforeSchedule, fmt.Sprintf(constvars.ErrDevConfirmBeforeSchedule, appointmentID, scheduledAt.Format(time.RFC3339)))
	}
	ErrIllegalTransition = func(err error, action, status, verb string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, fmt.Sprintf(constvars.ErrClientIllegalTransition, verb), fmt.Sprintf(constvars.ErrDevIllegalTransition, action, status))
	}
	ErrConcurrentTransition = func(err error, appointmentID, expectedStatus string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientConcurrentTransition, fmt.Sprintf(constvars.ErrDevMongoStaleTransition, appointmentID, expectedStatus))
	}
	ErrLockBusy = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientConcurrentTransition, fmt.Sprintf(constvars.ErrDevRedisLockBusy, key))
	}
	ErrChatNotParticipant = func(err error, callerID, chatID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientChatNotBelongToYou, fmt.Sprintf(constvars.ErrDevChatNotParticipant, callerID, chatID))
	}
)

// ledger
var (
	ErrLedgerCheckoutSession = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientPaymentProviderUnavailable, constvars.ErrDevLedgerCheckoutSession)
	}
	ErrLedgerRefund = func(err error, paymentIntentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientPaymentProviderUnavailable, fmt.Sprintf(constvars.ErrDevLedgerRefund, paymentIntentID))
	}
	ErrLedgerSignature = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidWebhookSignature, constvars.ErrDevLedgerSignature)
	}
	ErrLedgerMetadata = func(err error, field string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevLedgerMetadata, field))
	}
	ErrLedgerEventPayload = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevLedgerEventPayload)
	}
	ErrPushSend = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevPushSend)
	}
)

// drivers
var (
	ErrMongoInvalidID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevMongoInvalidID)
	}
	ErrMongoFind = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoFind, collection))
	}
	ErrMongoInsert = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoInsert, collection))
	}
	ErrMongoUpdate = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoUpdate, collection))
	}
	ErrMongoDelete = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoDelete, collection))
	}
	ErrMongoDecode = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoDecode, collection))
	}
	ErrMongoTransaction = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoTransaction)
	}
	ErrMongoCreateIndex = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoCreateIndex, collection))
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSet)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDelete)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}
	ErrRabbitMQPublishMessage = func(err error, queue string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublish, queue))
	}
	ErrRabbitMQFetchMessage = func(err error, queue string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQConsume, queue))
	}
	ErrMinioPutObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioPutObject, bucketName))
	}
	ErrMinioPresignObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioPresign, bucketName))
	}
)
