package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":         "is required",
	"email":            "must be a valid email",
	"min":              "must be at least %s",
	"max":              "must be at most %s",
	"len":              "must be %s characters long",
	"oneof":            "must be one of [%s]",
	"gt":               "must be greater than %s",
	"gte":              "must be greater than or equal to %s",
	"lte":              "must be less than or equal to %s",
	"required_if":      "is required when %s",
	"mongo_id":         "must be a valid id",
	"appointment_type": "must be either 'fast-service' or 'full-time-care'",
	"civil_date":       "must be a date formatted as YYYY-MM-DD",
	"civil_time":       "must be a time formatted as HH:MM",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":         true,
	"max":         true,
	"len":         true,
	"oneof":       true,
	"gt":          true,
	"gte":         true,
	"lte":         true,
	"required_if": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientResourceNotFound              = "%s not found"
	ErrClientTooManyRequests               = "too many requests, please try again later"
	ErrClientConcurrentTransition          = "this appointment is being updated, please try again"
	ErrClientPaymentProviderUnavailable    = "payment provider is unavailable, please try again"
	ErrClientInvalidWebhookSignature       = "invalid webhook signature"

	ErrClientOneActiveAppointment      = "you have appointment that is not completed yet"
	ErrClientUnsupportedPricing        = "unsupported appointment type or service option"
	ErrClientAppointmentNotBelongToYou = "This appointment not belong to you"
	ErrClientAppointmentNotPaid        = "This appointment is not paid"
	ErrClientCancelUseTaxPath          = "Free cancellation is not available after nurse acceptance, use cancel with tax"
	ErrClientCancelUseTaxPathWindow    = "Free cancellation is not available less than half hour before the scheduled time, use cancel with tax"
	ErrClientNurseCancelWindow         = "You can only cancel appointments at least half hour before the scheduled time"
	ErrClientConfirmWithoutAcceptance  = "You can not confirm this appointment without nurse acceptance"
	ErrClientConfirmBeforeSchedule     = "You can not confirm appointment before the scheduled time"
	ErrClientIllegalTransition         = "This appointment can not be %s in its current state"
	ErrClientChatNotBelongToYou        = "This chat not belong to you"
)

// Error messages for developers
const (
	ErrDevInvalidInput              = "invalid input"
	ErrDevValidationFailed          = "validation failed"
	ErrDevCannotParseJSON           = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON         = "cannot convert struct or other data types to JSON"
	ErrDevURLParamIDValidation      = "url param %s is not a valid id"
	ErrDevReadBody                  = "cannot read request body"
	ErrDevServerDeadlineExceeded    = "server deadline exceeded"
	ErrDevMissingRequestID          = "request id missing from context"
	ErrDevAuthTokenMissing          = "auth token missing"
	ErrDevAuthTokenInvalidOrExpired = "auth token invalid or expired"
	ErrDevAuthTokenGenerate         = "failed to generate auth token"
	ErrDevRoleNotAllowed            = "role %s is not allowed to access this resource"
	ErrDevDocumentNotFound          = "%s document not found"
	ErrDevTooManyRequests           = "rate limit exceeded"

	ErrDevMongoInvalidID       = "invalid mongo object id"
	ErrDevMongoFind            = "failed to find documents in %s"
	ErrDevMongoInsert          = "failed to insert document into %s"
	ErrDevMongoUpdate          = "failed to update document in %s"
	ErrDevMongoDelete          = "failed to delete document from %s"
	ErrDevMongoDecode          = "failed to decode documents from %s"
	ErrDevMongoTransaction     = "mongo transaction aborted"
	ErrDevMongoCreateIndex     = "failed to create index on %s"
	ErrDevMongoStaleTransition = "appointment %s changed concurrently, expected status %s"

	ErrDevRedisSet        = "failed to set redis key"
	ErrDevRedisDelete     = "failed to delete redis key"
	ErrDevRedisUnlock     = "failed to release redis lock"
	ErrDevRedisLockBusy   = "lock %s held by another request"
	ErrDevRabbitMQPublish = "failed to publish message to queue %s"
	ErrDevRabbitMQConsume = "failed to fetch message from queue %s"
	ErrDevMinioPutObject  = "failed to put object into bucket %s"
	ErrDevMinioPresign    = "failed to presign object in bucket %s"

	ErrDevLedgerCheckoutSession = "ledger failed to create checkout session"
	ErrDevLedgerRefund          = "ledger failed to refund payment intent %s"
	ErrDevLedgerSignature       = "ledger webhook signature verification failed"
	ErrDevLedgerMetadata        = "ledger metadata field %s is missing or malformed"
	ErrDevLedgerEventPayload    = "ledger event payload cannot be decoded"
	ErrDevPushSend              = "push dispatcher failed to send to device"
	ErrDevPricingUnsupported    = "no price for appointment type %s with option %s"
	ErrDevOneActiveAppointment  = "user %s already holds %d current appointment(s)"
	ErrDevNotOwner              = "caller %s is not the %s of appointment %s"
	ErrDevNotPaid               = "appointment %s is not paid"
	ErrDevCancelAfterAcceptance = "appointment %s already accepted, free cancel refused"
	ErrDevNurseCancelWindow     = "appointment %s starts in %s, nurse cancel refused"
	ErrDevConfirmWithoutAccept  = "appointment %s not accepted by nurse"
	ErrDevConfirmBeforeSchedule = "appointment %s scheduled at %s, confirm refused"
	ErrDevIllegalTransition     = "transition %s not allowed from status %s"
	ErrDevChatNotParticipant    = "caller %s is not a participant of chat %s"
)
