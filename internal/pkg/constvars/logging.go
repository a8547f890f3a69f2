package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingDataKey               = "data"
	LoggingQueryParamsKey        = "query_params"
	LoggingResponseKey           = "response"
	LoggingRequestKey            = "request"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingOperationKey          = "operation"
	LoggingErrorTypeKey          = "error_type"
	LoggingErrorCodeKey          = "error_code"
	LoggingErrorMessageKey       = "error_message"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration"
	LoggingQueueNameKey          = "queue_name"
	LoggingCollectionKey         = "collection"
	LoggingAppointmentIDKey      = "appointment_id"
	LoggingAppointmentTypeKey    = "appointment_type"
	LoggingAppointmentStatusKey  = "appointment_status"
	LoggingAppointmentActionKey  = "appointment_action"
	LoggingUserIDKey             = "user_id"
	LoggingNurseIDKey            = "nurse_id"
	LoggingCallerIDKey           = "caller_id"
	LoggingCallerRoleKey         = "caller_role"
	LoggingChatIDKey             = "chat_id"
	LoggingNotificationIDKey     = "notification_id"
	LoggingEventIDKey            = "event_id"
	LoggingEventTypeKey          = "event_type"
	LoggingPaymentIntentIDKey    = "payment_intent_id"
	LoggingRefundIDKey           = "refund_id"
	LoggingRefundAmountKey       = "refund_amount"
	LoggingBucketKey             = "bucket"
	LoggingCountKey              = "count"
	LoggingMessageIDKey          = "message_id"
	LoggingFailedCountKey        = "failed_count"
	LoggingBusinessEventKey      = "business_event"
	LoggingSecurityEventKey      = "security_event"
	LoggingSeverityKey           = "severity"
	LoggingTimestampKey          = "timestamp"
)
