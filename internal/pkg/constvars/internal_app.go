package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_RAW_BODY                 ContextKey = "raw_body"
	CONTEXT_CALLER_ID_KEY            ContextKey = "caller_id"
	CONTEXT_CALLER_ROLE_KEY          ContextKey = "caller_role"
)

const (
	REQUEST_ID_PREFIX = "NRSCR_SVC_"
)

const (
	RoleUser  = "user"
	RoleNurse = "nurse"
	RoleAdmin = "admin"
)

const (
	ResourceAppointments = "appointments"
	ResourceChats        = "chats"
	ResourceWebhook      = "webhook"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

const (
	LockKeyAppointmentFormat = "appointment:lock:%s"
	LockKeyOutboxRelay       = "notifications:outbox:relay:lock"
	LockKeyPushWorker        = "notifications:push:worker:lock"
)

const (
	LedgerArchiveObjectFormat = "ledger-events/%s/%s.json"
)
