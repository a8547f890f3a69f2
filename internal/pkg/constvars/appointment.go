package constvars

const (
	AppointmentTypeFastService  = "fast-service"
	AppointmentTypeFullTimeCare = "full-time-care"
)

const (
	AppointmentCodeMin = 100000
	AppointmentCodeMax = 999999
)

const (
	CivilDateLayout = "2006-01-02"
	CivilTimeLayout = "15:04"
)

const (
	CheckoutModePayment       = "payment"
	CheckoutProductNameFormat = " Appointment - %s"
	CheckoutSuccessPath       = "/success"
	CheckoutCancelPath        = "/cancel"
	RefundIdempotencyFormat   = "refund-%s"
)

const (
	LedgerEventCheckoutCompleted = "checkout.session.completed"
)

// Metadata keys echoed back by the ledger on checkout completion.
const (
	MetadataAppointmentType   = "appointmentType"
	MetadataServiceOption     = "serviceOption"
	MetadataFrequency         = "frequency"
	MetadataHaveAvailableRoom = "haveAvailableRoom"
	MetadataArePeopleWithUser = "areTherePoepleWithUser"
	MetadataUserID            = "userId"
	MetadataNurseID           = "nurseId"
	MetadataAppointmentCode   = "appointmentCode"
	MetadataDate              = "date"
	MetadataTime              = "time"
	MetadataDays              = "days"
	MetadataNotes             = "notes"
	MetadataTotalCost         = "totalCost"
	MetadataTaxPrice          = "taxPrice"
)

const (
	NotificationTypeNotification = "notification"
	NotificationTypeMessage      = "message"
	NotificationStatusPositive   = "true"
	NotificationStatusNegative   = "false"
)

const (
	NotificationTitleRequest   = "Appointment Request"
	NotificationTitleAccepted  = "Appointment Accepted"
	NotificationTitleRejected  = "Appointment Rejected"
	NotificationTitleCancelled = "Appointment Cancelled"
	NotificationTitleConfirmed = "Appointment Confirmed"

	NotificationBodyRequestToNurse   = "%s sent to you a %s appointment request!"
	NotificationBodyRequestToUser    = "you make appointment request with %s Successfully !"
	NotificationBodyAccepted         = "%s has accepted your %s appointment!"
	NotificationBodyRejected         = "%s has rejected your %s appointment!"
	NotificationBodyCancelledByUser  = "%s has cancelled a %s appointment request!"
	NotificationBodyCancelledByNurse = "%s has cancelled your %s appointment!"
	NotificationBodyConfirmed        = "%s has confirmed a %s appointment is completed!"
)

const (
	ChatRoleUser  = "user"
	ChatRoleNurse = "nurse"
)

const (
	PushDeliveryPending = "pending"
	PushDeliveryQueued  = "queued"
	PushDeliverySent    = "sent"
	PushDeliverySkipped = "skipped"
	PushDeliveryFailed  = "failed"
)
