package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	CheckoutSessionCreatedSuccess = "checkout session created successfully"
	WebhookReceivedSuccess        = "webhook received"
	WebhookDuplicateIgnored       = "webhook event already processed"
	WebhookEventIgnored           = "webhook event type ignored"
	AppointmentAcceptedSuccess    = "appointment accepted successfully"
	AppointmentRejectedSuccess    = "appointment rejected successfully"
	AppointmentCancelledSuccess   = "appointment cancelled successfully"
	AppointmentConfirmedSuccess   = "appointment confirmed successfully"
	AppointmentFetchedSuccess     = "get appointment successfully"
	AppointmentsFetchedSuccess    = "get appointments successfully"
	ChatMessageSentSuccess        = "message sent successfully"
	ChatFetchedSuccess            = "get chat successfully"
	ChatsFetchedSuccess           = "get chats successfully"
	PaymentSuccessPageMessage     = "payment completed, your appointment request was sent to the nurse"
	PaymentCancelPageMessage      = "payment cancelled, no appointment was created"
	HealthCheckSuccess            = "ok"
)
