package requests

type CreateCheckoutSession struct {
	AppointmentType        string `json:"appointmentType" validate:"required,appointment_type"`
	ServiceOption          string `json:"serviceOption" validate:"required_if=AppointmentType fast-service"`
	Frequency              string `json:"frequency" validate:"required_if=AppointmentType full-time-care"`
	HaveAvailableRoom      bool   `json:"haveAvailableRoom"`
	AreTherePeopleWithUser bool   `json:"areTherePoepleWithUser"`
	NurseID                string `json:"nurse" validate:"required,mongo_id"`
	Date                   string `json:"date" validate:"required,civil_date"`
	Time                   string `json:"time" validate:"required,civil_time"`
	Days                   int    `json:"days" validate:"required_if=AppointmentType full-time-care,gte=0,lte=365"`
	Notes                  string `json:"notes" validate:"max=1000"`
}

type CancelAppointment struct {
	CancelReason string `json:"cancelReason" validate:"max=500"`
}
