package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Appointment struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User                   primitive.ObjectID `json:"user" bson:"user"`
	Nurse                  primitive.ObjectID `json:"nurse" bson:"nurse"`
	AppointmentType        string             `json:"appointmentType" bson:"appointmentType"`
	ServiceOption          string             `json:"serviceOption,omitempty" bson:"serviceOption,omitempty"`
	Frequency              string             `json:"frequency,omitempty" bson:"frequency,omitempty"`
	HaveAvailableRoom      bool               `json:"haveAvailableRoom" bson:"haveAvailableRoom"`
	AreTherePeopleWithUser bool               `json:"areTherePoepleWithUser" bson:"areTherePoepleWithUser"`
	Date                   string             `json:"date" bson:"date"`
	Time                   string             `json:"time" bson:"time"`
	DateTime               time.Time          `json:"dateTime" bson:"dateTime"`
	End                    string             `json:"end,omitempty" bson:"end,omitempty"`
	Days                   int                `json:"days,omitempty" bson:"days,omitempty"`
	Notes                  string             `json:"notes,omitempty" bson:"notes,omitempty"`
	AppointmentCode        string             `json:"appointmentCode" bson:"appointmentCode"`
	TotalCost              float64            `json:"totalCost" bson:"totalCost"`
	TaxPrice               float64            `json:"taxPrice" bson:"taxPrice"`
	IsPaid                 bool               `json:"isPaid" bson:"isPaid"`
	PaymentIntentID        string             `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`
	PaidAt                 *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	RefundedAt             *time.Time         `json:"refundedAt,omitempty" bson:"refundedAt,omitempty"`
	RefundID               string             `json:"refundId,omitempty" bson:"refundId,omitempty"`
	Transferred            bool               `json:"transferred" bson:"transferred"`
	TransferID             string             `json:"transferId,omitempty" bson:"transferId,omitempty"`
	TransferredAt          *time.Time         `json:"transferredAt,omitempty" bson:"transferredAt,omitempty"`
	Status                 AppointmentStatus  `json:"status" bson:"status"`
	UserConfirm            bool               `json:"userConfirm" bson:"userConfirm"`
	NurseAcceptance        bool               `json:"nurseAcceptance" bson:"nurseAcceptance"`
	NurseRejection         bool               `json:"nurseRejection" bson:"nurseRejection"`
	Completed              bool               `json:"completed" bson:"completed"`
	Cancelled              bool               `json:"cancelled" bson:"cancelled"`
	CancelReason           string             `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	LedgerEventID          string             `json:"-" bson:"ledgerEventId,omitempty"`
	TimeModel              `bson:",inline"`
}

// MarkRefunded stamps the refund pair. Both fields are written together.
func (a *Appointment) MarkRefunded(refundID string, at time.Time) {
	a.RefundID = refundID
	a.RefundedAt = &at
}

// UntilStart is the signed distance from now to the scheduled start.
func (a *Appointment) UntilStart(now time.Time) time.Duration {
	return a.DateTime.Sub(now)
}
