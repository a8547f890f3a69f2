package models

import "fmt"

type AppointmentStatus string

const (
	AppointmentStatusPendingAcceptance AppointmentStatus = "pending_acceptance"
	AppointmentStatusActive            AppointmentStatus = "active"
	AppointmentStatusRejected          AppointmentStatus = "rejected"
	AppointmentStatusCancelled         AppointmentStatus = "cancelled"
	AppointmentStatusCompleted         AppointmentStatus = "completed"
)

type AppointmentAction string

const (
	AppointmentActionAccept        AppointmentAction = "accept"
	AppointmentActionReject        AppointmentAction = "reject"
	AppointmentActionUserCancel    AppointmentAction = "user_cancel"
	AppointmentActionCancelWithTax AppointmentAction = "cancel_with_tax"
	AppointmentActionNurseCancel   AppointmentAction = "nurse_cancel"
	AppointmentActionConfirm       AppointmentAction = "confirm"
)

var appointmentTransitions = map[AppointmentStatus]map[AppointmentAction]AppointmentStatus{
	AppointmentStatusPendingAcceptance: {
		AppointmentActionAccept:        AppointmentStatusActive,
		AppointmentActionReject:        AppointmentStatusRejected,
		AppointmentActionUserCancel:    AppointmentStatusCancelled,
		AppointmentActionCancelWithTax: AppointmentStatusCancelled,
		AppointmentActionNurseCancel:   AppointmentStatusCancelled,
	},
	AppointmentStatusActive: {
		AppointmentActionCancelWithTax: AppointmentStatusCancelled,
		AppointmentActionNurseCancel:   AppointmentStatusCancelled,
		AppointmentActionConfirm:       AppointmentStatusCompleted,
	},
}

type TransitionError struct {
	From   AppointmentStatus
	Action AppointmentAction
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("action %s is not allowed from status %s", e.Action, e.From)
}

// NextAppointmentStatus looks up the transition table.
func NextAppointmentStatus(from AppointmentStatus, action AppointmentAction) (AppointmentStatus, bool) {
	next, ok := appointmentTransitions[from][action]
	return next, ok
}

func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// Verb is the past participle used in client messages.
func (a AppointmentAction) Verb() string {
	switch a {
	case AppointmentActionAccept:
		return "accepted"
	case AppointmentActionReject:
		return "rejected"
	case AppointmentActionConfirm:
		return "confirmed"
	default:
		return "cancelled"
	}
}

// StatusFromFlags derives the status of documents written before the status
// field existed.
func StatusFromFlags(a *Appointment) AppointmentStatus {
	switch {
	case a.Completed:
		return AppointmentStatusCompleted
	case a.Cancelled:
		return AppointmentStatusCancelled
	case a.NurseRejection:
		return AppointmentStatusRejected
	case a.NurseAcceptance:
		return AppointmentStatusActive
	default:
		return AppointmentStatusPendingAcceptance
	}
}

func (a *Appointment) CurrentStatus() AppointmentStatus {
	if a.Status != "" {
		return a.Status
	}
	return StatusFromFlags(a)
}

// Apply moves the appointment along the transition table and keeps the
// boolean flags in step with the status. At most one of NurseAcceptance,
// NurseRejection and Cancelled is set afterwards.
func (a *Appointment) Apply(action AppointmentAction) (AppointmentStatus, error) {
	from := a.CurrentStatus()
	next, ok := NextAppointmentStatus(from, action)
	if !ok {
		return from, &TransitionError{From: from, Action: action}
	}

	switch action {
	case AppointmentActionAccept:
		a.NurseAcceptance = true
	case AppointmentActionReject:
		a.NurseRejection = true
	case AppointmentActionUserCancel, AppointmentActionCancelWithTax, AppointmentActionNurseCancel:
		a.NurseAcceptance = false
		a.Cancelled = true
	case AppointmentActionConfirm:
		a.UserConfirm = true
		a.Completed = true
	}
	a.Status = next
	return next, nil
}
