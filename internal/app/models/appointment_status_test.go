package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointment_Apply(t *testing.T) {
	cases := []struct {
		name   string
		from   AppointmentStatus
		action AppointmentAction
		want   AppointmentStatus
		ok     bool
	}{
		{"Accept Pending", AppointmentStatusPendingAcceptance, AppointmentActionAccept, AppointmentStatusActive, true},
		{"Reject Pending", AppointmentStatusPendingAcceptance, AppointmentActionReject, AppointmentStatusRejected, true},
		{"User Cancel Pending", AppointmentStatusPendingAcceptance, AppointmentActionUserCancel, AppointmentStatusCancelled, true},
		{"Nurse Cancel Active", AppointmentStatusActive, AppointmentActionNurseCancel, AppointmentStatusCancelled, true},
		{"Cancel With Tax Active", AppointmentStatusActive, AppointmentActionCancelWithTax, AppointmentStatusCancelled, true},
		{"Confirm Active", AppointmentStatusActive, AppointmentActionConfirm, AppointmentStatusCompleted, true},
		{"Confirm Pending", AppointmentStatusPendingAcceptance, AppointmentActionConfirm, AppointmentStatusPendingAcceptance, false},
		{"Accept Active", AppointmentStatusActive, AppointmentActionAccept, AppointmentStatusActive, false},
		{"User Cancel Active", AppointmentStatusActive, AppointmentActionUserCancel, AppointmentStatusActive, false},
		{"Anything From Completed", AppointmentStatusCompleted, AppointmentActionNurseCancel, AppointmentStatusCompleted, false},
		{"Anything From Rejected", AppointmentStatusRejected, AppointmentActionAccept, AppointmentStatusRejected, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appointment := &Appointment{Status: tc.from}
			got, err := appointment.Apply(tc.action)
			assert.Equal(t, tc.want, got)
			if !tc.ok {
				var transitionErr *TransitionError
				require.True(t, errors.As(err, &transitionErr))
				assert.Equal(t, tc.from, transitionErr.From)
				assert.Equal(t, tc.from, appointment.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, appointment.Status)
		})
	}
}

func TestAppointment_ApplyKeepsFlagsInStep(t *testing.T) {
	appointment := &Appointment{Status: AppointmentStatusPendingAcceptance, IsPaid: true}

	_, err := appointment.Apply(AppointmentActionAccept)
	require.NoError(t, err)
	assert.True(t, appointment.NurseAcceptance)

	_, err = appointment.Apply(AppointmentActionConfirm)
	require.NoError(t, err)
	assert.True(t, appointment.UserConfirm)
	assert.True(t, appointment.Completed)
	assert.False(t, appointment.Cancelled)
	assert.True(t, appointment.CurrentStatus().IsTerminal())
}

func TestAppointment_ApplyCancelAfterAcceptanceLeavesOneOutcomeFlag(t *testing.T) {
	for _, action := range []AppointmentAction{AppointmentActionCancelWithTax, AppointmentActionNurseCancel} {
		t.Run(string(action), func(t *testing.T) {
			appointment := &Appointment{Status: AppointmentStatusPendingAcceptance, IsPaid: true}
			_, err := appointment.Apply(AppointmentActionAccept)
			require.NoError(t, err)

			_, err = appointment.Apply(action)
			require.NoError(t, err)

			assert.True(t, appointment.Cancelled)
			assert.False(t, appointment.NurseAcceptance)
			assert.False(t, appointment.NurseRejection)
			assert.Equal(t, AppointmentStatusCancelled, StatusFromFlags(appointment))
		})
	}
}

func TestStatusFromFlags(t *testing.T) {
	t.Run("Legacy Accepted Document", func(t *testing.T) {
		appointment := &Appointment{NurseAcceptance: true}
		assert.Equal(t, AppointmentStatusActive, appointment.CurrentStatus())
	})

	t.Run("Legacy Document With Both Flags Reads As Cancelled", func(t *testing.T) {
		appointment := &Appointment{NurseAcceptance: true, Cancelled: true}
		assert.Equal(t, AppointmentStatusCancelled, appointment.CurrentStatus())
	})

	t.Run("Stored Status Wins", func(t *testing.T) {
		appointment := &Appointment{Status: AppointmentStatusRejected}
		assert.Equal(t, AppointmentStatusRejected, appointment.CurrentStatus())
	})
}

func TestParseBucket(t *testing.T) {
	bucket, ok := ParseBucket(PartyKindNurse, "requests")
	assert.True(t, ok)
	assert.Equal(t, BucketRequests, bucket)

	_, ok = ParseBucket(PartyKindUser, "requests")
	assert.False(t, ok)

	_, ok = ParseBucket(PartyKindNurse, "rejected")
	assert.False(t, ok)

	assert.Len(t, Buckets(PartyKindUser), 4)
}
