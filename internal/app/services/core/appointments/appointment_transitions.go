package appointments

import (
	"context"
	"errors"
	"fmt"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// refundPolicy returns the amount to refund in minor units and whether a
// refund is due at all. A zero amount with ok set refunds the whole charge.
type refundPolicy func(appointment *models.Appointment) (amount int64, ok bool)

func fullRefund(*models.Appointment) (int64, bool) {
	return 0, true
}

// taxRetainedRefund returns the charge minus the tax, which is kept.
func taxRetainedRefund(appointment *models.Appointment) (int64, bool) {
	amount := toMinorUnits(appointment.TotalCost) - toMinorUnits(appointment.TaxPrice)
	return amount, amount > 0
}

type transition struct {
	method        string
	action        models.AppointmentAction
	callerKind    models.PartyKind
	callerID      primitive.ObjectID
	appointmentID primitive.ObjectID
	cancelReason  string
	guard         func(appointment *models.Appointment, now time.Time) error
	refund        refundPolicy
	effects       func(ctx context.Context, appointment *models.Appointment, user, nurse *models.Party, now time.Time) error
}

func (uc *appointmentUsecase) lockTTL() time.Duration {
	ttl := time.Duration(uc.InternalConfig.Appointment.LockTTLInSeconds) * time.Second
	if ttl <= 0 {
		return defaultLockTTL
	}
	return ttl
}

func (uc *appointmentUsecase) cancellationWindow() time.Duration {
	return time.Duration(uc.InternalConfig.Appointment.CancellationWindowInMinutes) * time.Minute
}

// withAppointmentLock serializes every mutation of one appointment across
// instances. A held lock is reported as a conflict instead of waiting.
func (uc *appointmentUsecase) withAppointmentLock(ctx context.Context, appointmentID primitive.ObjectID, fn func() error) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	key := fmt.Sprintf(constvars.LockKeyAppointmentFormat, appointmentID.Hex())

	acquired, lockValue, err := uc.LockService.TryLock(ctx, key, uc.lockTTL())
	if err != nil {
		return err
	}
	if !acquired {
		return exceptions.ErrLockBusy(nil, key)
	}
	defer func() {
		// The request deadline may already have fired.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
		defer cancel()
		if err := uc.LockService.Unlock(releaseCtx, key, lockValue); err != nil {
			uc.Log.Error("appointmentUsecase.withAppointmentLock error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
				zap.Error(err),
			)
		}
	}()

	return fn()
}

func (uc *appointmentUsecase) runTransition(ctx context.Context, t transition) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info(t.method+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, t.appointmentID.Hex()),
		zap.String(constvars.LoggingCallerIDKey, t.callerID.Hex()),
		zap.String(constvars.LoggingAppointmentActionKey, string(t.action)),
	)

	var result *models.Appointment
	err := uc.withAppointmentLock(ctx, t.appointmentID, func() error {
		appointment, err := uc.AppointmentRepository.FindByID(ctx, t.appointmentID)
		if err != nil {
			return err
		}
		if appointment == nil {
			return exceptions.ErrNotFound(nil, constvars.ResourceAppointments)
		}

		owner := appointment.User
		if t.callerKind == models.PartyKindNurse {
			owner = appointment.Nurse
		}
		if owner != t.callerID {
			utils.LogSecurityEvent(uc.Log, "appointment_not_owned", requestID, utils.SeverityLow,
				zap.String(constvars.LoggingCallerIDKey, t.callerID.Hex()),
				zap.String(constvars.LoggingAppointmentIDKey, t.appointmentID.Hex()),
			)
			return exceptions.ErrAppointmentNotOwned(nil, t.callerID.Hex(), string(t.callerKind), t.appointmentID.Hex())
		}

		user, nurse, err := uc.loadParties(ctx, appointment)
		if err != nil {
			return err
		}

		expected := appointment.CurrentStatus()
		if expected.IsTerminal() {
			return exceptions.ErrIllegalTransition(nil, string(t.action), string(expected), t.action.Verb())
		}

		now := uc.Clock.Now()
		if t.guard != nil {
			if err := t.guard(appointment, now); err != nil {
				return err
			}
		}

		if _, err := appointment.Apply(t.action); err != nil {
			var transitionErr *models.TransitionError
			if errors.As(err, &transitionErr) {
				return exceptions.ErrIllegalTransition(err, string(t.action), string(expected), t.action.Verb())
			}
			return err
		}

		if t.refund != nil {
			if err := uc.refund(ctx, appointment, t.refund, now); err != nil {
				return err
			}
		}

		if t.cancelReason != "" {
			appointment.CancelReason = t.cancelReason
		}
		appointment.UpdatedAt = now

		err = uc.TransactionManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := uc.AppointmentRepository.UpdateTransition(txCtx, appointment, expected); err != nil {
				return err
			}
			return t.effects(txCtx, appointment, user, nurse, now)
		})
		if err != nil {
			return err
		}

		result = appointment
		return nil
	})
	if err != nil {
		uc.Log.Error(t.method+" failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, t.appointmentID.Hex()),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogAppointmentEvent(uc.Log, "appointment_"+string(t.action), requestID, result.ID.Hex(), string(result.Status))
	return result, nil
}

// refund runs before any state is written. Retries reuse the same
// idempotency key.
func (uc *appointmentUsecase) refund(ctx context.Context, appointment *models.Appointment, policy refundPolicy, now time.Time) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	amount, ok := policy(appointment)
	if !ok {
		uc.Log.Info("appointmentUsecase.refund nothing to refund",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
		)
		return nil
	}
	if appointment.PaymentIntentID == "" {
		uc.Log.Warn("appointmentUsecase.refund appointment has no payment intent",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
		)
		return nil
	}

	output, err := uc.PaymentGateway.Refund(ctx, &contracts.RefundInput{
		PaymentIntentID: appointment.PaymentIntentID,
		Amount:          amount,
		IdempotencyKey:  fmt.Sprintf(constvars.RefundIdempotencyFormat, appointment.ID.Hex()),
	})
	if err != nil {
		return err
	}
	appointment.MarkRefunded(output.RefundID, now)

	uc.Log.Info("appointmentUsecase.refund succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
		zap.String(constvars.LoggingRefundIDKey, output.RefundID),
		zap.Int64(constvars.LoggingRefundAmountKey, amount),
	)
	return nil
}

func (uc *appointmentUsecase) AcceptAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	return uc.runTransition(ctx, transition{
		method:        "appointmentUsecase.AcceptAppointment",
		action:        models.AppointmentActionAccept,
		callerKind:    models.PartyKindNurse,
		callerID:      nurseID,
		appointmentID: appointmentID,
		guard: func(appointment *models.Appointment, _ time.Time) error {
			if !appointment.IsPaid {
				return exceptions.ErrAppointmentNotPaid(nil, appointment.ID.Hex())
			}
			return nil
		},
		effects: func(ctx context.Context, appointment *models.Appointment, user, nurse *models.Party, now time.Time) error {
			if err := uc.NurseRepository.MoveAppointment(ctx, nurse.ID, appointment.ID, []models.Bucket{models.BucketRequests}, models.BucketCurrent); err != nil {
				return err
			}
			return uc.notify(ctx, appointment, notice{
				recipient: user,
				sender:    nurse,
				title:     constvars.NotificationTitleAccepted,
				body:      fmt.Sprintf(constvars.NotificationBodyAccepted, nurse.Name, appointment.AppointmentType),
				status:    constvars.NotificationStatusPositive,
			}, now)
		},
	})
}

// RejectAppointment does not refund the user.
// TODO: refund the full charge on rejection once support agrees on the policy.
func (uc *appointmentUsecase) RejectAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	return uc.runTransition(ctx, transition{
		method:        "appointmentUsecase.RejectAppointment",
		action:        models.AppointmentActionReject,
		callerKind:    models.PartyKindNurse,
		callerID:      nurseID,
		appointmentID: appointmentID,
		effects: func(ctx context.Context, appointment *models.Appointment, user, nurse *models.Party, now time.Time) error {
			if err := uc.UserRepository.MoveAppointment(ctx, user.ID, appointment.ID, []models.Bucket{models.BucketCurrent}, models.BucketRejected); err != nil {
				return err
			}
			if err := uc.NurseRepository.MoveAppointment(ctx, nurse.ID, appointment.ID, []models.Bucket{models.BucketRequests}, ""); err != nil {
				return err
			}
			return uc.notify(ctx, appointment, notice{
				recipient: user,
				sender:    nurse,
				title:     constvars.NotificationTitleRejected,
				body:      fmt.Sprintf(constvars.NotificationBodyRejected, nurse.Name, appointment.AppointmentType),
				status:    constvars.NotificationStatusNegative,
			}, now)
		},
	})
}

func (uc *appointmentUsecase) cancelledByUserEffects(ctx context.Context, appointment *models.Appointment, user, nurse *models.Party, now time.Time) error {
	if err := uc.UserRepository.MoveAppointment(ctx, user.ID, appointment.ID, []models.Bucket{models.BucketCurrent}, models.BucketCancelled); err != nil {
		return err
	}
	if err := uc.NurseRepository.MoveAppointment(ctx, nurse.ID, appointment.ID, []models.Bucket{models.BucketRequests, models.BucketCurrent}, models.BucketCancelled); err != nil {
		return err
	}
	return uc.notify(ctx, appointment, notice{
		recipient: nurse,
		sender:    user,
		title:     constvars.NotificationTitleCancelled,
		body:      fmt.Sprintf(constvars.NotificationBodyCancelledByUser, user.Name, appointment.AppointmentType),
		status:    constvars.NotificationStatusNegative,
	}, now)
}

// UserCancelAppointment is the free cancellation, only open before the nurse
// accepts. It refunds the whole charge.
func (uc *appointmentUsecase) UserCancelAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error) {
	return uc.runTransition(ctx, transition{
		method:        "appointmentUsecase.UserCancelAppointment",
		action:        models.AppointmentActionUserCancel,
		callerKind:    models.PartyKindUser,
		callerID:      userID,
		appointmentID: appointmentID,
		cancelReason:  cancelReasonOf(request),
		guard: func(appointment *models.Appointment, now time.Time) error {
			if appointment.NurseAcceptance {
				insideWindow := appointment.UntilStart(now) < uc.cancellationWindow()
				return exceptions.ErrCancelUseTaxPath(nil, appointment.ID.Hex(), insideWindow)
			}
			return nil
		},
		refund:  fullRefund,
		effects: uc.cancelledByUserEffects,
	})
}

// CancelWithTax cancels at any open stage and refunds everything but the tax.
func (uc *appointmentUsecase) CancelWithTax(ctx context.Context, userID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error) {
	return uc.runTransition(ctx, transition{
		method:        "appointmentUsecase.CancelWithTax",
		action:        models.AppointmentActionCancelWithTax,
		callerKind:    models.PartyKindUser,
		callerID:      userID,
		appointmentID: appointmentID,
		cancelReason:  cancelReasonOf(request),
		refund:        taxRetainedRefund,
		effects:       uc.cancelledByUserEffects,
	})
}

func (uc *appointmentUsecase) NurseCancelAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error) {
	return uc.runTransition(ctx, transition{
		method:        "appointmentUsecase.NurseCancelAppointment",
		action:        models.AppointmentActionNurseCancel,
		callerKind:    models.PartyKindNurse,
		callerID:      nurseID,
		appointmentID: appointmentID,
		cancelReason:  cancelReasonOf(request),
		guard: func(appointment *models.Appointment, now time.Time) error {
			untilStart := appointment.UntilStart(now)
			if appointment.NurseAcceptance && untilStart < uc.cancellationWindow() {
				return exceptions.ErrNurseCancelWindow(nil, appointment.ID.Hex(), untilStart)
			}
			return nil
		},
		refund: fullRefund,
		effects: func(ctx context.Context, appointment *models.Appointment, user, nurse *models.Party, now time.Time) error {
			if err := uc.UserRepository.MoveAppointment(ctx, user.ID, appointment.ID, []models.Bucket{models.BucketCurrent}, models.BucketCancelled); err != nil {
				return err
			}
			if err := uc.NurseRepository.MoveAppointment(ctx, nurse.ID, appointment.ID, []models.Bucket{models.BucketRequests, models.BucketCurrent}, models.BucketCancelled); err != nil {
				return err
			}
			return uc.notify(ctx, appointment, notice{
				recipient: user,
				sender:    nurse,
				title:     constvars.NotificationTitleCancelled,
				body:      fmt.Sprintf(constvars.NotificationBodyCancelledByNurse, nurse.Name, appointment.AppointmentType),
				status:    constvars.NotificationStatusNegative,
			}, now)
		},
	})
}

func (uc *appointmentUsecase) UserConfirmAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	return uc.runTransition(ctx, transition{
		method:        "appointmentUsecase.UserConfirmAppointment",
		action:        models.AppointmentActionConfirm,
		callerKind:    models.PartyKindUser,
		callerID:      userID,
		appointmentID: appointmentID,
		guard: func(appointment *models.Appointment, now time.Time) error {
			if !appointment.NurseAcceptance {
				return exceptions.ErrConfirmWithoutAcceptance(nil, appointment.ID.Hex())
			}
			if appointment.AppointmentType == constvars.AppointmentTypeFastService && now.Before(appointment.DateTime) {
				return exceptions.ErrConfirmBeforeSchedule(nil, appointment.ID.Hex(), appointment.DateTime)
			}
			return nil
		},
		effects: func(ctx context.Context, appointment *models.Appointment, user, nurse *models.Party, now time.Time) error {
			if err := uc.UserRepository.MoveAppointment(ctx, user.ID, appointment.ID, []models.Bucket{models.BucketCurrent}, models.BucketCompleted); err != nil {
				return err
			}
			if err := uc.NurseRepository.MoveAppointment(ctx, nurse.ID, appointment.ID, []models.Bucket{models.BucketCurrent}, models.BucketCompleted); err != nil {
				return err
			}
			if err := uc.NurseRepository.IncrementPatients(ctx, nurse.ID); err != nil {
				return err
			}
			return uc.notify(ctx, appointment, notice{
				recipient: nurse,
				sender:    user,
				title:     constvars.NotificationTitleConfirmed,
				body:      fmt.Sprintf(constvars.NotificationBodyConfirmed, user.Name, appointment.AppointmentType),
				status:    constvars.NotificationStatusPositive,
			}, now)
		},
	})
}

// DeleteAppointment removes the document and every bucket reference to it.
// No refund is issued.
func (uc *appointmentUsecase) DeleteAppointment(ctx context.Context, appointmentID primitive.ObjectID) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.DeleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
	)

	err := uc.withAppointmentLock(ctx, appointmentID, func() error {
		appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if appointment == nil {
			return exceptions.ErrNotFound(nil, constvars.ResourceAppointments)
		}

		return uc.TransactionManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := uc.UserRepository.PullAppointmentEverywhere(txCtx, appointment.User, appointment.ID); err != nil {
				return err
			}
			if err := uc.NurseRepository.PullAppointmentEverywhere(txCtx, appointment.Nurse, appointment.ID); err != nil {
				return err
			}
			return uc.AppointmentRepository.DeleteByID(txCtx, appointment.ID)
		})
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.DeleteAppointment failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("appointmentUsecase.DeleteAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
	)
	return nil
}

func cancelReasonOf(request *requests.CancelAppointment) string {
	if request == nil {
		return ""
	}
	return request.CancelReason
}
