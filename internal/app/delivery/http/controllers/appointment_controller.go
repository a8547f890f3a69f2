package controllers

import (
	"context"
	"net/http"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AppointmentController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
	InternalConfig     *config.InternalConfig
}

var (
	appointmentControllerInstance *AppointmentController
	onceAppointmentController     sync.Once
)

func NewAppointmentController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase, internalConfig *config.InternalConfig) *AppointmentController {
	onceAppointmentController.Do(func() {
		appointmentControllerInstance = &AppointmentController{
			Log:                logger,
			AppointmentUsecase: appointmentUsecase,
			InternalConfig:     internalConfig,
		}
	})
	return appointmentControllerInstance
}

func (ctrl *AppointmentController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	userID, err := utils.GetCallerObjectID(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AppointmentController.CreateCheckoutSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID.Hex()),
	)

	request := new(requests.CreateCheckoutSession)
	if err := decodeBody(r, request, false); err != nil {
		ctrl.Log.Error("AppointmentController.CreateCheckoutSession invalid request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	response, err := ctrl.AppointmentUsecase.CreateCheckoutSession(ctx, userID, request)
	if err != nil {
		ctrl.Log.Error("AppointmentController.CreateCheckoutSession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, "usecase error"),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AppointmentController.CreateCheckoutSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CheckoutSessionCreatedSuccess, response)
}

type transitionCall func(ctx context.Context, callerID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error)

// runTransition is shared by every lifecycle endpoint: caller from the token,
// appointment from the URL, an optional cancel reason from the body.
func (ctrl *AppointmentController) runTransition(w http.ResponseWriter, r *http.Request, action, successMessage string, withBody bool, call transitionCall) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	callerID, err := utils.GetCallerObjectID(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	appointmentID, err := objectIDParam(r, "appointmentID")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AppointmentController.runTransition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentActionKey, action),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
		zap.String(constvars.LoggingCallerIDKey, callerID.Hex()),
	)

	var request *requests.CancelAppointment
	if withBody {
		request = new(requests.CancelAppointment)
		if err := decodeBody(r, request, true); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	appointment, err := call(ctx, callerID, appointmentID, request)
	if err != nil {
		ctrl.Log.Error("AppointmentController.runTransition error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentActionKey, action),
			zap.Int(constvars.LoggingStatusCodeKey, exceptions.StatusCodeOf(err)),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AppointmentController.runTransition succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentActionKey, action),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, successMessage, appointment)
}

func (ctrl *AppointmentController) AcceptAppointment(w http.ResponseWriter, r *http.Request) {
	ctrl.runTransition(w, r, "accept", constvars.AppointmentAcceptedSuccess, false,
		func(ctx context.Context, nurseID, appointmentID primitive.ObjectID, _ *requests.CancelAppointment) (*models.Appointment, error) {
			return ctrl.AppointmentUsecase.AcceptAppointment(ctx, nurseID, appointmentID)
		})
}

func (ctrl *AppointmentController) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	ctrl.runTransition(w, r, "reject", constvars.AppointmentRejectedSuccess, false,
		func(ctx context.Context, nurseID, appointmentID primitive.ObjectID, _ *requests.CancelAppointment) (*models.Appointment, error) {
			return ctrl.AppointmentUsecase.RejectAppointment(ctx, nurseID, appointmentID)
		})
}

func (ctrl *AppointmentController) UserCancelAppointment(w http.ResponseWriter, r *http.Request) {
	ctrl.runTransition(w, r, "user_cancel", constvars.AppointmentCancelledSuccess, true, ctrl.AppointmentUsecase.UserCancelAppointment)
}

func (ctrl *AppointmentController) CancelWithTax(w http.ResponseWriter, r *http.Request) {
	ctrl.runTransition(w, r, "cancel_with_tax", constvars.AppointmentCancelledSuccess, true, ctrl.AppointmentUsecase.CancelWithTax)
}

func (ctrl *AppointmentController) NurseCancelAppointment(w http.ResponseWriter, r *http.Request) {
	ctrl.runTransition(w, r, "nurse_cancel", constvars.AppointmentCancelledSuccess, true, ctrl.AppointmentUsecase.NurseCancelAppointment)
}

func (ctrl *AppointmentController) UserConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	ctrl.runTransition(w, r, "confirm", constvars.AppointmentConfirmedSuccess, false,
		func(ctx context.Context, userID, appointmentID primitive.ObjectID, _ *requests.CancelAppointment) (*models.Appointment, error) {
			return ctrl.AppointmentUsecase.UserConfirmAppointment(ctx, userID, appointmentID)
		})
}

func (ctrl *AppointmentController) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	appointmentID, err := objectIDParam(r, "appointmentID")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "appointment_delete_requested", requestID, utils.SeverityInfo,
		zap.String(constvars.LoggingCallerIDKey, utils.GetCallerID(r.Context())),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.AppointmentUsecase.DeleteAppointment(ctx, appointmentID); err != nil {
		ctrl.Log.Error("AppointmentController.DeleteAppointment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	w.WriteHeader(constvars.StatusNoContent)
}

func (ctrl *AppointmentController) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	appointments, err := ctrl.AppointmentUsecase.GetAllAppointments(ctx)
	if err != nil {
		ctrl.Log.Error("AppointmentController.GetAllAppointments error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponseWithResults(w, constvars.StatusOK, constvars.AppointmentsFetchedSuccess, len(appointments), appointments)
}

func (ctrl *AppointmentController) GetAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	appointmentID, err := objectIDParam(r, "appointmentID")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.GetAppointment(ctx, appointmentID)
	if err != nil {
		ctrl.Log.Error("AppointmentController.GetAppointment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AppointmentFetchedSuccess, appointment)
}

// ListMyAppointments serves /appointments/user/{bucket} and
// /appointments/nurse/{bucket}. Which bucket names exist depends on the role.
func (ctrl *AppointmentController) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	callerID, err := utils.GetCallerObjectID(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	kind := partyKindOf(utils.GetCallerRole(r.Context()))

	bucketName := chi.URLParam(r, "bucket")
	bucket, ok := models.ParseBucket(kind, bucketName)
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNotFound(nil, "appointment list "+bucketName))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	appointments, err := ctrl.AppointmentUsecase.ListPartyAppointments(ctx, kind, callerID, bucket)
	if err != nil {
		ctrl.Log.Error("AppointmentController.ListMyAppointments error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketKey, string(bucket)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponseWithResults(w, constvars.StatusOK, constvars.AppointmentsFetchedSuccess, len(appointments), appointments)
}
