package controllers

import (
	"context"
	"net/http"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type WebhookController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
	InternalConfig     *config.InternalConfig
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase, internalConfig *config.InternalConfig) *WebhookController {
	onceWebhookController.Do(func() {
		webhookControllerInstance = &WebhookController{
			Log:                logger,
			AppointmentUsecase: appointmentUsecase,
			InternalConfig:     internalConfig,
		}
	})
	return webhookControllerInstance
}

// HandleLedgerWebhook processes POST /{prefix}/{version}/webhook. It must be
// mounted behind BodyBuffer. Any non-2xx answer makes the ledger redeliver.
func (ctrl *WebhookController) HandleLedgerWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "ledger_webhook_received", requestID, utils.SeverityInfo,
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
	)

	payload, ok := r.Context().Value(constvars.CONTEXT_RAW_BODY).([]byte)
	if !ok || len(payload) == 0 {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrReadBody(nil))
		return
	}
	signature := r.Header.Get(constvars.HeaderStripeSignature)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	ack, err := ctrl.AppointmentUsecase.HandleLedgerWebhook(ctx, payload, signature)
	if err != nil {
		ctrl.Log.Error("WebhookController.HandleLedgerWebhook error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, exceptions.StatusCodeOf(err)),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("WebhookController.HandleLedgerWebhook succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool("created", ack.Data != nil),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildRawJSONResponse(w, constvars.StatusOK, ack)
}
