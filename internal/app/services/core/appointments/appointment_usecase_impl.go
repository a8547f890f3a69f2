package appointments

import (
	"context"
	"errors"
	"fmt"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/dto/responses"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	appointmentUsecaseInstance contracts.AppointmentUsecase
	onceAppointmentUsecase     sync.Once
)

var errDuplicateLedgerEvent = errors.New("ledger event already processed")

const (
	defaultLockTTL     = 10 * time.Second
	lockReleaseTimeout = 3 * time.Second
)

type appointmentUsecase struct {
	AppointmentRepository  contracts.AppointmentRepository
	UserRepository         contracts.PartyRepository
	NurseRepository        contracts.PartyRepository
	NotificationRepository contracts.NotificationRepository
	LedgerEventRepository  contracts.LedgerEventRepository
	TransactionManager     contracts.TransactionManager
	ChatUsecase            contracts.ChatUsecase
	PaymentGateway         contracts.PaymentGatewayService
	LockService            contracts.LockerService
	Storage                contracts.Storage
	Clock                  contracts.Clock
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
}

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	userRepository contracts.PartyRepository,
	nurseRepository contracts.PartyRepository,
	notificationRepository contracts.NotificationRepository,
	ledgerEventRepository contracts.LedgerEventRepository,
	transactionManager contracts.TransactionManager,
	chatUsecase contracts.ChatUsecase,
	paymentGateway contracts.PaymentGatewayService,
	lockService contracts.LockerService,
	storage contracts.Storage,
	clock contracts.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	onceAppointmentUsecase.Do(func() {
		appointmentUsecaseInstance = &appointmentUsecase{
			AppointmentRepository:  appointmentRepository,
			UserRepository:         userRepository,
			NurseRepository:        nurseRepository,
			NotificationRepository: notificationRepository,
			LedgerEventRepository:  ledgerEventRepository,
			TransactionManager:     transactionManager,
			ChatUsecase:            chatUsecase,
			PaymentGateway:         paymentGateway,
			LockService:            lockService,
			Storage:                storage,
			Clock:                  clock,
			InternalConfig:         internalConfig,
			Log:                    logger,
		}
	})
	return appointmentUsecaseInstance
}

func (uc *appointmentUsecase) CreateCheckoutSession(ctx context.Context, userID primitive.ObjectID, request *requests.CreateCheckoutSession) (*responses.CheckoutSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CreateCheckoutSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID.Hex()),
		zap.String(constvars.LoggingAppointmentTypeKey, request.AppointmentType),
	)

	cost, err := ComputeCost(request.AppointmentType, request.ServiceOption, request.Frequency, request.Days)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateCheckoutSession error computing cost",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateCheckoutSession error finding user",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.MongoCollectionUsers)
	}

	if len(user.CurrentAppointments) > 0 {
		err := exceptions.ErrOneActiveAppointment(nil, userID.Hex(), len(user.CurrentAppointments))
		uc.Log.Error("appointmentUsecase.CreateCheckoutSession user already has a current appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	nurseID, err := primitive.ObjectIDFromHex(request.NurseID)
	if err != nil {
		return nil, exceptions.ErrMongoInvalidID(err)
	}
	nurse, err := uc.NurseRepository.FindByID(ctx, nurseID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateCheckoutSession error finding nurse",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if nurse == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.MongoCollectionNurses)
	}

	appointmentCode, err := utils.GenerateAppointmentCode()
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateCheckoutSession error generating appointment code",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrLedgerCheckoutSession(err)
	}

	baseURL := fmt.Sprintf("%s/%s/%s", uc.InternalConfig.App.BaseURL, uc.InternalConfig.App.EndpointPrefix, uc.InternalConfig.App.Version)
	session, err := uc.PaymentGateway.CreateCheckoutSession(ctx, &contracts.CheckoutSessionInput{
		Currency:      uc.InternalConfig.Stripe.Currency,
		ProductName:   fmt.Sprintf(constvars.CheckoutProductNameFormat, request.AppointmentType),
		UnitAmount:    cost.TotalMinor,
		SuccessURL:    baseURL + constvars.CheckoutSuccessPath,
		CancelURL:     baseURL + constvars.CheckoutCancelPath,
		CustomerEmail: user.Email,
		Metadata:      buildCheckoutMetadata(userID, request, cost, appointmentCode),
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateCheckoutSession error creating checkout session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.CreateCheckoutSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID.Hex()),
		zap.Int64("unit_amount", cost.TotalMinor),
	)
	return &responses.CheckoutSession{
		SessionURL: session.URL,
		Total:      cost.Total(),
		Tax:        cost.Tax(),
	}, nil
}

// HandleLedgerWebhook turns a verified checkout completion into a paid
// appointment. Redelivered events are acknowledged without side effects.
func (uc *appointmentUsecase) HandleLedgerWebhook(ctx context.Context, payload []byte, signature string) (*responses.WebhookAck, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.HandleLedgerWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	event, err := uc.PaymentGateway.VerifyWebhook(payload, signature)
	if err != nil {
		utils.LogSecurityEvent(uc.Log, "ledger_signature_rejected", requestID, utils.SeverityMedium, zap.Error(err))
		return nil, err
	}

	if event.Type != constvars.LedgerEventCheckoutCompleted || event.Checkout == nil {
		uc.Log.Info("appointmentUsecase.HandleLedgerWebhook event type ignored",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.String(constvars.LoggingEventTypeKey, event.Type),
		)
		return &responses.WebhookAck{Received: true}, nil
	}

	uc.archiveLedgerEvent(ctx, event)

	now := uc.Clock.Now()
	appointment, err := appointmentFromCheckout(event.Checkout, uc.Clock, now)
	if err != nil {
		uc.Log.Error("appointmentUsecase.HandleLedgerWebhook error reading checkout metadata",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.Error(err),
		)
		return nil, err
	}
	if appointment.PaymentIntentID == "" {
		return nil, exceptions.ErrLedgerMetadata(nil, "payment_intent")
	}
	appointment.LedgerEventID = event.ID

	user, nurse, err := uc.loadParties(ctx, appointment)
	if err != nil {
		uc.Log.Error("appointmentUsecase.HandleLedgerWebhook error loading parties",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	err = uc.TransactionManager.WithTransaction(ctx, func(txCtx context.Context) error {
		reserved, err := uc.LedgerEventRepository.Reserve(txCtx, &models.LedgerEvent{
			ID:              event.ID,
			Type:            event.Type,
			PaymentIntentID: appointment.PaymentIntentID,
			AppointmentID:   appointment.ID,
			ReceivedAt:      now,
		})
		if err != nil {
			return err
		}
		if !reserved {
			return errDuplicateLedgerEvent
		}

		if err := uc.AppointmentRepository.Create(txCtx, appointment); err != nil {
			return err
		}
		if err := uc.UserRepository.MoveAppointment(txCtx, user.ID, appointment.ID, nil, models.BucketCurrent); err != nil {
			return err
		}
		if err := uc.NurseRepository.MoveAppointment(txCtx, nurse.ID, appointment.ID, nil, models.BucketRequests); err != nil {
			return err
		}

		if err := uc.notify(txCtx, appointment, notice{
			recipient: nurse,
			sender:    user,
			title:     constvars.NotificationTitleRequest,
			body:      fmt.Sprintf(constvars.NotificationBodyRequestToNurse, user.Name, appointment.AppointmentType),
			status:    constvars.NotificationStatusPositive,
		}, now); err != nil {
			return err
		}
		if err := uc.notify(txCtx, appointment, notice{
			recipient: user,
			sender:    nurse,
			title:     constvars.NotificationTitleRequest,
			body:      fmt.Sprintf(constvars.NotificationBodyRequestToUser, nurse.Name),
			status:    constvars.NotificationStatusPositive,
		}, now); err != nil {
			return err
		}

		_, _, err = uc.ChatUsecase.FindOrCreateForPair(txCtx, user, nurse)
		return err
	})
	if errors.Is(err, errDuplicateLedgerEvent) {
		uc.Log.Info("appointmentUsecase.HandleLedgerWebhook duplicate event acknowledged",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
		)
		return &responses.WebhookAck{Received: true}, nil
	}
	if err != nil {
		uc.Log.Error("appointmentUsecase.HandleLedgerWebhook error materializing appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogAppointmentEvent(uc.Log, "appointment_paid", requestID, appointment.ID.Hex(), string(appointment.Status),
		zap.String(constvars.LoggingPaymentIntentIDKey, appointment.PaymentIntentID),
	)
	return &responses.WebhookAck{Received: true, Data: appointment}, nil
}

// archiveLedgerEvent keeps the raw payload for reconciliation. Failures are
// logged only.
func (uc *appointmentUsecase) archiveLedgerEvent(ctx context.Context, event *contracts.LedgerEvent) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if uc.Storage == nil || len(event.Payload) == 0 {
		return
	}
	objectName := fmt.Sprintf(constvars.LedgerArchiveObjectFormat, event.Type, event.ID)
	if err := uc.Storage.PutObject(ctx, objectName, event.Payload, constvars.MIMEApplicationJSON); err != nil {
		uc.Log.Warn("appointmentUsecase.archiveLedgerEvent error archiving payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.Error(err),
		)
	}
}

func (uc *appointmentUsecase) loadParties(ctx context.Context, appointment *models.Appointment) (*models.Party, *models.Party, error) {
	user, err := uc.UserRepository.FindByID(ctx, appointment.User)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, exceptions.ErrNotFound(nil, constvars.MongoCollectionUsers)
	}

	nurse, err := uc.NurseRepository.FindByID(ctx, appointment.Nurse)
	if err != nil {
		return nil, nil, err
	}
	if nurse == nil {
		return nil, nil, exceptions.ErrNotFound(nil, constvars.MongoCollectionNurses)
	}
	return user, nurse, nil
}

func (uc *appointmentUsecase) GetAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.GetAllAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	appointments, err := uc.AppointmentRepository.FindAll(ctx)
	if err != nil {
		uc.Log.Error("appointmentUsecase.GetAllAppointments error fetching appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.GetAllAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(appointments)),
	)
	return appointments, nil
}

func (uc *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.GetAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.GetAppointment error fetching appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.ResourceAppointments)
	}
	return appointment, nil
}

// ListPartyAppointments resolves one of the party's buckets to documents. A
// nurse's current bucket is ordered by schedule, everything else newest first.
func (uc *appointmentUsecase) ListPartyAppointments(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID, bucket models.Bucket) ([]models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.ListPartyAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCallerIDKey, partyID.Hex()),
		zap.String(constvars.LoggingCallerRoleKey, string(kind)),
		zap.String(constvars.LoggingBucketKey, string(bucket)),
	)

	party, err := uc.partyRepository(kind).FindByID(ctx, partyID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.ListPartyAppointments error finding party",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if party == nil {
		return nil, exceptions.ErrNotFound(nil, string(kind))
	}

	sortByDateTime := kind == models.PartyKindNurse && bucket == models.BucketCurrent
	appointments, err := uc.AppointmentRepository.FindByIDs(ctx, party.Bucket(bucket), sortByDateTime)
	if err != nil {
		uc.Log.Error("appointmentUsecase.ListPartyAppointments error fetching appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.ListPartyAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(appointments)),
	)
	return appointments, nil
}
