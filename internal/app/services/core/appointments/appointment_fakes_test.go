package appointments

import (
	"context"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/app/services/shared/clock"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/dto/responses"
	"nursecare-service/internal/pkg/exceptions"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, input *contracts.CheckoutSessionInput) (*contracts.CheckoutSessionOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*contracts.CheckoutSessionOutput)
	return output, args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhook(payload []byte, signatureHeader string) (*contracts.LedgerEvent, error) {
	args := m.Called(payload, signatureHeader)
	event, _ := args.Get(0).(*contracts.LedgerEvent)
	return event, args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, input *contracts.RefundInput) (*contracts.RefundOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*contracts.RefundOutput)
	return output, args.Error(1)
}

type fakeTransactionManager struct {
	calls int
}

func (f *fakeTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeLocker struct {
	busy       bool
	unlocked   []string
	unlockErrs []error
}

func (f *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if f.busy {
		return false, "", nil
	}
	return true, "lock-value", nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	f.unlocked = append(f.unlocked, key)
	f.unlockErrs = append(f.unlockErrs, ctx.Err())
	return nil
}

type fakeStorage struct {
	objects []string
}

func (f *fakeStorage) PutObject(ctx context.Context, objectName string, payload []byte, contentType string) error {
	f.objects = append(f.objects, objectName)
	return nil
}

func (f *fakeStorage) GetObjectUrlWithExpiryTime(ctx context.Context, objectName string, expiryTime time.Duration) (string, error) {
	return "https://storage.local/" + objectName, nil
}

type fakeAppointmentRepository struct {
	items map[primitive.ObjectID]models.Appointment
}

func newFakeAppointmentRepository() *fakeAppointmentRepository {
	return &fakeAppointmentRepository{items: map[primitive.ObjectID]models.Appointment{}}
}

func (f *fakeAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	f.items[appointment.ID] = *appointment
	return nil
}

func (f *fakeAppointmentRepository) FindByID(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	appointment, ok := f.items[appointmentID]
	if !ok {
		return nil, nil
	}
	return &appointment, nil
}

func (f *fakeAppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	appointments := make([]models.Appointment, 0, len(f.items))
	for _, appointment := range f.items {
		appointments = append(appointments, appointment)
	}
	return appointments, nil
}

func (f *fakeAppointmentRepository) FindByIDs(ctx context.Context, appointmentIDs []primitive.ObjectID, sortByDateTime bool) ([]models.Appointment, error) {
	appointments := make([]models.Appointment, 0, len(appointmentIDs))
	for _, id := range appointmentIDs {
		if appointment, ok := f.items[id]; ok {
			appointments = append(appointments, appointment)
		}
	}
	return appointments, nil
}

func (f *fakeAppointmentRepository) UpdateTransition(ctx context.Context, appointment *models.Appointment, expected models.AppointmentStatus) error {
	stored, ok := f.items[appointment.ID]
	if !ok || stored.CurrentStatus() != expected {
		return exceptions.ErrConcurrentTransition(nil, appointment.ID.Hex(), string(expected))
	}
	f.items[appointment.ID] = *appointment
	return nil
}

func (f *fakeAppointmentRepository) DeleteByID(ctx context.Context, appointmentID primitive.ObjectID) error {
	delete(f.items, appointmentID)
	return nil
}

type fakePartyRepository struct {
	kind    models.PartyKind
	parties map[primitive.ObjectID]*models.Party
}

func newFakePartyRepository(kind models.PartyKind) *fakePartyRepository {
	return &fakePartyRepository{kind: kind, parties: map[primitive.ObjectID]*models.Party{}}
}

func bucketOf(party *models.Party, bucket models.Bucket) *[]primitive.ObjectID {
	switch bucket {
	case models.BucketCurrent:
		return &party.CurrentAppointments
	case models.BucketCompleted:
		return &party.CompletedAppointments
	case models.BucketCancelled:
		return &party.CancelledAppointments
	case models.BucketRejected:
		return &party.RejectedAppointments
	case models.BucketRequests:
		return &party.Requests
	}
	return nil
}

func without(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	kept := make([]primitive.ObjectID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

func (f *fakePartyRepository) Kind() models.PartyKind {
	return f.kind
}

func (f *fakePartyRepository) Create(ctx context.Context, party *models.Party) error {
	if party.ID.IsZero() {
		party.ID = primitive.NewObjectID()
	}
	party.Kind = f.kind
	f.parties[party.ID] = party
	return nil
}

func (f *fakePartyRepository) FindByID(ctx context.Context, partyID primitive.ObjectID) (*models.Party, error) {
	party, ok := f.parties[partyID]
	if !ok {
		return nil, nil
	}
	copied := *party
	return &copied, nil
}

func (f *fakePartyRepository) MoveAppointment(ctx context.Context, partyID, appointmentID primitive.ObjectID, from []models.Bucket, to models.Bucket) error {
	party, ok := f.parties[partyID]
	if !ok {
		return exceptions.ErrNotFound(nil, string(f.kind))
	}
	for _, bucket := range from {
		if bucket == to {
			continue
		}
		ids := bucketOf(party, bucket)
		*ids = without(*ids, appointmentID)
	}
	if to != "" {
		ids := bucketOf(party, to)
		*ids = append(without(*ids, appointmentID), appointmentID)
	}
	return nil
}

func (f *fakePartyRepository) PullAppointmentEverywhere(ctx context.Context, partyID, appointmentID primitive.ObjectID) error {
	party, ok := f.parties[partyID]
	if !ok {
		return nil
	}
	for _, bucket := range []models.Bucket{models.BucketCurrent, models.BucketCompleted, models.BucketCancelled, models.BucketRejected, models.BucketRequests} {
		ids := bucketOf(party, bucket)
		*ids = without(*ids, appointmentID)
	}
	return nil
}

func (f *fakePartyRepository) AddChat(ctx context.Context, partyID, chatID primitive.ObjectID) error {
	party := f.parties[partyID]
	party.Chats = append(without(party.Chats, chatID), chatID)
	return nil
}

func (f *fakePartyRepository) AddNotification(ctx context.Context, partyID, notificationID primitive.ObjectID) error {
	party := f.parties[partyID]
	party.Notifications = append(party.Notifications, notificationID)
	return nil
}

func (f *fakePartyRepository) IncrementPatients(ctx context.Context, partyID primitive.ObjectID) error {
	f.parties[partyID].Patients++
	return nil
}

type fakeNotificationRepository struct {
	created []models.Notification
}

func (f *fakeNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationRepository) FindPendingDelivery(ctx context.Context, limit int) ([]models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepository) MarkDelivery(ctx context.Context, notificationID primitive.ObjectID, status string, attempts int, lastError string) error {
	return nil
}

type fakeLedgerEventRepository struct {
	seen map[string]models.LedgerEvent
}

func (f *fakeLedgerEventRepository) Reserve(ctx context.Context, event *models.LedgerEvent) (bool, error) {
	if _, ok := f.seen[event.ID]; ok {
		return false, nil
	}
	f.seen[event.ID] = *event
	return true, nil
}

type fakeChatUsecase struct {
	pairs map[[2]primitive.ObjectID]*models.Chat
}

func (f *fakeChatUsecase) FindOrCreateForPair(ctx context.Context, user, nurse *models.Party) (*models.Chat, bool, error) {
	key := [2]primitive.ObjectID{user.ID, nurse.ID}
	if chat, ok := f.pairs[key]; ok {
		return chat, false, nil
	}
	chat := &models.Chat{ID: primitive.NewObjectID(), User: user.ID, Nurse: nurse.ID}
	f.pairs[key] = chat
	return chat, true, nil
}

func (f *fakeChatUsecase) SendMessage(ctx context.Context, senderKind models.PartyKind, senderID primitive.ObjectID, request *requests.SendChatMessage) error {
	return nil
}

func (f *fakeChatUsecase) GetMyChats(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID) ([]responses.ChatSummary, error) {
	return nil, nil
}

func (f *fakeChatUsecase) GetChat(ctx context.Context, kind models.PartyKind, partyID, chatID primitive.ObjectID) (*models.Chat, error) {
	return nil, nil
}

func (f *fakeChatUsecase) GetChatByAppointment(ctx context.Context, kind models.PartyKind, partyID, appointmentID primitive.ObjectID) (*models.Chat, error) {
	return nil, nil
}

var testZone = time.FixedZone("EET", 2*60*60)

type fixture struct {
	uc            *appointmentUsecase
	appointments  *fakeAppointmentRepository
	users         *fakePartyRepository
	nurses        *fakePartyRepository
	notifications *fakeNotificationRepository
	ledger        *fakeLedgerEventRepository
	chats         *fakeChatUsecase
	gateway       *MockPaymentGateway
	locker        *fakeLocker
	storage       *fakeStorage
	tx            *fakeTransactionManager
	now           time.Time
	user          *models.Party
	nurse         *models.Party
}

func newFixture() *fixture {
	f := &fixture{
		appointments:  newFakeAppointmentRepository(),
		users:         newFakePartyRepository(models.PartyKindUser),
		nurses:        newFakePartyRepository(models.PartyKindNurse),
		notifications: &fakeNotificationRepository{},
		ledger:        &fakeLedgerEventRepository{seen: map[string]models.LedgerEvent{}},
		chats:         &fakeChatUsecase{pairs: map[[2]primitive.ObjectID]*models.Chat{}},
		gateway:       &MockPaymentGateway{},
		locker:        &fakeLocker{},
		storage:       &fakeStorage{},
		tx:            &fakeTransactionManager{},
		now:           time.Date(2026, 3, 1, 10, 0, 0, 0, testZone),
	}

	f.user = &models.Party{Name: "Mona", Email: "mona@example.com", Photo: "users/mona.png", DeviceID: "user-device"}
	f.nurse = &models.Party{Name: "Salma", Email: "salma@example.com", Photo: "https://cdn.example.com/salma.png", DeviceID: "nurse-device"}
	_ = f.users.Create(context.Background(), f.user)
	_ = f.nurses.Create(context.Background(), f.nurse)

	f.uc = &appointmentUsecase{
		AppointmentRepository:  f.appointments,
		UserRepository:         f.users,
		NurseRepository:        f.nurses,
		NotificationRepository: f.notifications,
		LedgerEventRepository:  f.ledger,
		TransactionManager:     f.tx,
		ChatUsecase:            f.chats,
		PaymentGateway:         f.gateway,
		LockService:            f.locker,
		Storage:                f.storage,
		Clock:                  clock.NewClockWithNow(testZone, func() time.Time { return f.now }),
		InternalConfig: &config.InternalConfig{
			App: config.App{
				BaseURL:        "https://api.example.com",
				EndpointPrefix: "api",
				Version:        "v1",
			},
			Stripe: config.Stripe{Currency: "egp"},
			Appointment: config.Appointment{
				CancellationWindowInMinutes: 30,
				LockTTLInSeconds:            10,
			},
		},
		Log: zap.NewNop(),
	}
	return f
}

// seedAppointment stores a paid fast-service appointment in the given status
// and places its id in the matching buckets.
func (f *fixture) seedAppointment(status models.AppointmentStatus, startsIn time.Duration) *models.Appointment {
	start := f.now.Add(startsIn)
	appointment := &models.Appointment{
		ID:              primitive.NewObjectID(),
		User:            f.user.ID,
		Nurse:           f.nurse.ID,
		AppointmentType: constvars.AppointmentTypeFastService,
		ServiceOption:   "opt3",
		Date:            start.Format(constvars.CivilDateLayout),
		Time:            start.Format(constvars.CivilTimeLayout),
		DateTime:        start,
		TotalCost:       330,
		TaxPrice:        30,
		IsPaid:          true,
		PaymentIntentID: "pi_seeded",
		Status:          status,
	}

	ctx := context.Background()
	switch status {
	case models.AppointmentStatusPendingAcceptance:
		_ = f.users.MoveAppointment(ctx, f.user.ID, appointment.ID, nil, models.BucketCurrent)
		_ = f.nurses.MoveAppointment(ctx, f.nurse.ID, appointment.ID, nil, models.BucketRequests)
	case models.AppointmentStatusActive:
		appointment.NurseAcceptance = true
		_ = f.users.MoveAppointment(ctx, f.user.ID, appointment.ID, nil, models.BucketCurrent)
		_ = f.nurses.MoveAppointment(ctx, f.nurse.ID, appointment.ID, nil, models.BucketCurrent)
	case models.AppointmentStatusCancelled:
		appointment.Cancelled = true
		_ = f.users.MoveAppointment(ctx, f.user.ID, appointment.ID, nil, models.BucketCancelled)
		_ = f.nurses.MoveAppointment(ctx, f.nurse.ID, appointment.ID, nil, models.BucketCancelled)
	}
	_ = f.appointments.Create(ctx, appointment)
	return appointment
}

func (f *fixture) stored(id primitive.ObjectID) models.Appointment {
	return f.appointments.items[id]
}

func (f *fixture) userParty() *models.Party {
	return f.users.parties[f.user.ID]
}

func (f *fixture) nurseParty() *models.Party {
	return f.nurses.parties[f.nurse.ID]
}
