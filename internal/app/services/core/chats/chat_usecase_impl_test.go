package chats

import (
	"context"
	"errors"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/app/services/shared/clock"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeChatRepository struct {
	chats map[primitive.ObjectID]*models.Chat
}

func (f *fakeChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepository) FindByID(ctx context.Context, chatID primitive.ObjectID) (*models.Chat, error) {
	return f.chats[chatID], nil
}

func (f *fakeChatRepository) FindByPair(ctx context.Context, userID, nurseID primitive.ObjectID) (*models.Chat, error) {
	for _, chat := range f.chats {
		if chat.User == userID && chat.Nurse == nurseID {
			return chat, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepository) FindByParticipant(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID) ([]models.Chat, error) {
	var chats []models.Chat
	for _, chat := range f.chats {
		if chat.Participant(kind, partyID) {
			chats = append(chats, *chat)
		}
	}
	return chats, nil
}

func (f *fakeChatRepository) AppendMessage(ctx context.Context, chatID primitive.ObjectID, message models.ChatMessage) error {
	chat, ok := f.chats[chatID]
	if !ok {
		return exceptions.ErrNotFound(nil, constvars.ResourceChats)
	}
	chat.Messages = append(chat.Messages, message)
	return nil
}

type fakePartyRepository struct {
	kind    models.PartyKind
	parties map[primitive.ObjectID]*models.Party
	chats   map[primitive.ObjectID][]primitive.ObjectID
}

func newFakePartyRepository(kind models.PartyKind, parties ...*models.Party) *fakePartyRepository {
	f := &fakePartyRepository{
		kind:    kind,
		parties: map[primitive.ObjectID]*models.Party{},
		chats:   map[primitive.ObjectID][]primitive.ObjectID{},
	}
	for _, party := range parties {
		party.Kind = kind
		f.parties[party.ID] = party
	}
	return f
}

func (f *fakePartyRepository) Kind() models.PartyKind { return f.kind }

func (f *fakePartyRepository) Create(ctx context.Context, party *models.Party) error {
	f.parties[party.ID] = party
	return nil
}

func (f *fakePartyRepository) FindByID(ctx context.Context, partyID primitive.ObjectID) (*models.Party, error) {
	return f.parties[partyID], nil
}

func (f *fakePartyRepository) MoveAppointment(ctx context.Context, partyID, appointmentID primitive.ObjectID, from []models.Bucket, to models.Bucket) error {
	return nil
}

func (f *fakePartyRepository) PullAppointmentEverywhere(ctx context.Context, partyID, appointmentID primitive.ObjectID) error {
	return nil
}

func (f *fakePartyRepository) AddChat(ctx context.Context, partyID, chatID primitive.ObjectID) error {
	f.chats[partyID] = append(f.chats[partyID], chatID)
	return nil
}

func (f *fakePartyRepository) AddNotification(ctx context.Context, partyID, notificationID primitive.ObjectID) error {
	return nil
}

func (f *fakePartyRepository) IncrementPatients(ctx context.Context, partyID primitive.ObjectID) error {
	return nil
}

type fakeAppointmentRepository struct {
	contracts.AppointmentRepository
	items map[primitive.ObjectID]*models.Appointment
}

func (f *fakeAppointmentRepository) FindByID(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	return f.items[appointmentID], nil
}

type MockPushQueue struct {
	mock.Mock
}

func (m *MockPushQueue) Enqueue(ctx context.Context, message contracts.PushMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockPushQueue) Reenqueue(ctx context.Context, message contracts.PushMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockPushQueue) EnqueueToDeadQueue(ctx context.Context, message contracts.PushMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockPushQueue) FetchN(ctx context.Context, max int) ([]contracts.QueuedPush, error) {
	args := m.Called(ctx, max)
	items, _ := args.Get(0).([]contracts.QueuedPush)
	return items, args.Error(1)
}

func (m *MockPushQueue) Ack(ctx context.Context, deliveryTag uint64) error {
	return m.Called(ctx, deliveryTag).Error(0)
}

type chatFixture struct {
	uc           *chatUsecase
	chats        *fakeChatRepository
	users        *fakePartyRepository
	nurses       *fakePartyRepository
	appointments *fakeAppointmentRepository
	queue        *MockPushQueue
	user         *models.Party
	nurse        *models.Party
	now          time.Time
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		chats:        &fakeChatRepository{chats: map[primitive.ObjectID]*models.Chat{}},
		appointments: &fakeAppointmentRepository{items: map[primitive.ObjectID]*models.Appointment{}},
		queue:        &MockPushQueue{},
		user:         &models.Party{ID: primitive.NewObjectID(), Name: "Mona", DeviceID: "user-device"},
		nurse:        &models.Party{ID: primitive.NewObjectID(), Name: "Salma", Photo: "https://cdn.example.com/salma.png", DeviceID: "nurse-device"},
		now:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.users = newFakePartyRepository(models.PartyKindUser, f.user)
	f.nurses = newFakePartyRepository(models.PartyKindNurse, f.nurse)
	f.uc = &chatUsecase{
		ChatRepository:        f.chats,
		UserRepository:        f.users,
		NurseRepository:       f.nurses,
		AppointmentRepository: f.appointments,
		PushQueue:             f.queue,
		Clock:                 clock.NewClockWithNow(time.UTC, func() time.Time { return f.now }),
		Log:                   zap.NewNop(),
	}
	return f
}

func TestFindOrCreateForPair(t *testing.T) {
	t.Run("Creates Once And Links Both Parties", func(t *testing.T) {
		f := newChatFixture()

		chat, created, err := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, []primitive.ObjectID{chat.ID}, f.users.chats[f.user.ID])
		assert.Equal(t, []primitive.ObjectID{chat.ID}, f.nurses.chats[f.nurse.ID])

		again, created, err := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, chat.ID, again.ID)
		assert.Len(t, f.chats.chats, 1)
		assert.Len(t, f.users.chats[f.user.ID], 1)
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("Appends And Queues A Push To The Other Party", func(t *testing.T) {
		f := newChatFixture()
		chat, _, _ := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)
		f.queue.On("Enqueue", mock.Anything, mock.MatchedBy(func(message contracts.PushMessage) bool {
			return message.DeviceToken == "user-device" &&
				message.NotificationID == "" &&
				message.Payload.Type == constvars.NotificationTypeMessage &&
				message.Payload.Title == "Salma" &&
				message.Payload.Body == "on my way" &&
				message.Payload.ID == chat.ID.Hex() &&
				message.Payload.Image == "https://cdn.example.com/salma.png"
		})).Return(nil)

		err := f.uc.SendMessage(context.Background(), models.PartyKindNurse, f.nurse.ID, &requests.SendChatMessage{ChatID: chat.ID.Hex(), Message: "on my way"})

		require.NoError(t, err)
		require.Len(t, chat.Messages, 1)
		assert.Equal(t, "nurse", chat.Messages[0].Sender)
		assert.Equal(t, "user", chat.Messages[0].Receiver)
		assert.True(t, chat.Messages[0].Date.Equal(f.now))
		f.queue.AssertExpectations(t)
	})

	t.Run("Push Failure Does Not Fail The Message", func(t *testing.T) {
		f := newChatFixture()
		chat, _, _ := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)
		f.queue.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		err := f.uc.SendMessage(context.Background(), models.PartyKindUser, f.user.ID, &requests.SendChatMessage{ChatID: chat.ID.Hex(), Message: "hello"})

		require.NoError(t, err)
		assert.Len(t, chat.Messages, 1)
	})

	t.Run("Receiver Without Device Gets No Push", func(t *testing.T) {
		f := newChatFixture()
		f.user.DeviceID = ""
		chat, _, _ := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)

		err := f.uc.SendMessage(context.Background(), models.PartyKindNurse, f.nurse.ID, &requests.SendChatMessage{ChatID: chat.ID.Hex(), Message: "hello"})

		require.NoError(t, err)
		f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("Outsider Is Forbidden", func(t *testing.T) {
		f := newChatFixture()
		chat, _, _ := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)

		err := f.uc.SendMessage(context.Background(), models.PartyKindUser, primitive.NewObjectID(), &requests.SendChatMessage{ChatID: chat.ID.Hex(), Message: "hello"})

		require.Error(t, err)
		assert.Equal(t, constvars.StatusForbidden, exceptions.StatusCodeOf(err))
		assert.Empty(t, chat.Messages)
	})

	t.Run("Unknown Chat Is Not Found", func(t *testing.T) {
		f := newChatFixture()

		err := f.uc.SendMessage(context.Background(), models.PartyKindUser, f.user.ID, &requests.SendChatMessage{ChatID: primitive.NewObjectID().Hex(), Message: "hello"})

		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	})
}

func TestGetMyChats(t *testing.T) {
	t.Run("Summaries Carry The Other Party And Last Message Time", func(t *testing.T) {
		f := newChatFixture()
		chat, _, _ := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)
		chat.Messages = append(chat.Messages, models.ChatMessage{Content: "hi", Date: f.now})

		summaries, err := f.uc.GetMyChats(context.Background(), models.PartyKindUser, f.user.ID)

		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, chat.ID.Hex(), summaries[0].ID)
		require.NotNil(t, summaries[0].Nurse)
		assert.Equal(t, "Salma", summaries[0].Nurse.Name)
		assert.Nil(t, summaries[0].User)
		require.NotNil(t, summaries[0].LastMessageAt)
		assert.True(t, summaries[0].LastMessageAt.Equal(f.now))
	})
}

func TestGetChatByAppointment(t *testing.T) {
	t.Run("Resolves The Pair Chat For Either Party", func(t *testing.T) {
		f := newChatFixture()
		chat, _, _ := f.uc.FindOrCreateForPair(context.Background(), f.user, f.nurse)
		appointment := &models.Appointment{ID: primitive.NewObjectID(), User: f.user.ID, Nurse: f.nurse.ID}
		f.appointments.items[appointment.ID] = appointment

		found, err := f.uc.GetChatByAppointment(context.Background(), models.PartyKindNurse, f.nurse.ID, appointment.ID)

		require.NoError(t, err)
		assert.Equal(t, chat.ID, found.ID)
	})

	t.Run("Other Parties Are Forbidden", func(t *testing.T) {
		f := newChatFixture()
		appointment := &models.Appointment{ID: primitive.NewObjectID(), User: f.user.ID, Nurse: f.nurse.ID}
		f.appointments.items[appointment.ID] = appointment

		_, err := f.uc.GetChatByAppointment(context.Background(), models.PartyKindUser, primitive.NewObjectID(), appointment.ID)

		assert.Equal(t, constvars.StatusForbidden, exceptions.StatusCodeOf(err))
	})
}
