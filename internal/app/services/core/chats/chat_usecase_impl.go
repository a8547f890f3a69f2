package chats

import (
	"context"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/app/services/shared/storage"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/dto/responses"
	"nursecare-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	chatUsecaseInstance contracts.ChatUsecase
	onceChatUsecase     sync.Once
)

type chatUsecase struct {
	ChatRepository        contracts.ChatRepository
	UserRepository        contracts.PartyRepository
	NurseRepository       contracts.PartyRepository
	AppointmentRepository contracts.AppointmentRepository
	PushQueue             contracts.PushQueue
	Storage               contracts.Storage
	Clock                 contracts.Clock
	Log                   *zap.Logger
}

func NewChatUsecase(
	chatRepository contracts.ChatRepository,
	userRepository contracts.PartyRepository,
	nurseRepository contracts.PartyRepository,
	appointmentRepository contracts.AppointmentRepository,
	pushQueue contracts.PushQueue,
	minioStorage contracts.Storage,
	clock contracts.Clock,
	logger *zap.Logger,
) contracts.ChatUsecase {
	onceChatUsecase.Do(func() {
		chatUsecaseInstance = &chatUsecase{
			ChatRepository:        chatRepository,
			UserRepository:        userRepository,
			NurseRepository:       nurseRepository,
			AppointmentRepository: appointmentRepository,
			PushQueue:             pushQueue,
			Storage:               minioStorage,
			Clock:                 clock,
			Log:                   logger,
		}
	})
	return chatUsecaseInstance
}

func (uc *chatUsecase) partyRepository(kind models.PartyKind) contracts.PartyRepository {
	if kind == models.PartyKindNurse {
		return uc.NurseRepository
	}
	return uc.UserRepository
}

func counterpart(kind models.PartyKind) models.PartyKind {
	if kind == models.PartyKindNurse {
		return models.PartyKindUser
	}
	return models.PartyKindNurse
}

// FindOrCreateForPair returns the single chat between user and nurse, creating
// it and linking it to both parties on first contact. It joins the caller's
// transaction when ctx carries one.
func (uc *chatUsecase) FindOrCreateForPair(ctx context.Context, user, nurse *models.Party) (*models.Chat, bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("chatUsecase.FindOrCreateForPair called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID.Hex()),
		zap.String(constvars.LoggingNurseIDKey, nurse.ID.Hex()),
	)

	existing, err := uc.ChatRepository.FindByPair(ctx, user.ID, nurse.ID)
	if err != nil {
		uc.Log.Error("chatUsecase.FindOrCreateForPair error finding chat",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	chat := &models.Chat{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Nurse:     nurse.ID,
		Messages:  []models.ChatMessage{},
		CreatedAt: uc.Clock.Now(),
	}
	if err := uc.ChatRepository.Create(ctx, chat); err != nil {
		uc.Log.Error("chatUsecase.FindOrCreateForPair error creating chat",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, false, err
	}
	if err := uc.UserRepository.AddChat(ctx, user.ID, chat.ID); err != nil {
		return nil, false, err
	}
	if err := uc.NurseRepository.AddChat(ctx, nurse.ID, chat.ID); err != nil {
		return nil, false, err
	}

	uc.Log.Info("chatUsecase.FindOrCreateForPair created chat",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingChatIDKey, chat.ID.Hex()),
	)
	return chat, true, nil
}

func (uc *chatUsecase) SendMessage(ctx context.Context, senderKind models.PartyKind, senderID primitive.ObjectID, request *requests.SendChatMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("chatUsecase.SendMessage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCallerIDKey, senderID.Hex()),
		zap.String(constvars.LoggingCallerRoleKey, string(senderKind)),
	)

	chatID, err := primitive.ObjectIDFromHex(request.ChatID)
	if err != nil {
		return exceptions.ErrMongoInvalidID(err)
	}

	chat, err := uc.GetChat(ctx, senderKind, senderID, chatID)
	if err != nil {
		return err
	}

	receiverKind := counterpart(senderKind)
	now := uc.Clock.Now()
	message := models.ChatMessage{
		Content:  request.Message,
		Sender:   string(senderKind),
		Receiver: string(receiverKind),
		Date:     now,
	}
	if err := uc.ChatRepository.AppendMessage(ctx, chat.ID, message); err != nil {
		uc.Log.Error("chatUsecase.SendMessage error appending message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingChatIDKey, chat.ID.Hex()),
			zap.Error(err),
		)
		return err
	}

	receiverID := chat.User
	if receiverKind == models.PartyKindNurse {
		receiverID = chat.Nurse
	}
	uc.pushMessage(ctx, chat, senderKind, senderID, receiverKind, receiverID, message)

	uc.Log.Info("chatUsecase.SendMessage succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingChatIDKey, chat.ID.Hex()),
	)
	return nil
}

// pushMessage queues a push to the receiver. Chat messages carry no
// notification record and any failure here is only logged.
func (uc *chatUsecase) pushMessage(ctx context.Context, chat *models.Chat, senderKind models.PartyKind, senderID primitive.ObjectID, receiverKind models.PartyKind, receiverID primitive.ObjectID, message models.ChatMessage) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	receiver, err := uc.partyRepository(receiverKind).FindByID(ctx, receiverID)
	if err != nil || receiver == nil || receiver.DeviceID == "" {
		uc.Log.Info("chatUsecase.pushMessage receiver has no device, push skipped",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingChatIDKey, chat.ID.Hex()),
		)
		return
	}

	sender, err := uc.partyRepository(senderKind).FindByID(ctx, senderID)
	if err != nil || sender == nil {
		uc.Log.Warn("chatUsecase.pushMessage sender not found, push skipped",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingChatIDKey, chat.ID.Hex()),
		)
		return
	}

	image, err := storage.ResolveImageURL(ctx, uc.Storage, sender.Photo)
	if err != nil {
		uc.Log.Warn("chatUsecase.pushMessage error presigning sender photo",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		image = ""
	}

	push := contracts.PushMessage{
		ID:          uuid.NewString(),
		DeviceToken: receiver.DeviceID,
		Payload: contracts.PushPayload{
			Title: sender.Name,
			Body:  message.Content,
			Type:  constvars.NotificationTypeMessage,
			ID:    chat.ID.Hex(),
			Date:  message.Date.Format(time.RFC3339),
			Image: image,
		},
	}
	if err := uc.PushQueue.Enqueue(ctx, push); err != nil {
		uc.Log.Error("chatUsecase.pushMessage error enqueueing push",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingChatIDKey, chat.ID.Hex()),
			zap.Error(err),
		)
	}
}

func (uc *chatUsecase) GetMyChats(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID) ([]responses.ChatSummary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("chatUsecase.GetMyChats called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCallerIDKey, partyID.Hex()),
		zap.String(constvars.LoggingCallerRoleKey, string(kind)),
	)

	chats, err := uc.ChatRepository.FindByParticipant(ctx, kind, partyID)
	if err != nil {
		uc.Log.Error("chatUsecase.GetMyChats error fetching chats",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	otherKind := counterpart(kind)
	summaries := make([]responses.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summary := responses.ChatSummary{ID: chat.ID.Hex()}
		if len(chat.Messages) > 0 {
			lastMessageAt := chat.Messages[len(chat.Messages)-1].Date
			summary.LastMessageAt = &lastMessageAt
		}

		otherID := chat.Nurse
		if otherKind == models.PartyKindUser {
			otherID = chat.User
		}
		other, err := uc.partyRepository(otherKind).FindByID(ctx, otherID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			party := &responses.ChatParty{ID: other.ID.Hex(), Name: other.Name, Photo: other.Photo}
			if otherKind == models.PartyKindUser {
				summary.User = party
			} else {
				summary.Nurse = party
			}
		}
		summaries = append(summaries, summary)
	}

	uc.Log.Info("chatUsecase.GetMyChats succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(summaries)),
	)
	return summaries, nil
}

func (uc *chatUsecase) GetChat(ctx context.Context, kind models.PartyKind, partyID, chatID primitive.ObjectID) (*models.Chat, error) {
	chat, err := uc.ChatRepository.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.ResourceChats)
	}
	if !chat.Participant(kind, partyID) {
		return nil, exceptions.ErrChatNotParticipant(nil, partyID.Hex(), chatID.Hex())
	}
	return chat, nil
}

func (uc *chatUsecase) GetChatByAppointment(ctx context.Context, kind models.PartyKind, partyID, appointmentID primitive.ObjectID) (*models.Chat, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("chatUsecase.GetChatByAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.ResourceAppointments)
	}

	owner := appointment.User
	if kind == models.PartyKindNurse {
		owner = appointment.Nurse
	}
	if owner != partyID {
		return nil, exceptions.ErrAppointmentNotOwned(nil, partyID.Hex(), string(kind), appointmentID.Hex())
	}

	chat, err := uc.ChatRepository.FindByPair(ctx, appointment.User, appointment.Nurse)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.ResourceChats)
	}
	return chat, nil
}
