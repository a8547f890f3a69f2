package contracts

import (
	"context"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/dto/responses"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	FindByID(ctx context.Context, chatID primitive.ObjectID) (*models.Chat, error)
	FindByPair(ctx context.Context, userID, nurseID primitive.ObjectID) (*models.Chat, error)
	FindByParticipant(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID) ([]models.Chat, error)
	AppendMessage(ctx context.Context, chatID primitive.ObjectID, message models.ChatMessage) error
}

type ChatUsecase interface {
	FindOrCreateForPair(ctx context.Context, user, nurse *models.Party) (*models.Chat, bool, error)
	SendMessage(ctx context.Context, senderKind models.PartyKind, senderID primitive.ObjectID, request *requests.SendChatMessage) error
	GetMyChats(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID) ([]responses.ChatSummary, error)
	GetChat(ctx context.Context, kind models.PartyKind, partyID, chatID primitive.ObjectID) (*models.Chat, error)
	GetChatByAppointment(ctx context.Context, kind models.PartyKind, partyID, appointmentID primitive.ObjectID) (*models.Chat, error)
}
