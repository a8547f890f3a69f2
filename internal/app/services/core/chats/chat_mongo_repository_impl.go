package chats

import (
	"context"
	"errors"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatMongoRepository struct {
	Collection *mongo.Collection
}

func NewChatMongoRepository(db *mongo.Client, dbName string) contracts.ChatRepository {
	return &ChatMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionChats),
	}
}

func (r *ChatMongoRepository) Create(ctx context.Context, chat *models.Chat) error {
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	if chat.Messages == nil {
		chat.Messages = []models.ChatMessage{}
	}
	_, err := r.Collection.InsertOne(ctx, chat)
	if err != nil {
		return exceptions.ErrMongoInsert(err, constvars.MongoCollectionChats)
	}
	return nil
}

func (r *ChatMongoRepository) FindByID(ctx context.Context, chatID primitive.ObjectID) (*models.Chat, error) {
	return r.findOne(ctx, bson.M{"_id": chatID})
}

func (r *ChatMongoRepository) FindByPair(ctx context.Context, userID, nurseID primitive.ObjectID) (*models.Chat, error) {
	return r.findOne(ctx, bson.M{"user": userID, "nurse": nurseID})
}

// FindByParticipant lists a party's chats without their messages.
func (r *ChatMongoRepository) FindByParticipant(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID) ([]models.Chat, error) {
	field := "user"
	if kind == models.PartyKindNurse {
		field = "nurse"
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"messages": bson.M{"$slice": -1}})

	cursor, err := r.Collection.Find(ctx, bson.M{field: partyID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoFind(err, constvars.MongoCollectionChats)
	}
	defer cursor.Close(ctx)

	chats := make([]models.Chat, 0)
	err = cursor.All(ctx, &chats)
	if err != nil {
		return nil, exceptions.ErrMongoDecode(err, constvars.MongoCollectionChats)
	}
	return chats, nil
}

func (r *ChatMongoRepository) AppendMessage(ctx context.Context, chatID primitive.ObjectID, message models.ChatMessage) error {
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": chatID}, bson.M{"$push": bson.M{"messages": message}})
	if err != nil {
		return exceptions.ErrMongoUpdate(err, constvars.MongoCollectionChats)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrNotFound(nil, constvars.ResourceChats)
	}
	return nil
}

func (r *ChatMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Chat, error) {
	var chat models.Chat
	err := r.Collection.FindOne(ctx, filter).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoFind(err, constvars.MongoCollectionChats)
	}
	return &chat, nil
}
