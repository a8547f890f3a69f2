package controllers

import (
	"context"
	"net/http"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/utils"
	"sync"

	"go.uber.org/zap"
)

type ChatController struct {
	Log            *zap.Logger
	ChatUsecase    contracts.ChatUsecase
	InternalConfig *config.InternalConfig
}

var (
	chatControllerInstance *ChatController
	onceChatController     sync.Once
)

func NewChatController(logger *zap.Logger, chatUsecase contracts.ChatUsecase, internalConfig *config.InternalConfig) *ChatController {
	onceChatController.Do(func() {
		chatControllerInstance = &ChatController{
			Log:            logger,
			ChatUsecase:    chatUsecase,
			InternalConfig: internalConfig,
		}
	})
	return chatControllerInstance
}

func (ctrl *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	senderID, err := utils.GetCallerObjectID(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	senderKind := partyKindOf(utils.GetCallerRole(r.Context()))

	request := new(requests.SendChatMessage)
	if err := decodeBody(r, request, false); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.ChatUsecase.SendMessage(ctx, senderKind, senderID, request); err != nil {
		ctrl.Log.Error("ChatController.SendMessage error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingChatIDKey, request.ChatID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ChatMessageSentSuccess, nil)
}

func (ctrl *ChatController) GetMyChats(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	partyID, err := utils.GetCallerObjectID(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	chats, err := ctrl.ChatUsecase.GetMyChats(ctx, partyKindOf(utils.GetCallerRole(r.Context())), partyID)
	if err != nil {
		ctrl.Log.Error("ChatController.GetMyChats error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponseWithResults(w, constvars.StatusOK, constvars.ChatsFetchedSuccess, len(chats), chats)
}

func (ctrl *ChatController) GetChat(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	partyID, err := utils.GetCallerObjectID(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	chatID, err := objectIDParam(r, "chatID")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	chat, err := ctrl.ChatUsecase.GetChat(ctx, partyKindOf(utils.GetCallerRole(r.Context())), partyID, chatID)
	if err != nil {
		ctrl.Log.Error("ChatController.GetChat error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingChatIDKey, chatID.Hex()),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ChatFetchedSuccess, chat)
}

func (ctrl *ChatController) GetChatByAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	partyID, err := utils.GetCallerObjectID(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	appointmentID, err := objectIDParam(r, "appointmentID")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	chat, err := ctrl.ChatUsecase.GetChatByAppointment(ctx, partyKindOf(utils.GetCallerRole(r.Context())), partyID, appointmentID)
	if err != nil {
		ctrl.Log.Error("ChatController.GetChatByAppointment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID.Hex()),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ChatFetchedSuccess, chat)
}
