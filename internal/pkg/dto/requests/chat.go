package requests

type SendChatMessage struct {
	ChatID  string `json:"chatId" validate:"required,mongo_id"`
	Message string `json:"message" validate:"required,max=2000"`
}
