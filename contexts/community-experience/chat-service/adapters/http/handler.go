package httpadapter

import (
	"context"
	"net/http"
	"time"

	"creatorhub/contexts/community-experience/chat-service/adapters/realtime"
	"creatorhub/contexts/community-experience/chat-service/application"
	"creatorhub/contexts/community-experience/chat-service/domain/entities"
	"creatorhub/contexts/community-experience/chat-service/ports"
	httptransport "creatorhub/contexts/community-experience/chat-service/transport/http"
)

type Handler struct {
	Service application.Service
	Hub     *realtime.Hub
}

// ListChatsHandler godoc
// @Summary List chats
// @Description Chats the caller takes part in, most recent activity first.
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} httptransport.ChatItem
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/chats [get]
func (h Handler) ListChatsHandler(ctx context.Context, userID string) ([]httptransport.ChatItem, error) {
	views, err := h.Service.ListChats(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]httptransport.ChatItem, 0, len(views))
	for _, view := range views {
		out = append(out, httptransport.ChatItem{
			ID:        view.Chat.ChatID,
			Consumer:  toParty(view.Consumer),
			Creator:   toParty(view.Creator),
			UpdatedAt: view.Chat.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// OpenChatHandler godoc
// @Summary Open a chat with a creator
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param creatorId path string true "Creator id"
// @Success 201 {object} httptransport.OpenChatResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/chats/{creatorId} [post]
func (h Handler) OpenChatHandler(ctx context.Context, userID string, creatorID string) (httptransport.OpenChatResponse, error) {
	chat, err := h.Service.OpenChat(ctx, userID, creatorID)
	if err != nil {
		return httptransport.OpenChatResponse{}, err
	}
	return httptransport.OpenChatResponse{ID: chat.ChatID}, nil
}

// ListMessagesHandler godoc
// @Summary Chat history
// @Description The newest 200 messages in chronological order.
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "Chat id"
// @Success 200 {array} httptransport.MessageItem
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/chats/{chatId}/messages [get]
func (h Handler) ListMessagesHandler(ctx context.Context, userID string, chatID string) ([]httptransport.MessageItem, error) {
	messages, err := h.Service.ListMessages(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	out := make([]httptransport.MessageItem, 0, len(messages))
	for _, message := range messages {
		out = append(out, toMessageItem(message))
	}
	return out, nil
}

// SendMessageHandler godoc
// @Summary Send a chat message
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "Chat id"
// @Param body body httptransport.SendMessageRequest true "Message"
// @Success 201 {object} httptransport.MessageItem
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/chats/{chatId}/messages [post]
func (h Handler) SendMessageHandler(ctx context.Context, userID string, chatID string, req httptransport.SendMessageRequest) (httptransport.MessageItem, error) {
	message, err := h.Service.SendMessage(ctx, userID, chatID, req.Text)
	if err != nil {
		return httptransport.MessageItem{}, err
	}
	return toMessageItem(message), nil
}

// ServeWebsocket upgrades an authorized participant onto the chat room.
func (h Handler) ServeWebsocket(w http.ResponseWriter, r *http.Request, userID string, chatID string) error {
	return h.Hub.Serve(w, r, userID, chatID)
}

func toParty(party ports.Party) httptransport.Party {
	return httptransport.Party{
		ID:          party.UserID,
		DisplayName: party.DisplayName,
		AvatarURL:   party.AvatarURL,
	}
}

func toMessageItem(message entities.Message) httptransport.MessageItem {
	return httptransport.MessageItem{
		ID:        message.MessageID,
		Sender:    message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt.UTC().Format(time.RFC3339),
	}
}
