package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/community-experience/chat-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/chat-service/domain/errors"
	"creatorhub/contexts/community-experience/chat-service/domain/services"
	"creatorhub/contexts/community-experience/chat-service/ports"

	eventsv1 "creatorhub/contracts/gen/events/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
)

const messageHistoryLimit = 200

type Service struct {
	Chats     ports.ChatRepository
	Messages  ports.MessageStore
	Accounts  ports.AccountReader
	Policy    ports.TextPolicy
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// ListChats returns the caller's chats with the most recent activity first.
func (s Service) ListChats(ctx context.Context, userID string) ([]ports.ChatView, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	chats, err := s.Chats.ListChatsForUser(ctx, account.UserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(chats)*2)
	for _, chat := range chats {
		ids = append(ids, chat.ConsumerID, chat.CreatorID)
	}
	accounts, err := s.Accounts.GetAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ports.ChatView, 0, len(chats))
	for _, chat := range chats {
		out = append(out, ports.ChatView{
			Chat:     chat,
			Consumer: partyFor(chat.ConsumerID, accounts),
			Creator:  partyFor(chat.CreatorID, accounts),
		})
	}
	return out, nil
}

func (s Service) OpenChat(ctx context.Context, userID string, creatorID string) (entities.Chat, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return entities.Chat{}, err
	}
	if !s.canChat(account) {
		return entities.Chat{}, domainerrors.ErrSubscriptionRequired
	}
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == account.UserID {
		return entities.Chat{}, domainerrors.ErrSelfChat
	}
	creator, found, err := s.Accounts.GetAccount(ctx, creatorID)
	if err != nil {
		return entities.Chat{}, err
	}
	if !found || identityv1.NormalizeRole(creator.Role) != identityv1.RoleCreator {
		return entities.Chat{}, domainerrors.ErrCreatorNotFound
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Chat{}, err
	}
	now := s.now()
	chat, err := s.Chats.UpsertChat(ctx, entities.Chat{
		ChatID:     id,
		ConsumerID: account.UserID,
		CreatorID:  creator.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, now)
	if err != nil {
		return entities.Chat{}, err
	}
	resolveLogger(s.Logger).Info("chat opened",
		"event", "chat_opened",
		"module", "community-experience/chat-service",
		"layer", "application",
		"chat_id", chat.ChatID,
		"consumer_id", chat.ConsumerID,
		"creator_id", chat.CreatorID,
	)
	return chat, nil
}

// Authorize resolves a chat the caller may read and write.
func (s Service) Authorize(ctx context.Context, userID string, chatID string) (entities.Chat, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return entities.Chat{}, err
	}
	chat, err := s.Chats.GetChat(ctx, strings.TrimSpace(chatID))
	if err != nil {
		return entities.Chat{}, err
	}
	if !chat.IsParticipant(account.UserID) {
		return entities.Chat{}, domainerrors.ErrForbidden
	}
	if !s.canChat(account) {
		return entities.Chat{}, domainerrors.ErrSubscriptionRequired
	}
	return chat, nil
}

func (s Service) ListMessages(ctx context.Context, userID string, chatID string) ([]entities.Message, error) {
	chat, err := s.Authorize(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return s.Messages.ListRecentMessages(ctx, chat.ChatID, messageHistoryLimit)
}

func (s Service) SendMessage(ctx context.Context, userID string, chatID string, text string) (entities.Message, error) {
	chat, err := s.Authorize(ctx, userID, chatID)
	if err != nil {
		return entities.Message{}, err
	}
	if s.Policy != nil && s.Policy.ContainsBlocked(text) {
		return entities.Message{}, domainerrors.ErrBlockedContent
	}
	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Message{}, err
	}
	now := s.now()
	message, err := entities.NewMessage(id, chat.ChatID, strings.TrimSpace(userID), text, now)
	if err != nil {
		return entities.Message{}, err
	}
	if err := s.Messages.AppendMessage(ctx, message); err != nil {
		return entities.Message{}, err
	}
	if err := s.Chats.TouchChat(ctx, chat.ChatID, now); err != nil {
		return entities.Message{}, err
	}
	s.publish(ctx, message)
	return message, nil
}

// publish failures are logged; the message is already stored and clients
// recover it from history.
func (s Service) publish(ctx context.Context, message entities.Message) {
	if s.Publisher == nil {
		return
	}
	logger := resolveLogger(s.Logger)
	data, err := json.Marshal(eventsv1.ChatMessageSent{
		MessageID: message.MessageID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	})
	if err != nil {
		return
	}
	err = s.Publisher.Publish(ctx, eventsv1.TopicChatMessages, eventsv1.Envelope{
		EventID:          "evt-" + message.MessageID,
		EventType:        eventsv1.EventTypeChatMessageSent,
		OccurredAt:       message.CreatedAt,
		SourceService:    "chat-service",
		SchemaVersion:    1,
		PartitionKeyPath: "chat_id",
		PartitionKey:     message.ChatID,
		Data:             data,
	})
	if err != nil {
		logger.Warn("chat message publish failed",
			"event", "chat_message_publish_failed",
			"module", "community-experience/chat-service",
			"layer", "application",
			"chat_id", message.ChatID,
			"message_id", message.MessageID,
			"error", err.Error(),
		)
	}
}

func (s Service) account(ctx context.Context, userID string) (identityv1.Account, error) {
	account, found, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(userID))
	if err != nil {
		return identityv1.Account{}, err
	}
	if !found {
		return identityv1.Account{}, domainerrors.ErrUserNotFound
	}
	return account, nil
}

func (s Service) canChat(account identityv1.Account) bool {
	return services.CanChat(services.Participant{
		Role:                  identityv1.NormalizeRole(account.Role),
		SubscriptionActive:    account.SubscriptionActive,
		SubscriptionExpiresAt: account.SubscriptionExpiresAt,
	}, s.now())
}

func partyFor(userID string, accounts map[string]identityv1.Account) ports.Party {
	party := ports.Party{UserID: userID}
	if account, ok := accounts[userID]; ok {
		party.DisplayName = account.PublicName()
		party.AvatarURL = account.AvatarURL
	}
	return party
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
