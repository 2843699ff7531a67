package ports

import (
	"context"
	"time"

	"creatorhub/contexts/community-experience/chat-service/domain/entities"

	eventsv1 "creatorhub/contracts/gen/events/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type ChatRepository interface {
	// UpsertChat returns the existing chat for the pair, or stores candidate.
	// Either way updated_at is moved to now.
	UpsertChat(ctx context.Context, candidate entities.Chat, now time.Time) (entities.Chat, error)
	GetChat(ctx context.Context, chatID string) (entities.Chat, error)
	ListChatsForUser(ctx context.Context, userID string) ([]entities.Chat, error)
	TouchChat(ctx context.Context, chatID string, now time.Time) error
}

type MessageStore interface {
	AppendMessage(ctx context.Context, message entities.Message) error
	// ListRecentMessages returns the newest limit messages in chronological order.
	ListRecentMessages(ctx context.Context, chatID string, limit int) ([]entities.Message, error)
}

// AccountReader is served by the account context.
type AccountReader interface {
	GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error)
	GetAccounts(ctx context.Context, userIDs []string) (map[string]identityv1.Account, error)
}

type TextPolicy interface {
	ContainsBlocked(texts ...string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event eventsv1.Envelope) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, eventsv1.Envelope) error) error
}

type Party struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

type ChatView struct {
	Chat     entities.Chat
	Consumer Party
	Creator  Party
}
