package mongoadapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"creatorhub/contexts/community-experience/chat-service/application"
	"creatorhub/contexts/community-experience/chat-service/domain/entities"
	"creatorhub/contexts/community-experience/chat-service/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "chat_messages"

// MessageStore keeps chat history in MongoDB when CHAT_STORE=mongo.
// Chats themselves stay in the primary store.
type MessageStore struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

var _ ports.MessageStore = (*MessageStore)(nil)

func NewMessageStore(collection *mongo.Collection, logger *slog.Logger) *MessageStore {
	return &MessageStore{
		collection: collection,
		logger:     application.ResolveLogger(logger),
	}
}

type messageDocument struct {
	MessageID string    `bson:"_id"`
	ChatID    string    `bson:"chat_id"`
	SenderID  string    `bson:"sender_id"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

func (s *MessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create chat message index: %w", err)
	}
	return nil
}

func (s *MessageStore) AppendMessage(ctx context.Context, message entities.Message) error {
	_, err := s.collection.InsertOne(ctx, messageDocument{
		MessageID: message.MessageID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt.UTC(),
	})
	if err != nil {
		s.logger.Error("chat message insert failed",
			"event", "chat_message_insert_failed",
			"module", "community-experience/chat-service",
			"layer", "adapter",
			"chat_id", message.ChatID,
			"error", err.Error(),
		)
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (s *MessageStore) ListRecentMessages(ctx context.Context, chatID string, limit int) ([]entities.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entities.Message, len(docs))
	for i, doc := range docs {
		out[len(docs)-1-i] = entities.Message{
			MessageID: doc.MessageID,
			ChatID:    doc.ChatID,
			SenderID:  doc.SenderID,
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt.UTC(),
		}
	}
	return out, nil
}
