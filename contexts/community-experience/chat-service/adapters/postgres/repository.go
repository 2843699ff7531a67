package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"creatorhub/contexts/community-experience/chat-service/application"
	"creatorhub/contexts/community-experience/chat-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/chat-service/domain/errors"
	"creatorhub/contexts/community-experience/chat-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var (
	_ ports.ChatRepository = (*Repository)(nil)
	_ ports.MessageStore   = (*Repository)(nil)
)

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: application.ResolveLogger(logger),
	}
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&chatModel{}, &messageModel{})
}

// UpsertChat relies on the (consumer_id, creator_id) unique index; a
// conflicting insert only bumps updated_at and the stored row is re-read.
func (r *Repository) UpsertChat(ctx context.Context, candidate entities.Chat, now time.Time) (entities.Chat, error) {
	row := chatModelFromEntity(candidate)
	row.UpdatedAt = now
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "consumer_id"}, {Name: "creator_id"}},
			DoUpdates: clause.Assignments(map[string]any{"updated_at": now}),
		}).
		Create(&row).
		Error
	if err != nil {
		r.logger.Error("chat upsert failed",
			"event", "chat_upsert_failed",
			"module", "community-experience/chat-service",
			"layer", "adapter",
			"consumer_id", candidate.ConsumerID,
			"creator_id", candidate.CreatorID,
			"error", err.Error(),
		)
		return entities.Chat{}, fmt.Errorf("upsert chat: %w", err)
	}

	var stored chatModel
	err = r.db.WithContext(ctx).
		Where("consumer_id = ? AND creator_id = ?", candidate.ConsumerID, candidate.CreatorID).
		First(&stored).
		Error
	if err != nil {
		return entities.Chat{}, err
	}
	return stored.toEntity(), nil
}

func (r *Repository) GetChat(ctx context.Context, chatID string) (entities.Chat, error) {
	var row chatModel
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Chat{}, domainerrors.ErrChatNotFound
		}
		return entities.Chat{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListChatsForUser(ctx context.Context, userID string) ([]entities.Chat, error) {
	var rows []chatModel
	err := r.db.WithContext(ctx).
		Where("consumer_id = ? OR creator_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	out := make([]entities.Chat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) TouchChat(ctx context.Context, chatID string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&chatModel{}).
		Where("chat_id = ?", chatID).
		Update("updated_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrChatNotFound
	}
	return nil
}

func (r *Repository) AppendMessage(ctx context.Context, message entities.Message) error {
	row := messageModel{
		MessageID: message.MessageID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (r *Repository) ListRecentMessages(ctx context.Context, chatID string, limit int) ([]entities.Message, error) {
	var rows []messageModel
	query := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Message, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row.toEntity()
	}
	return out, nil
}

type chatModel struct {
	ChatID     string    `gorm:"column:chat_id;primaryKey"`
	ConsumerID string    `gorm:"column:consumer_id;uniqueIndex:idx_chats_pair"`
	CreatorID  string    `gorm:"column:creator_id;uniqueIndex:idx_chats_pair;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;index"`
}

func (chatModel) TableName() string {
	return "chats"
}

func chatModelFromEntity(chat entities.Chat) chatModel {
	return chatModel{
		ChatID:     chat.ChatID,
		ConsumerID: chat.ConsumerID,
		CreatorID:  chat.CreatorID,
		CreatedAt:  chat.CreatedAt,
		UpdatedAt:  chat.UpdatedAt,
	}
}

func (m chatModel) toEntity() entities.Chat {
	return entities.Chat{
		ChatID:     m.ChatID,
		ConsumerID: m.ConsumerID,
		CreatorID:  m.CreatorID,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type messageModel struct {
	MessageID string    `gorm:"column:message_id;primaryKey"`
	ChatID    string    `gorm:"column:chat_id;index:idx_chat_messages_chat_created,priority:1"`
	SenderID  string    `gorm:"column:sender_id"`
	Text      string    `gorm:"column:text"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_chat_messages_chat_created,priority:2"`
}

func (messageModel) TableName() string {
	return "chat_messages"
}

func (m messageModel) toEntity() entities.Message {
	return entities.Message{
		MessageID: m.MessageID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
