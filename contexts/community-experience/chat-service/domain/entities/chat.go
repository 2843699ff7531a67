package entities

import (
	"strings"
	"time"

	domainerrors "creatorhub/contexts/community-experience/chat-service/domain/errors"
)

// Chat is unique per (consumer, creator) pair. ConsumerID is whoever opened
// it, which may be another creator or an admin.
type Chat struct {
	ChatID     string
	ConsumerID string
	CreatorID  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c Chat) IsParticipant(userID string) bool {
	return userID != "" && (c.ConsumerID == userID || c.CreatorID == userID)
}

type Message struct {
	MessageID string
	ChatID    string
	SenderID  string
	Text      string
	CreatedAt time.Time
}

func NewMessage(id string, chatID string, senderID string, text string, now time.Time) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, domainerrors.ErrEmptyMessage
	}
	return Message{
		MessageID: id,
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: now,
	}, nil
}
