package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"creatorhub/contexts/community-experience/chat-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/chat-service/domain/errors"
	"creatorhub/contexts/community-experience/chat-service/ports"
)

// Store keeps chats and messages in process memory.
type Store struct {
	mu       sync.RWMutex
	chats    map[string]entities.Chat
	pairs    map[string]string
	touched  map[string]uint64
	messages map[string][]entities.Message
	clock    uint64
	sequence uint64
}

var (
	_ ports.ChatRepository = (*Store)(nil)
	_ ports.MessageStore   = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		chats:    make(map[string]entities.Chat),
		pairs:    make(map[string]string),
		touched:  make(map[string]uint64),
		messages: make(map[string][]entities.Message),
	}
}

func (s *Store) UpsertChat(_ context.Context, candidate entities.Chat, now time.Time) (entities.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(candidate.ConsumerID, candidate.CreatorID)
	if id, ok := s.pairs[key]; ok {
		chat := s.chats[id]
		chat.UpdatedAt = now
		s.chats[id] = chat
		s.touch(id)
		return chat, nil
	}
	candidate.UpdatedAt = now
	s.chats[candidate.ChatID] = candidate
	s.pairs[key] = candidate.ChatID
	s.touch(candidate.ChatID)
	return candidate, nil
}

func (s *Store) GetChat(_ context.Context, chatID string) (entities.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return entities.Chat{}, domainerrors.ErrChatNotFound
	}
	return chat, nil
}

func (s *Store) ListChatsForUser(_ context.Context, userID string) ([]entities.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Chat, 0)
	for _, chat := range s.chats {
		if chat.IsParticipant(userID) {
			out = append(out, chat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return s.touched[out[i].ChatID] > s.touched[out[j].ChatID]
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) TouchChat(_ context.Context, chatID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return domainerrors.ErrChatNotFound
	}
	chat.UpdatedAt = now
	s.chats[chatID] = chat
	s.touch(chatID)
	return nil
}

func (s *Store) AppendMessage(_ context.Context, message entities.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[message.ChatID] = append(s.messages[message.ChatID], message)
	return nil
}

func (s *Store) ListRecentMessages(_ context.Context, chatID string, limit int) ([]entities.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.messages[chatID]
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	return append([]entities.Message(nil), items...), nil
}

func (s *Store) touch(chatID string) {
	s.clock++
	s.touched[chatID] = s.clock
}

func pairKey(consumerID string, creatorID string) string {
	return consumerID + "\x00" + creatorID
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("chat-%d", value), nil
}
