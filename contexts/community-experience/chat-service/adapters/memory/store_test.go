package memory

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/community-experience/chat-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/chat-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertChatReusesPair(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	t0 := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)

	first, err := store.UpsertChat(ctx, entities.Chat{ChatID: "c1", ConsumerID: "u1", CreatorID: "cr1", CreatedAt: t0}, t0)
	require.NoError(t, err)
	second, err := store.UpsertChat(ctx, entities.Chat{ChatID: "c2", ConsumerID: "u1", CreatorID: "cr1", CreatedAt: t0}, t0.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, first.ChatID, second.ChatID)
	assert.Equal(t, t0.Add(time.Minute), second.UpdatedAt)

	_, err = store.GetChat(ctx, "c2")
	assert.ErrorIs(t, err, domainerrors.ErrChatNotFound)
}

func TestListChatsForUserNewestActivityFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	t0 := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)

	_, _ = store.UpsertChat(ctx, entities.Chat{ChatID: "c1", ConsumerID: "u1", CreatorID: "cr1"}, t0)
	_, _ = store.UpsertChat(ctx, entities.Chat{ChatID: "c2", ConsumerID: "u1", CreatorID: "cr2"}, t0)
	_, _ = store.UpsertChat(ctx, entities.Chat{ChatID: "c3", ConsumerID: "u2", CreatorID: "cr1"}, t0)
	require.NoError(t, store.TouchChat(ctx, "c1", t0))

	chats, err := store.ListChatsForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "c1", chats[0].ChatID)
	assert.Equal(t, "c2", chats[1].ChatID)

	assert.ErrorIs(t, store.TouchChat(ctx, "missing", t0), domainerrors.ErrChatNotFound)
}

func TestListRecentMessagesKeepsNewestInOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, store.AppendMessage(ctx, entities.Message{MessageID: id, ChatID: "c1", Text: id}))
	}

	items, err := store.ListRecentMessages(ctx, "c1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "m2", items[0].MessageID)
	assert.Equal(t, "m3", items[1].MessageID)
}
