package mongoadapter

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/community-experience/chat-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMessageStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("append inserts document", func(mt *mtest.T) {
		store := NewMessageStore(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := store.AppendMessage(context.Background(), entities.Message{
			MessageID: "m1",
			ChatID:    "c1",
			SenderID:  "u1",
			Text:      "salut",
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(mt, err)
	})

	mt.Run("recent messages come back oldest first", func(mt *mtest.T) {
		store := NewMessageStore(mt.Coll, nil)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		now := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "m2"}, {Key: "chat_id", Value: "c1"}, {Key: "sender_id", Value: "cr1"}, {Key: "text", Value: "second"}, {Key: "created_at", Value: now.Add(time.Minute)}},
			bson.D{{Key: "_id", Value: "m1"}, {Key: "chat_id", Value: "c1"}, {Key: "sender_id", Value: "u1"}, {Key: "text", Value: "first"}, {Key: "created_at", Value: now}},
		))

		items, err := store.ListRecentMessages(context.Background(), "c1", 200)
		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.Equal(mt, "m1", items[0].MessageID)
		assert.Equal(mt, "second", items[1].Text)
		assert.True(mt, items[1].CreatedAt.Equal(now.Add(time.Minute)))
	})

	mt.Run("insert failure is returned", func(mt *mtest.T) {
		store := NewMessageStore(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "duplicate key"}))

		err := store.AppendMessage(context.Background(), entities.Message{MessageID: "m1", ChatID: "c1"})
		require.Error(mt, err)
	})
}
