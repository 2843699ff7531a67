package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"creatorhub/contexts/community-experience/chat-service/adapters/memory"
	"creatorhub/contexts/community-experience/chat-service/adapters/realtime"
	"creatorhub/contexts/community-experience/chat-service/application"
	domainerrors "creatorhub/contexts/community-experience/chat-service/domain/errors"
	httptransport "creatorhub/contexts/community-experience/chat-service/transport/http"

	identityv1 "creatorhub/contracts/gen/identity/v1"
	"creatorhub/internal/platform/messaging"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts map[string]identityv1.Account

func (s stubAccounts) GetAccount(_ context.Context, userID string) (identityv1.Account, bool, error) {
	account, ok := s[userID]
	return account, ok, nil
}

func (s stubAccounts) GetAccounts(_ context.Context, _ []string) (map[string]identityv1.Account, error) {
	return map[string]identityv1.Account(s), nil
}

func newHubServer(t *testing.T) (*httptest.Server, *realtime.Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bus := messaging.NewBus(nil)
	store := memory.NewStore()
	svc := application.Service{
		Chats:    store,
		Messages: store,
		Accounts: stubAccounts{
			"fan":      {UserID: "fan", Role: identityv1.RoleConsumer, SubscriptionActive: true},
			"creator":  {UserID: "creator", Role: identityv1.RoleCreator},
			"stranger": {UserID: "stranger", Role: identityv1.RoleCreator},
		},
		Publisher: bus,
		Clock:     store,
		IDGen:     store,
	}
	chat, err := svc.OpenChat(ctx, "fan", "creator")
	require.NoError(t, err)

	hub := realtime.NewHub(svc, nil, nil)
	require.NoError(t, hub.Run(ctx, bus))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.URL.Query().Get("user")
		if err := hub.Serve(w, r, user, r.URL.Query().Get("chat")); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
		}
	}))
	t.Cleanup(server.Close)
	return server, hub, chat.ChatID
}

func dial(t *testing.T, server *httptest.Server, user string, chatID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?user=" + user + "&chat=" + chatID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var joined httptransport.Frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&joined))
	require.Equal(t, realtime.FrameJoined, joined.Type)
	return conn
}

func TestHubFansOutMessagesToRoom(t *testing.T) {
	server, hub, chatID := newHubServer(t)
	fan := dial(t, server, "fan", chatID)
	creator := dial(t, server, "creator", chatID)
	require.Eventually(t, func() bool { return hub.ClientCount(chatID) == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, fan.WriteJSON(httptransport.Frame{Type: realtime.FrameSendMessage, Text: "salut"}))

	for _, conn := range []*websocket.Conn{fan, creator} {
		var frame httptransport.Frame
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&frame))
		assert.Equal(t, realtime.FrameReceiveMessage, frame.Type)
		require.NotNil(t, frame.Message)
		assert.Equal(t, "salut", frame.Message.Text)
		assert.Equal(t, "fan", frame.Message.Sender)
	}
}

func TestHubReportsSendErrorsToSender(t *testing.T) {
	server, _, chatID := newHubServer(t)
	fan := dial(t, server, "fan", chatID)

	require.NoError(t, fan.WriteJSON(httptransport.Frame{Type: realtime.FrameSendMessage, Text: "  "}))

	var frame httptransport.Frame
	require.NoError(t, fan.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, fan.ReadJSON(&frame))
	assert.Equal(t, realtime.FrameError, frame.Type)
	assert.Equal(t, domainerrors.ErrEmptyMessage.Error(), frame.Error)
}

func TestHubRejectsNonParticipantBeforeUpgrade(t *testing.T) {
	server, _, chatID := newHubServer(t)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?user=stranger&chat=" + chatID

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
