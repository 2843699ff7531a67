package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"creatorhub/contexts/community-experience/chat-service/application"
	"creatorhub/contexts/community-experience/chat-service/domain/entities"
	"creatorhub/contexts/community-experience/chat-service/ports"
	httptransport "creatorhub/contexts/community-experience/chat-service/transport/http"

	eventsv1 "creatorhub/contracts/gen/events/v1"

	"github.com/gorilla/websocket"
)

const (
	FrameJoined         = "joined"
	FrameSendMessage    = "send_message"
	FrameReceiveMessage = "receive_message"
	FrameError          = "error"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameBytes  = 8 << 10
	sendBufferSize = 32
	consumerGroup  = "chat-realtime-hub"
)

// ChatSession is the slice of the chat service the hub drives.
type ChatSession interface {
	Authorize(ctx context.Context, userID string, chatID string) (entities.Chat, error)
	SendMessage(ctx context.Context, userID string, chatID string, text string) (entities.Message, error)
}

// Hub groups websocket clients into one room per chat and fans out
// chat.message_sent events from the bus to every client in the room.
type Hub struct {
	session  ChatSession
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	chatID string
	send   chan []byte
	once   sync.Once
}

func NewHub(session ChatSession, allowedOrigins []string, logger *slog.Logger) *Hub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = struct{}{}
	}
	return &Hub{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		logger: application.ResolveLogger(logger),
		rooms:  make(map[string]map[*client]struct{}),
	}
}

// Run subscribes the hub to chat events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context, subscriber ports.EventSubscriber) error {
	return subscriber.Subscribe(ctx, eventsv1.TopicChatMessages, consumerGroup, h.handleEvent)
}

func (h *Hub) handleEvent(_ context.Context, event eventsv1.Envelope) error {
	if event.EventType != eventsv1.EventTypeChatMessageSent {
		return nil
	}
	var payload eventsv1.ChatMessageSent
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	frame, err := json.Marshal(httptransport.Frame{
		Type:   FrameReceiveMessage,
		ChatID: payload.ChatID,
		Message: &httptransport.MessageItem{
			ID:        payload.MessageID,
			Sender:    payload.SenderID,
			Text:      payload.Text,
			CreatedAt: payload.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return err
	}
	h.broadcast(payload.ChatID, frame)
	return nil
}

// Serve authorizes the caller for chatID and upgrades the connection. An
// authorization error is returned before any bytes are written so the caller
// can render it as a regular HTTP error.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string, chatID string) error {
	chat, err := h.session.Authorize(r.Context(), userID, chatID)
	if err != nil {
		return err
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			"event", "chat_ws_upgrade_failed",
			"module", "community-experience/chat-service",
			"layer", "adapter",
			"chat_id", chat.ChatID,
			"error", err.Error(),
		)
		return nil
	}

	c := &client{
		hub:    h,
		conn:   conn,
		userID: userID,
		chatID: chat.ChatID,
		send:   make(chan []byte, sendBufferSize),
	}
	h.join(c)
	c.enqueue(httptransport.Frame{Type: FrameJoined, ChatID: chat.ChatID})

	go c.writePump()
	go c.readPump()
	return nil
}

// ClientCount reports connected clients in a room.
func (h *Hub) ClientCount(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.chatID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.chatID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.chatID]
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.chatID)
	}
	close(c.send)
}

func (h *Hub) broadcast(chatID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[chatID] {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("dropping frame for slow websocket client",
				"event", "chat_ws_frame_dropped",
				"module", "community-experience/chat-service",
				"layer", "adapter",
				"chat_id", chatID,
				"user_id", c.userID,
			)
		}
	}
}

func (c *client) enqueue(frame httptransport.Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.rooms[c.chatID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *client) close() {
	c.once.Do(func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	})
}

func (c *client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame httptransport.Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket closed",
					"event", "chat_ws_closed",
					"module", "community-experience/chat-service",
					"layer", "adapter",
					"chat_id", c.chatID,
					"error", err.Error(),
				)
			}
			return
		}
		if frame.Type != FrameSendMessage {
			c.enqueue(httptransport.Frame{Type: FrameError, ChatID: c.chatID, Error: "unsupported frame"})
			continue
		}
		if _, err := c.hub.session.SendMessage(context.Background(), c.userID, c.chatID, frame.Text); err != nil {
			c.enqueue(httptransport.Frame{Type: FrameError, ChatID: c.chatID, Error: err.Error()})
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
