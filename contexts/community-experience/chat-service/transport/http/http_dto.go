package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Party struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type ChatItem struct {
	ID        string `json:"id"`
	Consumer  Party  `json:"consumer"`
	Creator   Party  `json:"creator"`
	UpdatedAt string `json:"updatedAt"`
}

type OpenChatResponse struct {
	ID string `json:"id"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type MessageItem struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// Frame is the websocket envelope. Inbound frames carry Type "send_message"
// and Text; outbound frames are "joined", "receive_message" or "error".
type Frame struct {
	Type    string       `json:"type"`
	ChatID  string       `json:"chatId,omitempty"`
	Text    string       `json:"text,omitempty"`
	Message *MessageItem `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}
