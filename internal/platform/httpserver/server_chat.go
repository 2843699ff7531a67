package httpserver

import (
	"errors"
	"net/http"

	chaterrors "creatorhub/contexts/community-experience/chat-service/domain/errors"
	chathttp "creatorhub/contexts/community-experience/chat-service/transport/http"
	"creatorhub/internal/platform/auth"
)

func writeChatDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chaterrors.ErrInvalidRequest),
		errors.Is(err, chaterrors.ErrSelfChat),
		errors.Is(err, chaterrors.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, chaterrors.ErrBlockedContent):
		writeError(w, http.StatusBadRequest, "message_not_allowed", err.Error())
	case errors.Is(err, chaterrors.ErrSubscriptionRequired):
		writeError(w, http.StatusForbidden, "subscription_required", err.Error())
	case errors.Is(err, chaterrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, chaterrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, chaterrors.ErrCreatorNotFound):
		writeError(w, http.StatusNotFound, "creator_not_found", err.Error())
	case errors.Is(err, chaterrors.ErrChatNotFound):
		writeError(w, http.StatusNotFound, "chat_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Chat.Handler.ListChatsHandler(r.Context(), claims.UserID)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenChat(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Chat.Handler.OpenChatHandler(r.Context(), claims.UserID, r.PathValue("creator_id"))
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Chat.Handler.ListMessagesHandler(r.Context(), claims.UserID, r.PathValue("chat_id"))
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req chathttp.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Chat.Handler.SendMessageHandler(r.Context(), claims.UserID, r.PathValue("chat_id"), req)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleChatWebsocket authorizes the caller and upgrades. Errors returned
// before the upgrade are still plain HTTP responses.
func (s *Server) handleChatWebsocket(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	if err := s.modules.Chat.Handler.ServeWebsocket(w, r, claims.UserID, r.PathValue("chat_id")); err != nil {
		writeChatDomainError(w, err)
	}
}
