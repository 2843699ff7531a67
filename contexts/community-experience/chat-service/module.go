package chat

import (
	"log/slog"

	httpadapter "creatorhub/contexts/community-experience/chat-service/adapters/http"
	"creatorhub/contexts/community-experience/chat-service/adapters/memory"
	"creatorhub/contexts/community-experience/chat-service/adapters/realtime"
	"creatorhub/contexts/community-experience/chat-service/application"
	"creatorhub/contexts/community-experience/chat-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Hub     *realtime.Hub
	Store   *memory.Store
}

type Dependencies struct {
	Chats          ports.ChatRepository
	Messages       ports.MessageStore
	Accounts       ports.AccountReader
	Policy         ports.TextPolicy
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Chats:     deps.Chats,
		Messages:  deps.Messages,
		Accounts:  deps.Accounts,
		Policy:    deps.Policy,
		Publisher: deps.Publisher,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	hub := realtime.NewHub(service, deps.AllowedOrigins, deps.Logger)
	return Module{
		Handler: httpadapter.Handler{Service: service, Hub: hub},
		Service: service,
		Hub:     hub,
	}
}

// NewInMemoryModule fills unset storage, clock and id dependencies from a
// fresh memory store.
func NewInMemoryModule(deps Dependencies) Module {
	store := memory.NewStore()
	if deps.Chats == nil {
		deps.Chats = store
	}
	if deps.Messages == nil {
		deps.Messages = store
	}
	if deps.Clock == nil {
		deps.Clock = store
	}
	if deps.IDGen == nil {
		deps.IDGen = store
	}
	module := NewModule(deps)
	module.Store = store
	return module
}
