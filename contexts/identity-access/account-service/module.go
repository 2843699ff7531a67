package account

import (
	"log/slog"

	httpadapter "creatorhub/contexts/identity-access/account-service/adapters/http"
	"creatorhub/contexts/identity-access/account-service/adapters/memory"
	"creatorhub/contexts/identity-access/account-service/application"
	"creatorhub/contexts/identity-access/account-service/ports"
)

// Module is the account-service composition surface.
// Runtime wiring consumes Handler; Store is exposed for tests/inspection.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Hasher:      deps.Hasher,
		Tokens:      deps.Tokens,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires account use cases against the in-memory store.
func NewInMemoryModule(hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Hasher:      hasher,
		Tokens:      tokens,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
