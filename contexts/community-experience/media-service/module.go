package media

import (
	"log/slog"

	httpadapter "creatorhub/contexts/community-experience/media-service/adapters/http"
	"creatorhub/contexts/community-experience/media-service/application"
	"creatorhub/contexts/community-experience/media-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Store    ports.ObjectStore
	Accounts ports.AccountDirectory
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Store:    deps.Store,
		Accounts: deps.Accounts,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service},
		Service: service,
	}
}
