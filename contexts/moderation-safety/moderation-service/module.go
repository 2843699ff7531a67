package moderationservice

import (
	"log/slog"

	httpadapter "creatorhub/contexts/moderation-safety/moderation-service/adapters/http"
	"creatorhub/contexts/moderation-safety/moderation-service/adapters/memory"
	"creatorhub/contexts/moderation-safety/moderation-service/application"
	"creatorhub/contexts/moderation-safety/moderation-service/application/workers"
	"creatorhub/contexts/moderation-safety/moderation-service/domain/services"
	"creatorhub/contexts/moderation-safety/moderation-service/ports"
)

// Module exposes Service so other contexts can call RefreshCreatorStatus.
type Module struct {
	Handler    httpadapter.Handler
	Service    application.Service
	Reconciler workers.SuspensionReconciler
	Store      *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Accounts   ports.AccountDirectory
	Deliveries ports.DeliveredCounter
	Policy     ports.TextPolicy
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Thresholds services.Thresholds
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:       deps.Repository,
		Accounts:   deps.Accounts,
		Deliveries: deps.Deliveries,
		Policy:     deps.Policy,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Thresholds: deps.Thresholds,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
		Reconciler: workers.SuspensionReconciler{
			Service: service,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(deps Dependencies) Module {
	store := memory.NewStore()
	deps.Repository = store
	deps.IDGen = store
	if deps.Clock == nil {
		deps.Clock = store
	}
	module := NewModule(deps)
	module.Store = store
	return module
}
