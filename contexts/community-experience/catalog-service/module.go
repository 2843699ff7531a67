package catalog

import (
	"log/slog"

	httpadapter "creatorhub/contexts/community-experience/catalog-service/adapters/http"
	"creatorhub/contexts/community-experience/catalog-service/adapters/memory"
	"creatorhub/contexts/community-experience/catalog-service/application"
	"creatorhub/contexts/community-experience/catalog-service/ports"
)

// Module is the catalog-service composition surface.
// Summaries is the cross-context read side billing and the dashboard consume.
type Module struct {
	Handler   httpadapter.Handler
	Summaries ports.ContentSummaries
	Store     *memory.Store
}

type Dependencies struct {
	Repository   ports.Repository
	Summaries    ports.ContentSummaries
	Accounts     ports.AccountReader
	Purchases    ports.PurchaseReader
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	PreviewCount int
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:         deps.Repository,
		Accounts:     deps.Accounts,
		Purchases:    deps.Purchases,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		PreviewCount: deps.PreviewCount,
		Logger:       deps.Logger,
	}
	return Module{
		Handler:   httpadapter.Handler{Service: service, Logger: deps.Logger},
		Summaries: deps.Summaries,
	}
}

func NewInMemoryModule(
	accounts ports.AccountReader,
	purchases ports.PurchaseReader,
	previewCount int,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:   store,
		Summaries:    store,
		Accounts:     accounts,
		Purchases:    purchases,
		Clock:        store,
		IDGenerator:  store,
		PreviewCount: previewCount,
		Logger:       logger,
	})
	module.Store = store
	return module
}
