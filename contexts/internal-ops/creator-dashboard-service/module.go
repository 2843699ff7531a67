package creatordashboard

import (
	"log/slog"

	httpadapter "creatorhub/contexts/internal-ops/creator-dashboard-service/adapters/http"
	"creatorhub/contexts/internal-ops/creator-dashboard-service/application"
	"creatorhub/contexts/internal-ops/creator-dashboard-service/ports"
)

// Module has no storage of its own; it reads from catalog, billing and
// custom requests through ports.
type Module struct {
	Handler httpadapter.Handler
}

type Dependencies struct {
	Accounts  ports.AccountReader
	Content   ports.ContentReader
	Purchases ports.PurchaseReader
	Requests  ports.RequestReader
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Service: application.Service{
				Accounts:  deps.Accounts,
				Content:   deps.Content,
				Purchases: deps.Purchases,
				Requests:  deps.Requests,
				Logger:    deps.Logger,
			},
		},
	}
}
