package billing

import (
	"log/slog"
	"time"

	httpadapter "creatorhub/contexts/finance-core/billing-service/adapters/http"
	"creatorhub/contexts/finance-core/billing-service/adapters/memory"
	"creatorhub/contexts/finance-core/billing-service/application"
	"creatorhub/contexts/finance-core/billing-service/ports"
)

// Module is the billing-service composition surface.
// Purchases is the read side catalog and the dashboard consume.
type Module struct {
	Handler   httpadapter.Handler
	Purchases ports.Repository
	Store     *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Idempotency ports.IdempotencyStore
	EventDedup  ports.EventDedup
	Accounts    ports.AccountDirectory
	Catalog     ports.ContentCatalog
	Requests    ports.RequestPayments
	Gateway     ports.PaymentGateway
	Webhooks    ports.WebhookObserver
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger

	FrontendURL            string
	PassPriceID            string
	SubscriptionPriceID    string
	PassPriceCents         int64
	SubscriptionPriceCents int64
	PlatformFeeRate        float64
	AccessPeriod           time.Duration
	IdempotencyTTL         time.Duration
	EventDedupTTL          time.Duration
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:                   deps.Repository,
		Idempotency:            deps.Idempotency,
		EventDedup:             deps.EventDedup,
		Accounts:               deps.Accounts,
		Catalog:                deps.Catalog,
		Requests:               deps.Requests,
		Gateway:                deps.Gateway,
		Webhooks:               deps.Webhooks,
		Clock:                  deps.Clock,
		IDGen:                  deps.IDGenerator,
		Logger:                 deps.Logger,
		FrontendURL:            deps.FrontendURL,
		PassPriceID:            deps.PassPriceID,
		SubscriptionPriceID:    deps.SubscriptionPriceID,
		PassPriceCents:         deps.PassPriceCents,
		SubscriptionPriceCents: deps.SubscriptionPriceCents,
		PlatformFeeRate:        deps.PlatformFeeRate,
		AccessPeriod:           deps.AccessPeriod,
		IdempotencyTTL:         deps.IdempotencyTTL,
		EventDedupTTL:          deps.EventDedupTTL,
	}
	return Module{
		Handler:   httpadapter.Handler{Service: service, Logger: deps.Logger},
		Purchases: deps.Repository,
	}
}

// NewInMemoryModule wires billing against the in-memory store. Callers that
// share the store with other contexts should build it first and use NewModule.
func NewInMemoryModule(store *memory.Store, deps Dependencies) Module {
	if store == nil {
		store = memory.NewStore()
	}
	deps.Repository = store
	deps.Idempotency = store
	if deps.EventDedup == nil {
		deps.EventDedup = store
	}
	deps.Clock = store
	deps.IDGenerator = store
	module := NewModule(deps)
	module.Store = store
	return module
}
