package customrequest

import (
	"context"
	"log/slog"
	"time"

	httpadapter "creatorhub/contexts/community-experience/custom-request-service/adapters/http"
	"creatorhub/contexts/community-experience/custom-request-service/adapters/memory"
	"creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/application/commands"
	"creatorhub/contexts/community-experience/custom-request-service/application/queries"
	"creatorhub/contexts/community-experience/custom-request-service/application/workers"
	"creatorhub/contexts/community-experience/custom-request-service/ports"
)

// Module is the custom-request composition surface.
// Payments is consumed by billing webhooks, Reports by moderation and the
// dashboard, and the two workers by the cron runner.
type Module struct {
	Handler       httpadapter.Handler
	Payments      PaymentMarker
	Reports       ports.CreatorReports
	ExpirySweeper workers.ExpirySweeper
	RefundRetrier workers.RefundRetrier
	Store         *memory.Store
}

type Dependencies struct {
	Repository        ports.Repository
	Reports           ports.CreatorReports
	Accounts          ports.AccountDirectory
	Policy            ports.TextPolicy
	Gateway           ports.PaymentGateway
	Moderation        ports.ModerationRefresher
	Clock             ports.Clock
	IDGenerator       ports.IDGenerator
	PlatformFeeRate   float64
	Expiry            time.Duration
	FrontendURL       string
	MaxRefundAttempts int
	Logger            *slog.Logger
}

// PaymentMarker adapts MarkPaidUseCase to the billing webhook port.
type PaymentMarker struct {
	UseCase commands.MarkPaidUseCase
}

func (m PaymentMarker) MarkPaid(ctx context.Context, requestID string, paymentIntentID string) (bool, error) {
	return m.UseCase.Execute(ctx, commands.MarkPaidCommand{
		RequestID:       requestID,
		PaymentIntentID: paymentIntentID,
	})
}

func NewModule(deps Dependencies) Module {
	refunds := application.Refunder{
		Repo:    deps.Repository,
		Gateway: deps.Gateway,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	handler := httpadapter.Handler{
		ListRequests: queries.ListRequestsUseCase{
			Requests: deps.Repository,
			Accounts: deps.Accounts,
			Refunds:  refunds,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
		CreateCheckout: commands.CreateCheckoutUseCase{
			Requests:        deps.Repository,
			Accounts:        deps.Accounts,
			Policy:          deps.Policy,
			Gateway:         deps.Gateway,
			Clock:           deps.Clock,
			IDGenerator:     deps.IDGenerator,
			PlatformFeeRate: deps.PlatformFeeRate,
			Expiry:          deps.Expiry,
			FrontendURL:     deps.FrontendURL,
			Logger:          deps.Logger,
		},
		Respond: commands.RespondUseCase{
			Requests:   deps.Repository,
			Accounts:   deps.Accounts,
			Refunds:    refunds,
			Moderation: deps.Moderation,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		Logger: deps.Logger,
	}

	return Module{
		Handler: handler,
		Payments: PaymentMarker{UseCase: commands.MarkPaidUseCase{
			Requests: deps.Repository,
			Refunds:  refunds,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		}},
		Reports: deps.Reports,
		ExpirySweeper: workers.ExpirySweeper{
			Requests: deps.Repository,
			Refunds:  refunds,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
		RefundRetrier: workers.RefundRetrier{
			Requests:    deps.Repository,
			Refunds:     refunds,
			MaxAttempts: deps.MaxRefundAttempts,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule wires the use cases against store. Repository, Reports,
// Clock and IDGenerator in deps are filled from the store when unset.
func NewInMemoryModule(store *memory.Store, deps Dependencies) Module {
	if store == nil {
		store = memory.NewStore()
	}
	if deps.Repository == nil {
		deps.Repository = store
	}
	if deps.Reports == nil {
		deps.Reports = store
	}
	if deps.Clock == nil {
		deps.Clock = store
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = store
	}
	module := NewModule(deps)
	module.Store = store
	return module
}
