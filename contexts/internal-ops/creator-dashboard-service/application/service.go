package application

import (
	"context"
	"log/slog"
	"strings"

	"creatorhub/contexts/internal-ops/creator-dashboard-service/domain/entities"
	domainerrors "creatorhub/contexts/internal-ops/creator-dashboard-service/domain/errors"
	"creatorhub/contexts/internal-ops/creator-dashboard-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

type Service struct {
	Accounts  ports.AccountReader
	Content   ports.ContentReader
	Purchases ports.PurchaseReader
	Requests  ports.RequestReader
	Logger    *slog.Logger
}

func (s Service) CreatorDashboard(ctx context.Context, userID string) (entities.Dashboard, error) {
	account, found, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(userID))
	if err != nil {
		return entities.Dashboard{}, err
	}
	if !found {
		return entities.Dashboard{}, domainerrors.ErrUserNotFound
	}
	role := identityv1.NormalizeRole(account.Role)
	if role != identityv1.RoleCreator && role != identityv1.RoleAdmin {
		return entities.Dashboard{}, domainerrors.ErrForbidden
	}

	contents, err := s.Content.ListCreatorContentSummaries(ctx, account.UserID)
	if err != nil {
		return entities.Dashboard{}, err
	}
	sales := make([]entities.Sale, 0)
	if len(contents) > 0 {
		ids := make([]string, 0, len(contents))
		for _, item := range contents {
			ids = append(ids, item.ContentID)
		}
		purchases, err := s.Purchases.ListPurchasesForContent(ctx, ids)
		if err != nil {
			return entities.Dashboard{}, err
		}
		for _, purchase := range purchases {
			sales = append(sales, entities.Sale{
				AmountCents:        purchase.AmountCents,
				PlatformFeeCents:   purchase.PlatformFeeCents,
				CreatorAmountCents: purchase.CreatorAmountCents,
			})
		}
	}

	requests, err := s.Requests.ListCreatorRequests(ctx, account.UserID)
	if err != nil {
		return entities.Dashboard{}, err
	}
	lines := make([]entities.RequestLine, 0, len(requests))
	for _, request := range requests {
		lines = append(lines, entities.RequestLine{
			RequestID:  request.RequestID,
			Status:     request.Status,
			PriceCents: request.PriceCents,
			CreatedAt:  request.CreatedAt,
		})
	}

	dashboard := entities.Summarize(len(contents), sales, lines)
	resolveLogger(s.Logger).Debug("creator dashboard computed",
		"event", "creator_dashboard_computed",
		"module", "internal-ops/creator-dashboard-service",
		"layer", "application",
		"creator_id", account.UserID,
		"content_count", dashboard.ContentCount,
		"request_total", dashboard.RequestStats["total"],
	)
	return dashboard, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
