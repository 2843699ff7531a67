package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
	"creatorhub/contexts/community-experience/custom-request-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

const listLimit = 200

type ListRequestsQuery struct {
	UserID string
}

type Party struct {
	UserID      string
	DisplayName string
}

type RequestView struct {
	Request  entities.Request
	Consumer Party
	Creator  Party
}

type ListRequestsResult struct {
	Items []RequestView
}

type ListRequestsUseCase struct {
	Requests ports.Repository
	Accounts ports.AccountDirectory
	Refunds  application.Refunder
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Execute lists the caller's paid requests. Overdue pending requests found on
// the way are expired and refunded before they are returned.
func (u ListRequestsUseCase) Execute(ctx context.Context, query ListRequestsQuery) (ListRequestsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	account, found, err := u.Accounts.GetAccount(ctx, strings.TrimSpace(query.UserID))
	if err != nil {
		return ListRequestsResult{}, err
	}
	if !found {
		return ListRequestsResult{}, domainerrors.ErrUserNotFound
	}

	var items []entities.Request
	if identityv1.NormalizeRole(account.Role) == identityv1.RoleCreator {
		items, err = u.Requests.ListPaidForCreator(ctx, account.UserID, listLimit)
	} else {
		items, err = u.Requests.ListPaidForConsumer(ctx, account.UserID, listLimit)
	}
	if err != nil {
		return ListRequestsResult{}, err
	}

	now := u.now()
	for i := range items {
		if !items[i].Expire(now) {
			continue
		}
		if err := u.Requests.SaveRequest(ctx, items[i]); err != nil {
			return ListRequestsResult{}, err
		}
		refunded, err := u.Refunds.Process(ctx, items[i])
		if err != nil {
			return ListRequestsResult{}, err
		}
		items[i] = refunded
		logger.Info("custom request expired on read",
			"event", "custom_request_expired_on_read",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"request_id", refunded.RequestID,
			"refund_status", string(refunded.RefundStatus),
		)
	}

	ids := make([]string, 0, len(items)*2)
	for _, item := range items {
		ids = append(ids, item.ConsumerID, item.CreatorID)
	}
	accounts, err := u.Accounts.GetAccounts(ctx, ids)
	if err != nil {
		return ListRequestsResult{}, err
	}

	views := make([]RequestView, 0, len(items))
	for _, item := range items {
		views = append(views, RequestView{
			Request:  item,
			Consumer: partyFor(item.ConsumerID, accounts),
			Creator:  partyFor(item.CreatorID, accounts),
		})
	}
	return ListRequestsResult{Items: views}, nil
}

func partyFor(userID string, accounts map[string]identityv1.Account) Party {
	party := Party{UserID: userID}
	if account, ok := accounts[userID]; ok {
		party.DisplayName = account.PublicName()
	}
	return party
}

func (u ListRequestsUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
