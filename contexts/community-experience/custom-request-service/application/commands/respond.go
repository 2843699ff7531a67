package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
	"creatorhub/contexts/community-experience/custom-request-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

type RespondCommand struct {
	CreatorID    string
	RequestID    string
	DeliveryURL  string
	DeliveryNote string
}

// RespondUseCase carries the creator-side decisions on a request. Each
// decision refreshes the creator's moderation status once it is stored.
type RespondUseCase struct {
	Requests   ports.Repository
	Accounts   ports.AccountDirectory
	Refunds    application.Refunder
	Moderation ports.ModerationRefresher
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u RespondUseCase) Accept(ctx context.Context, cmd RespondCommand) (entities.Request, error) {
	request, err := u.loadOwned(ctx, cmd)
	if err != nil {
		return entities.Request{}, err
	}
	if err := request.Accept(u.now()); err != nil {
		if errors.Is(err, domainerrors.ErrRequestExpired) {
			if saveErr := u.Requests.SaveRequest(ctx, request); saveErr != nil {
				return entities.Request{}, saveErr
			}
			if _, refundErr := u.Refunds.Process(ctx, request); refundErr != nil {
				return entities.Request{}, refundErr
			}
		}
		return entities.Request{}, err
	}
	if err := u.Requests.SaveRequest(ctx, request); err != nil {
		return entities.Request{}, err
	}
	u.logDecision("accept", request)
	u.refresh(ctx, request.CreatorID)
	return request, nil
}

func (u RespondUseCase) Decline(ctx context.Context, cmd RespondCommand) (entities.Request, error) {
	request, err := u.loadOwned(ctx, cmd)
	if err != nil {
		return entities.Request{}, err
	}
	if err := request.Decline(u.now()); err != nil {
		return entities.Request{}, err
	}
	if err := u.Requests.SaveRequest(ctx, request); err != nil {
		return entities.Request{}, err
	}
	request, err = u.Refunds.Process(ctx, request)
	if err != nil {
		return entities.Request{}, err
	}
	u.logDecision("decline", request)
	u.refresh(ctx, request.CreatorID)
	return request, nil
}

func (u RespondUseCase) Deliver(ctx context.Context, cmd RespondCommand) (entities.Request, error) {
	request, err := u.loadOwned(ctx, cmd)
	if err != nil {
		return entities.Request{}, err
	}
	if err := request.Deliver(cmd.DeliveryURL, cmd.DeliveryNote, u.now()); err != nil {
		return entities.Request{}, err
	}
	if err := u.Requests.SaveRequest(ctx, request); err != nil {
		return entities.Request{}, err
	}
	u.logDecision("deliver", request)
	u.refresh(ctx, request.CreatorID)
	return request, nil
}

func (u RespondUseCase) loadOwned(ctx context.Context, cmd RespondCommand) (entities.Request, error) {
	creatorID := strings.TrimSpace(cmd.CreatorID)
	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	account, found, err := u.Accounts.GetAccount(ctx, creatorID)
	if err != nil {
		return entities.Request{}, err
	}
	if !found {
		return entities.Request{}, domainerrors.ErrUserNotFound
	}
	if identityv1.NormalizeRole(account.Role) != identityv1.RoleCreator {
		return entities.Request{}, domainerrors.ErrForbidden
	}
	request, err := u.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return entities.Request{}, err
	}
	if request.CreatorID != account.UserID {
		return entities.Request{}, domainerrors.ErrForbidden
	}
	return request, nil
}

// refresh failures are logged; the decision itself is already committed.
func (u RespondUseCase) refresh(ctx context.Context, creatorID string) {
	if u.Moderation == nil {
		return
	}
	if err := u.Moderation.RefreshCreatorStatus(ctx, creatorID); err != nil {
		application.ResolveLogger(u.Logger).Warn("moderation refresh failed",
			"event", "custom_request_moderation_refresh_failed",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"creator_id", creatorID,
			"error", err.Error(),
		)
	}
}

func (u RespondUseCase) logDecision(decision string, request entities.Request) {
	application.ResolveLogger(u.Logger).Info("custom request updated",
		"event", "custom_request_"+decision,
		"module", "community-experience/custom-request-service",
		"layer", "application",
		"request_id", request.RequestID,
		"creator_id", request.CreatorID,
		"status", string(request.Status),
	)
}

func (u RespondUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
