package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
	"creatorhub/contexts/community-experience/custom-request-service/domain/services"
	"creatorhub/contexts/community-experience/custom-request-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"
)

const defaultRequestExpiry = 48 * time.Hour

type CreateCheckoutCommand struct {
	ConsumerID string
	CreatorID  string
	Prompt     string
	PriceCents int64
}

type CreateCheckoutResult struct {
	Request   entities.Request
	Mock      bool
	URL       string
	SessionID string
}

type CreateCheckoutUseCase struct {
	Requests        ports.Repository
	Accounts        ports.AccountDirectory
	Policy          ports.TextPolicy
	Gateway         ports.PaymentGateway
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	PlatformFeeRate float64
	Expiry          time.Duration
	FrontendURL     string
	Logger          *slog.Logger
}

// Execute validates the prompt and both parties, then either records a paid
// request directly (mock payments) or stores it unpaid and opens a hosted
// checkout whose completion webhook marks it paid.
func (u CreateCheckoutUseCase) Execute(ctx context.Context, cmd CreateCheckoutCommand) (CreateCheckoutResult, error) {
	logger := application.ResolveLogger(u.Logger)
	creatorID := strings.TrimSpace(cmd.CreatorID)
	prompt := strings.TrimSpace(cmd.Prompt)
	if creatorID == "" || prompt == "" || cmd.PriceCents == 0 {
		return CreateCheckoutResult{}, domainerrors.ErrMissingFields
	}
	if u.Policy != nil {
		if u.Policy.ContainsBlocked(prompt) {
			return CreateCheckoutResult{}, domainerrors.ErrBlockedContent
		}
		if !u.Policy.MentionsTopic(prompt) {
			return CreateCheckoutResult{}, domainerrors.ErrOffTopic
		}
	}

	consumer, found, err := u.Accounts.GetAccount(ctx, strings.TrimSpace(cmd.ConsumerID))
	if err != nil {
		return CreateCheckoutResult{}, err
	}
	if !found {
		return CreateCheckoutResult{}, domainerrors.ErrUserNotFound
	}
	if identityv1.NormalizeRole(consumer.Role) != identityv1.RoleConsumer {
		return CreateCheckoutResult{}, domainerrors.ErrForbidden
	}
	creator, found, err := u.Accounts.GetAccount(ctx, creatorID)
	if err != nil {
		return CreateCheckoutResult{}, err
	}
	if !found || identityv1.NormalizeRole(creator.Role) != identityv1.RoleCreator {
		return CreateCheckoutResult{}, domainerrors.ErrCreatorNotFound
	}
	if cmd.PriceCents < 0 {
		return CreateCheckoutResult{}, domainerrors.ErrInvalidPrice
	}

	requestID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateCheckoutResult{}, err
	}
	now := u.now()
	fee, creatorAmount := services.SplitFee(cmd.PriceCents, u.PlatformFeeRate)
	mock := u.Gateway == nil || !u.Gateway.Enabled()
	request, err := entities.NewRequest(entities.NewRequestInput{
		RequestID:          requestID,
		ConsumerID:         consumer.UserID,
		CreatorID:          creator.UserID,
		Prompt:             prompt,
		PriceCents:         cmd.PriceCents,
		PlatformFeeCents:   fee,
		CreatorAmountCents: creatorAmount,
		Paid:               mock,
		ExpiresAt:          now.Add(u.expiry()),
	}, now)
	if err != nil {
		return CreateCheckoutResult{}, err
	}
	if err := u.Requests.CreateRequest(ctx, request); err != nil {
		logger.Error("custom request create failed",
			"event", "custom_request_create_failed",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"consumer_id", consumer.UserID,
			"creator_id", creator.UserID,
			"error", err.Error(),
		)
		return CreateCheckoutResult{}, err
	}

	if mock {
		logger.Info("custom request created without payment",
			"event", "custom_request_created_mock",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"request_id", request.RequestID,
			"creator_id", creator.UserID,
			"price_cents", request.PriceCents,
		)
		return CreateCheckoutResult{Request: request, Mock: true}, nil
	}

	customerID, err := u.ensureCustomer(ctx, consumer)
	if err != nil {
		return CreateCheckoutResult{}, err
	}
	session, err := u.Gateway.CreateCheckoutSession(ctx, paymentsv1.CheckoutRequest{
		Mode:              paymentsv1.ModePayment,
		CustomerID:        customerID,
		AmountCents:       request.PriceCents,
		Currency:          paymentsv1.CurrencyEUR,
		ProductName:       "Custom request - " + creator.PublicName(),
		SuccessURL:        u.frontendURL("/requests?success=request"),
		CancelURL:         u.frontendURL(fmt.Sprintf("/creators/%s?canceled=request", creator.UserID)),
		ClientReferenceID: consumer.UserID,
		Metadata: map[string]string{
			"type":      "request",
			"userId":    consumer.UserID,
			"requestId": request.RequestID,
		},
	})
	if err != nil {
		logger.Error("custom request checkout failed",
			"event", "custom_request_checkout_failed",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"request_id", request.RequestID,
			"error", err.Error(),
		)
		return CreateCheckoutResult{}, err
	}
	request.PaymentSessionID = session.SessionID
	request.UpdatedAt = u.now()
	if err := u.Requests.SaveRequest(ctx, request); err != nil {
		return CreateCheckoutResult{}, err
	}

	logger.Info("custom request checkout opened",
		"event", "custom_request_checkout_opened",
		"module", "community-experience/custom-request-service",
		"layer", "application",
		"request_id", request.RequestID,
		"session_id", session.SessionID,
	)
	return CreateCheckoutResult{Request: request, URL: session.URL, SessionID: session.SessionID}, nil
}

func (u CreateCheckoutUseCase) ensureCustomer(ctx context.Context, account identityv1.Account) (string, error) {
	if account.StripeCustomerID != "" {
		return account.StripeCustomerID, nil
	}
	customerID, err := u.Gateway.CreateCustomer(ctx, account.Email, account.PublicName())
	if err != nil {
		return "", err
	}
	if err := u.Accounts.SetStripeCustomerID(ctx, account.UserID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}

func (u CreateCheckoutUseCase) expiry() time.Duration {
	if u.Expiry <= 0 {
		return defaultRequestExpiry
	}
	return u.Expiry
}

func (u CreateCheckoutUseCase) frontendURL(path string) string {
	return strings.TrimRight(u.FrontendURL, "/") + path
}

func (u CreateCheckoutUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
