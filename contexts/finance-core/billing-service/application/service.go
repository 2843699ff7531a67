package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/finance-core/billing-service/domain/entities"
	domainerrors "creatorhub/contexts/finance-core/billing-service/domain/errors"
	"creatorhub/contexts/finance-core/billing-service/domain/services"
	"creatorhub/contexts/finance-core/billing-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"
)

type Service struct {
	Repo        ports.Repository
	Idempotency ports.IdempotencyStore
	EventDedup  ports.EventDedup
	Accounts    ports.AccountDirectory
	Catalog     ports.ContentCatalog
	Requests    ports.RequestPayments
	Gateway     ports.PaymentGateway
	Webhooks    ports.WebhookObserver
	Clock       ports.Clock
	IDGen       ports.IDGenerator
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

func (s Service) Status(ctx context.Context, userID string) (ports.Status, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return ports.Status{}, err
	}
	return ports.Status{
		AccessPassActive:       account.AccessPassActive,
		AccessPassExpiresAt:    account.AccessPassExpiresAt,
		SubscriptionActive:     account.SubscriptionActive,
		SubscriptionExpiresAt:  account.SubscriptionExpiresAt,
		PassPriceCents:         s.PassPriceCents,
		SubscriptionPriceCents: s.SubscriptionPriceCents,
		MockMode:               s.mockMode(),
	}, nil
}

// ActivatePass grants the pass without payment. Only available in mock mode.
func (s Service) ActivatePass(ctx context.Context, userID string) (ports.AccessGrant, error) {
	if !s.mockMode() {
		return ports.AccessGrant{}, domainerrors.ErrPaymentRequired
	}
	if _, err := s.account(ctx, userID); err != nil {
		return ports.AccessGrant{}, err
	}
	expiresAt, err := s.grantPass(ctx, userID)
	if err != nil {
		return ports.AccessGrant{}, err
	}
	return ports.AccessGrant{
		Kind:        entities.CheckoutPass,
		ExpiresAt:   expiresAt,
		AmountCents: s.PassPriceCents,
		Currency:    entities.CurrencyEUR,
	}, nil
}

// Subscribe grants a subscription period without payment. Only available in mock mode.
func (s Service) Subscribe(ctx context.Context, userID string) (ports.AccessGrant, error) {
	if !s.mockMode() {
		return ports.AccessGrant{}, domainerrors.ErrPaymentRequired
	}
	if _, err := s.account(ctx, userID); err != nil {
		return ports.AccessGrant{}, err
	}
	expiresAt, err := s.grantSubscription(ctx, userID)
	if err != nil {
		return ports.AccessGrant{}, err
	}
	return ports.AccessGrant{
		Kind:        entities.CheckoutSubscription,
		ExpiresAt:   expiresAt,
		AmountCents: s.SubscriptionPriceCents,
		Currency:    entities.CurrencyEUR,
	}, nil
}

// RecordPurchase unlocks an item without payment. Only available in mock mode.
func (s Service) RecordPurchase(ctx context.Context, userID string, contentID string) (entities.Purchase, error) {
	if !s.mockMode() {
		return entities.Purchase{}, domainerrors.ErrPaymentRequired
	}
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return entities.Purchase{}, domainerrors.ErrContentIDRequired
	}
	if _, err := s.account(ctx, userID); err != nil {
		return entities.Purchase{}, err
	}
	summary, found, err := s.Catalog.GetContentSummary(ctx, contentID)
	if err != nil {
		return entities.Purchase{}, err
	}
	if !found {
		return entities.Purchase{}, domainerrors.ErrContentNotFound
	}
	return s.upsertPurchase(ctx, userID, contentID, summary.PriceCents, "")
}

func (s Service) CheckoutPass(ctx context.Context, userID string, idempotencyKey string) (ports.CheckoutResult, bool, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return ports.CheckoutResult{}, false, err
	}
	if s.mockMode() {
		if _, err := s.grantPass(ctx, userID); err != nil {
			return ports.CheckoutResult{}, false, err
		}
		return ports.CheckoutResult{Mock: true}, false, nil
	}
	if strings.TrimSpace(s.PassPriceID) == "" {
		return ports.CheckoutResult{}, false, domainerrors.ErrPriceNotConfigured
	}

	return s.runIdempotent(ctx, userID, idempotencyKey, map[string]any{
		"kind":    string(entities.CheckoutPass),
		"user_id": userID,
	}, func() (ports.CheckoutResult, error) {
		customerID, err := s.ensureCustomer(ctx, account)
		if err != nil {
			return ports.CheckoutResult{}, err
		}
		return s.openCheckout(ctx, paymentsv1.CheckoutRequest{
			Mode:              paymentsv1.ModePayment,
			CustomerID:        customerID,
			PriceID:           s.PassPriceID,
			SuccessURL:        s.frontendURL("/profile?success=pass"),
			CancelURL:         s.frontendURL("/profile?canceled=pass"),
			ClientReferenceID: userID,
			Metadata: map[string]string{
				"type":   string(entities.CheckoutPass),
				"userId": userID,
			},
		})
	})
}

func (s Service) CheckoutSubscription(ctx context.Context, userID string, idempotencyKey string) (ports.CheckoutResult, bool, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return ports.CheckoutResult{}, false, err
	}
	if s.mockMode() {
		if _, err := s.grantSubscription(ctx, userID); err != nil {
			return ports.CheckoutResult{}, false, err
		}
		return ports.CheckoutResult{Mock: true}, false, nil
	}
	if strings.TrimSpace(s.SubscriptionPriceID) == "" {
		return ports.CheckoutResult{}, false, domainerrors.ErrPriceNotConfigured
	}

	return s.runIdempotent(ctx, userID, idempotencyKey, map[string]any{
		"kind":    string(entities.CheckoutSubscription),
		"user_id": userID,
	}, func() (ports.CheckoutResult, error) {
		customerID, err := s.ensureCustomer(ctx, account)
		if err != nil {
			return ports.CheckoutResult{}, err
		}
		return s.openCheckout(ctx, paymentsv1.CheckoutRequest{
			Mode:              paymentsv1.ModeSubscription,
			CustomerID:        customerID,
			PriceID:           s.SubscriptionPriceID,
			SuccessURL:        s.frontendURL("/profile?success=subscription"),
			CancelURL:         s.frontendURL("/profile?canceled=subscription"),
			ClientReferenceID: userID,
			Metadata: map[string]string{
				"type":   string(entities.CheckoutSubscription),
				"userId": userID,
			},
			SubscriptionMetadata: map[string]string{"userId": userID},
		})
	})
}

func (s Service) CheckoutContent(
	ctx context.Context,
	userID string,
	contentID string,
	idempotencyKey string,
) (ports.CheckoutResult, bool, error) {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return ports.CheckoutResult{}, false, domainerrors.ErrContentIDRequired
	}
	account, err := s.account(ctx, userID)
	if err != nil {
		return ports.CheckoutResult{}, false, err
	}
	summary, found, err := s.Catalog.GetContentSummary(ctx, contentID)
	if err != nil {
		return ports.CheckoutResult{}, false, err
	}
	if !found {
		return ports.CheckoutResult{}, false, domainerrors.ErrContentNotFound
	}
	if s.mockMode() {
		if _, err := s.upsertPurchase(ctx, userID, contentID, summary.PriceCents, ""); err != nil {
			return ports.CheckoutResult{}, false, err
		}
		return ports.CheckoutResult{Mock: true}, false, nil
	}
	if summary.PriceCents <= 0 {
		return ports.CheckoutResult{}, false, domainerrors.ErrInvalidPrice
	}

	return s.runIdempotent(ctx, userID, idempotencyKey, map[string]any{
		"kind":       string(entities.CheckoutContent),
		"user_id":    userID,
		"content_id": contentID,
	}, func() (ports.CheckoutResult, error) {
		customerID, err := s.ensureCustomer(ctx, account)
		if err != nil {
			return ports.CheckoutResult{}, err
		}
		return s.openCheckout(ctx, paymentsv1.CheckoutRequest{
			Mode:              paymentsv1.ModePayment,
			CustomerID:        customerID,
			AmountCents:       summary.PriceCents,
			Currency:          paymentsv1.CurrencyEUR,
			ProductName:       summary.Title,
			SuccessURL:        s.frontendURL(fmt.Sprintf("/content/%s?success=content", contentID)),
			CancelURL:         s.frontendURL(fmt.Sprintf("/content/%s?canceled=content", contentID)),
			ClientReferenceID: userID,
			Metadata: map[string]string{
				"type":      string(entities.CheckoutContent),
				"userId":    userID,
				"contentId": contentID,
			},
		})
	})
}

func (s Service) openCheckout(ctx context.Context, req paymentsv1.CheckoutRequest) (ports.CheckoutResult, error) {
	session, err := s.Gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		return ports.CheckoutResult{}, err
	}
	ResolveLogger(s.Logger).Info("checkout session opened",
		"event", "billing_checkout_opened",
		"module", "finance-core/billing-service",
		"layer", "application",
		"kind", req.Metadata["type"],
		"user_id", req.ClientReferenceID,
		"session_id", session.SessionID,
	)
	return ports.CheckoutResult{URL: session.URL, SessionID: session.SessionID}, nil
}

func (s Service) ensureCustomer(ctx context.Context, account identityv1.Account) (string, error) {
	if account.StripeCustomerID != "" {
		return account.StripeCustomerID, nil
	}
	customerID, err := s.Gateway.CreateCustomer(ctx, account.Email, account.PublicName())
	if err != nil {
		return "", err
	}
	if err := s.Accounts.SetStripeCustomerID(ctx, account.UserID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}

func (s Service) grantPass(ctx context.Context, userID string) (time.Time, error) {
	expiresAt := s.now().Add(s.accessPeriod())
	if err := s.Accounts.ActivateAccessPass(ctx, userID, expiresAt); err != nil {
		return time.Time{}, s.mapAccountError(err)
	}
	ResolveLogger(s.Logger).Info("access pass granted",
		"event", "billing_pass_granted",
		"module", "finance-core/billing-service",
		"layer", "application",
		"user_id", userID,
		"expires_at", expiresAt.Format(time.RFC3339),
	)
	return expiresAt, nil
}

func (s Service) grantSubscription(ctx context.Context, userID string) (time.Time, error) {
	expiresAt := s.now().Add(s.accessPeriod())
	err := s.Accounts.SetSubscription(ctx, userID, identityv1.SubscriptionState{
		Active:    true,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		return time.Time{}, s.mapAccountError(err)
	}
	ResolveLogger(s.Logger).Info("subscription granted",
		"event", "billing_subscription_granted",
		"module", "finance-core/billing-service",
		"layer", "application",
		"user_id", userID,
		"expires_at", expiresAt.Format(time.RFC3339),
	)
	return expiresAt, nil
}

func (s Service) upsertPurchase(
	ctx context.Context,
	userID string,
	contentID string,
	amountCents int64,
	paymentIntentID string,
) (entities.Purchase, error) {
	if amountCents < 0 {
		amountCents = 0
	}
	purchaseID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Purchase{}, err
	}
	fee, creator := services.SplitFee(amountCents, s.PlatformFeeRate)
	now := s.now()
	purchase, err := s.Repo.UpsertPurchase(ctx, entities.Purchase{
		PurchaseID:         purchaseID,
		UserID:             userID,
		ContentID:          contentID,
		AmountCents:        amountCents,
		PlatformFeeCents:   fee,
		CreatorAmountCents: creator,
		PaymentIntentID:    paymentIntentID,
		Currency:           entities.CurrencyEUR,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return entities.Purchase{}, err
	}
	ResolveLogger(s.Logger).Info("purchase recorded",
		"event", "billing_purchase_recorded",
		"module", "finance-core/billing-service",
		"layer", "application",
		"purchase_id", purchase.PurchaseID,
		"user_id", userID,
		"content_id", contentID,
		"amount_cents", amountCents,
	)
	return purchase, nil
}

func (s Service) account(ctx context.Context, userID string) (identityv1.Account, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return identityv1.Account{}, domainerrors.ErrUserNotFound
	}
	account, found, err := s.Accounts.GetAccount(ctx, userID)
	if err != nil {
		return identityv1.Account{}, err
	}
	if !found {
		return identityv1.Account{}, domainerrors.ErrUserNotFound
	}
	return account, nil
}

func (s Service) mapAccountError(err error) error {
	if errors.Is(err, identityv1.ErrAccountNotFound) {
		return domainerrors.ErrUserNotFound
	}
	return err
}

func (s Service) mockMode() bool {
	return s.Gateway == nil || !s.Gateway.Enabled()
}

func (s Service) frontendURL(path string) string {
	return strings.TrimRight(s.FrontendURL, "/") + path
}

func (s Service) accessPeriod() time.Duration {
	if s.AccessPeriod <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.AccessPeriod
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
