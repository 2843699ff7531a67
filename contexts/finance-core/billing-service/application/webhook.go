package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"creatorhub/contexts/finance-core/billing-service/domain/entities"
	"creatorhub/contexts/finance-core/billing-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"
)

const (
	webhookProcessed = "processed"
	webhookDuplicate = "duplicate"
	webhookFailed    = "failed"
	webhookRejected  = "rejected"
)

// HandleWebhook verifies and applies one processor event. Each event id is
// applied at most once; a failed event releases its reservation so the
// processor's retry can apply it.
func (s Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (ports.WebhookResult, error) {
	logger := ResolveLogger(s.Logger)
	if s.Gateway == nil {
		return ports.WebhookResult{}, paymentsv1.ErrWebhookNotConfigured
	}
	event, err := s.Gateway.ParseWebhook(payload, signature)
	if err != nil {
		s.observeWebhook("unknown", webhookRejected)
		return ports.WebhookResult{}, err
	}
	result := ports.WebhookResult{EventID: event.EventID, EventType: event.EventType}

	dedupKey := "stripe:event:" + event.EventID
	if s.EventDedup != nil && event.EventID != "" {
		reserved, err := s.EventDedup.Reserve(ctx, dedupKey, s.eventDedupTTL())
		if err != nil {
			return ports.WebhookResult{}, err
		}
		if !reserved {
			logger.Info("duplicate webhook event skipped",
				"event", "billing_webhook_duplicate",
				"module", "finance-core/billing-service",
				"layer", "application",
				"event_id", event.EventID,
				"event_type", event.EventType,
			)
			s.observeWebhook(event.EventType, webhookDuplicate)
			result.Duplicate = true
			return result, nil
		}
	}

	if err := s.applyEvent(ctx, event); err != nil {
		if s.EventDedup != nil && event.EventID != "" {
			if releaseErr := s.EventDedup.Release(ctx, dedupKey); releaseErr != nil {
				logger.Error("webhook reservation release failed",
					"event", "billing_webhook_release_failed",
					"module", "finance-core/billing-service",
					"layer", "application",
					"event_id", event.EventID,
					"error", releaseErr.Error(),
				)
			}
		}
		logger.Error("webhook event failed",
			"event", "billing_webhook_failed",
			"module", "finance-core/billing-service",
			"layer", "application",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		s.observeWebhook(event.EventType, webhookFailed)
		return ports.WebhookResult{}, err
	}

	logger.Info("webhook event applied",
		"event", "billing_webhook_applied",
		"module", "finance-core/billing-service",
		"layer", "application",
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	s.observeWebhook(event.EventType, webhookProcessed)
	return result, nil
}

func (s Service) applyEvent(ctx context.Context, event paymentsv1.WebhookEvent) error {
	switch event.EventType {
	case paymentsv1.EventCheckoutSessionCompleted:
		if event.Checkout == nil {
			return nil
		}
		return s.applyCompletedCheckout(ctx, *event.Checkout)
	case paymentsv1.EventInvoicePaid:
		if event.Invoice == nil || event.Invoice.SubscriptionID == "" {
			return nil
		}
		return s.refreshSubscription(ctx, event.Invoice.SubscriptionID)
	case paymentsv1.EventCustomerSubscriptionDeleted:
		if event.Subscription == nil {
			return nil
		}
		return s.cancelSubscription(ctx, event.Subscription.SubscriptionID)
	default:
		return nil
	}
}

func (s Service) applyCompletedCheckout(ctx context.Context, checkout paymentsv1.CompletedCheckout) error {
	kind := entities.CheckoutKind(checkout.Metadata["type"])
	if kind == entities.CheckoutRequest {
		return s.markRequestPaid(ctx, checkout)
	}

	userID := strings.TrimSpace(checkout.Metadata["userId"])
	if userID == "" {
		userID = strings.TrimSpace(checkout.ClientReferenceID)
	}
	if userID == "" {
		return nil
	}
	_, found, err := s.Accounts.GetAccount(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		s.logIgnored("checkout user not found", checkout.SessionID, userID)
		return nil
	}

	switch kind {
	case entities.CheckoutPass:
		_, err := s.grantPass(ctx, userID)
		return err
	case entities.CheckoutSubscription:
		if checkout.SubscriptionID == "" {
			return nil
		}
		sub, err := s.Gateway.GetSubscription(ctx, checkout.SubscriptionID)
		if err != nil {
			return err
		}
		return s.Accounts.SetSubscription(ctx, userID, identityv1.SubscriptionState{
			Active:               true,
			ExpiresAt:            periodEnd(sub),
			StripeSubscriptionID: sub.SubscriptionID,
		})
	case entities.CheckoutContent:
		contentID := strings.TrimSpace(checkout.Metadata["contentId"])
		summary, found, err := s.Catalog.GetContentSummary(ctx, contentID)
		if err != nil {
			return err
		}
		if !found {
			s.logIgnored("checkout content not found", checkout.SessionID, userID)
			return nil
		}
		_, err = s.upsertPurchase(ctx, userID, contentID, summary.PriceCents, checkout.PaymentIntentID)
		return err
	default:
		return nil
	}
}

func (s Service) markRequestPaid(ctx context.Context, checkout paymentsv1.CompletedCheckout) error {
	requestID := strings.TrimSpace(checkout.Metadata["requestId"])
	if requestID == "" || s.Requests == nil {
		return nil
	}
	found, err := s.Requests.MarkPaid(ctx, requestID, checkout.PaymentIntentID)
	if err != nil {
		return err
	}
	if !found {
		s.logIgnored("checkout request not found", checkout.SessionID, requestID)
	}
	return nil
}

func (s Service) refreshSubscription(ctx context.Context, subscriptionID string) error {
	sub, err := s.Gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}
	account, found, err := s.Accounts.FindAccountBySubscriptionID(ctx, sub.SubscriptionID)
	if err != nil || !found {
		return err
	}
	return s.Accounts.SetSubscription(ctx, account.UserID, identityv1.SubscriptionState{
		Active:    true,
		ExpiresAt: periodEnd(sub),
	})
}

func (s Service) cancelSubscription(ctx context.Context, subscriptionID string) error {
	account, found, err := s.Accounts.FindAccountBySubscriptionID(ctx, subscriptionID)
	if err != nil || !found {
		return err
	}
	err = s.Accounts.SetSubscription(ctx, account.UserID, identityv1.SubscriptionState{Active: false})
	if errors.Is(err, identityv1.ErrAccountNotFound) {
		return nil
	}
	return err
}

func (s Service) logIgnored(reason string, sessionID string, subjectID string) {
	ResolveLogger(s.Logger).Warn(reason,
		"event", "billing_webhook_target_missing",
		"module", "finance-core/billing-service",
		"layer", "application",
		"session_id", sessionID,
		"subject_id", subjectID,
	)
}

func (s Service) observeWebhook(eventType string, result string) {
	if s.Webhooks != nil {
		s.Webhooks.ObserveWebhook(eventType, result)
	}
}

func (s Service) eventDedupTTL() time.Duration {
	if s.EventDedupTTL <= 0 {
		return 72 * time.Hour
	}
	return s.EventDedupTTL
}

func periodEnd(sub paymentsv1.Subscription) *time.Time {
	if sub.CurrentPeriodEnd.IsZero() {
		return nil
	}
	value := sub.CurrentPeriodEnd.UTC()
	return &value
}
