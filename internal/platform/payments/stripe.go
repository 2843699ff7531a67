package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paymentsv1 "creatorhub/contracts/gen/payments/v1"
	"creatorhub/internal/platform/observability"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway talks to Stripe. A gateway built without a usable secret key
// runs in mock mode: Enabled reports false and processor calls fail with
// paymentsv1.ErrGatewayDisabled so callers can apply entitlements directly.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	metrics       *observability.Metrics
	logger        *slog.Logger
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	MockMode      bool
	// Backends overrides the Stripe API endpoints; nil uses Stripe's defaults.
	Backends *stripe.Backends
}

func NewStripeGateway(cfg StripeConfig, metrics *observability.Metrics, logger *slog.Logger) *StripeGateway {
	if logger == nil {
		logger = slog.Default()
	}
	g := &StripeGateway{
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		metrics:       metrics,
		logger:        logger,
	}
	if !cfg.MockMode && strings.TrimSpace(cfg.SecretKey) != "" {
		g.api = client.New(strings.TrimSpace(cfg.SecretKey), cfg.Backends)
	}
	return g
}

func (g *StripeGateway) Enabled() bool {
	return g != nil && g.api != nil
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email string, name string) (string, error) {
	if !g.Enabled() {
		return "", paymentsv1.ErrGatewayDisabled
	}
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	customer, err := g.api.Customers.New(params)
	g.metrics.ObservePaymentCall("create_customer", err)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return customer.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req paymentsv1.CheckoutRequest) (paymentsv1.CheckoutSession, error) {
	if !g.Enabled() {
		return paymentsv1.CheckoutSession{}, paymentsv1.ErrGatewayDisabled
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(req.Mode),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem(req)},
	}
	params.Context = ctx
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ClientReferenceID)
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}
	if req.Mode == paymentsv1.ModeSubscription && len(req.SubscriptionMetadata) > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: req.SubscriptionMetadata,
		}
	}

	session, err := g.api.CheckoutSessions.New(params)
	g.metrics.ObservePaymentCall("create_checkout_session", err)
	if err != nil {
		return paymentsv1.CheckoutSession{}, fmt.Errorf("stripe create checkout session: %w", err)
	}
	return paymentsv1.CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

func lineItem(req paymentsv1.CheckoutRequest) *stripe.CheckoutSessionLineItemParams {
	if req.PriceID != "" {
		return &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}
	}
	currency := req.Currency
	if currency == "" {
		currency = paymentsv1.CurrencyEUR
	}
	return &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(1),
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(req.AmountCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(req.ProductName),
			},
		},
	}
}

// Refund refunds a payment intent in full. A payment intent Stripe reports
// as already refunded counts as refunded.
func (g *StripeGateway) Refund(ctx context.Context, req paymentsv1.RefundRequest) (paymentsv1.Refund, error) {
	if !g.Enabled() {
		return paymentsv1.Refund{}, paymentsv1.ErrGatewayDisabled
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	refund, err := g.api.Refunds.New(params)
	if alreadyRefunded(err) {
		g.metrics.ObservePaymentCall("refund", nil)
		g.logger.Info("stripe refund already settled",
			"event", "payments_refund_already_settled",
			"module", "internal/platform/payments",
			"layer", "platform",
			"payment_intent_id", req.PaymentIntentID,
		)
		return paymentsv1.Refund{Status: string(stripe.RefundStatusSucceeded)}, nil
	}
	g.metrics.ObservePaymentCall("refund", err)
	if err != nil {
		return paymentsv1.Refund{}, fmt.Errorf("stripe refund: %w", err)
	}
	return paymentsv1.Refund{RefundID: refund.ID, Status: string(refund.Status)}, nil
}

func alreadyRefunded(err error) bool {
	var stripeErr *stripe.Error
	return errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeChargeAlreadyRefunded
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (paymentsv1.Subscription, error) {
	if !g.Enabled() {
		return paymentsv1.Subscription{}, paymentsv1.ErrGatewayDisabled
	}
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := g.api.Subscriptions.Get(subscriptionID, params)
	g.metrics.ObservePaymentCall("get_subscription", err)
	if err != nil {
		return paymentsv1.Subscription{}, fmt.Errorf("stripe get subscription: %w", err)
	}
	return toSubscription(sub), nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
// types the billing context reacts to. Other event types decode with no payload.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (paymentsv1.WebhookEvent, error) {
	if g == nil || g.webhookSecret == "" {
		return paymentsv1.WebhookEvent{}, paymentsv1.ErrWebhookNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		g.logger.Warn("stripe webhook signature rejected",
			"event", "payments_webhook_signature_rejected",
			"module", "internal/platform/payments",
			"layer", "platform",
			"error", err.Error(),
		)
		return paymentsv1.WebhookEvent{}, fmt.Errorf("%w: %v", paymentsv1.ErrInvalidSignature, err)
	}
	return decodeEvent(event)
}

func decodeEvent(event stripe.Event) (paymentsv1.WebhookEvent, error) {
	out := paymentsv1.WebhookEvent{EventID: event.ID, EventType: string(event.Type)}
	if event.Data == nil {
		return out, nil
	}
	raw := event.Data.Raw

	switch out.EventType {
	case paymentsv1.EventCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return out, errors.Join(paymentsv1.ErrUnsupportedEventShape, err)
		}
		checkout := &paymentsv1.CompletedCheckout{
			SessionID:         session.ID,
			ClientReferenceID: session.ClientReferenceID,
			Metadata:          session.Metadata,
		}
		if session.Customer != nil {
			checkout.CustomerID = session.Customer.ID
		}
		if session.PaymentIntent != nil {
			checkout.PaymentIntentID = session.PaymentIntent.ID
		}
		if session.Subscription != nil {
			checkout.SubscriptionID = session.Subscription.ID
		}
		out.Checkout = checkout
	case paymentsv1.EventInvoicePaid:
		var invoice stripe.Invoice
		if err := json.Unmarshal(raw, &invoice); err != nil {
			return out, errors.Join(paymentsv1.ErrUnsupportedEventShape, err)
		}
		paid := &paymentsv1.PaidInvoice{InvoiceID: invoice.ID}
		if invoice.Subscription != nil {
			paid.SubscriptionID = invoice.Subscription.ID
		}
		out.Invoice = paid
	case paymentsv1.EventCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return out, errors.Join(paymentsv1.ErrUnsupportedEventShape, err)
		}
		converted := toSubscription(&sub)
		out.Subscription = &converted
	}
	return out, nil
}

func toSubscription(sub *stripe.Subscription) paymentsv1.Subscription {
	out := paymentsv1.Subscription{SubscriptionID: sub.ID}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		out.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}
	return out
}
