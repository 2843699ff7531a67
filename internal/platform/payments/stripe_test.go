package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	paymentsv1 "creatorhub/contracts/gen/payments/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

const testWebhookSecret = "whsec_test"

func signPayload(t *testing.T, payload []byte) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	_, _ = mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestMockGatewayRejectsProcessorCalls(t *testing.T) {
	gateway := NewStripeGateway(StripeConfig{SecretKey: "sk_test_change_me", MockMode: true}, nil, nil)

	assert.False(t, gateway.Enabled())
	_, err := gateway.Refund(context.Background(), paymentsv1.RefundRequest{PaymentIntentID: "pi_1"})
	require.ErrorIs(t, err, paymentsv1.ErrGatewayDisabled)
	_, err = gateway.CreateCheckoutSession(context.Background(), paymentsv1.CheckoutRequest{})
	require.ErrorIs(t, err, paymentsv1.ErrGatewayDisabled)
}

func TestParseWebhookRequiresSecret(t *testing.T) {
	gateway := NewStripeGateway(StripeConfig{MockMode: true}, nil, nil)
	_, err := gateway.ParseWebhook([]byte(`{}`), "t=1,v1=00")
	require.ErrorIs(t, err, paymentsv1.ErrWebhookNotConfigured)
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	gateway := NewStripeGateway(StripeConfig{WebhookSecret: testWebhookSecret, MockMode: true}, nil, nil)
	_, err := gateway.ParseWebhook([]byte(`{"id":"evt_1","object":"event","type":"invoice.paid","data":{"object":{}}}`), "t=1,v1=deadbeef")
	require.ErrorIs(t, err, paymentsv1.ErrInvalidSignature)
}

func TestParseWebhookDecodesCheckoutSession(t *testing.T) {
	gateway := NewStripeGateway(StripeConfig{WebhookSecret: testWebhookSecret, MockMode: true}, nil, nil)
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"client_reference_id": "user-1",
			"customer": "cus_1",
			"payment_intent": "pi_1",
			"metadata": {"type": "request", "requestId": "req-1"}
		}}
	}`)

	event, err := gateway.ParseWebhook(payload, signPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.EventID)
	assert.Equal(t, paymentsv1.EventCheckoutSessionCompleted, event.EventType)
	require.NotNil(t, event.Checkout)
	assert.Equal(t, "cs_1", event.Checkout.SessionID)
	assert.Equal(t, "user-1", event.Checkout.ClientReferenceID)
	assert.Equal(t, "cus_1", event.Checkout.CustomerID)
	assert.Equal(t, "pi_1", event.Checkout.PaymentIntentID)
	assert.Equal(t, "req-1", event.Checkout.Metadata["requestId"])
}

func TestParseWebhookDecodesSubscriptionDeleted(t *testing.T) {
	gateway := NewStripeGateway(StripeConfig{WebhookSecret: testWebhookSecret, MockMode: true}, nil, nil)
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_1", "object": "subscription", "current_period_end": 1767225600}}
	}`)

	event, err := gateway.ParseWebhook(payload, signPayload(t, payload))
	require.NoError(t, err)
	require.NotNil(t, event.Subscription)
	assert.Equal(t, "sub_1", event.Subscription.SubscriptionID)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), event.Subscription.CurrentPeriodEnd)
}

type refundCall struct {
	path           string
	idempotencyKey string
	paymentIntent  string
}

// newStripeStub serves /v1/refunds with the given status and body and
// records every call.
func newStripeStub(t *testing.T, status int, body string) (*StripeGateway, func() []refundCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []refundCall
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		mu.Lock()
		calls = append(calls, refundCall{
			path:           r.URL.Path,
			idempotencyKey: r.Header.Get("Idempotency-Key"),
			paymentIntent:  r.PostForm.Get("payment_intent"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(server.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	gateway := NewStripeGateway(StripeConfig{
		SecretKey: "sk_test_stub",
		Backends:  &stripe.Backends{API: backend, Connect: backend, Uploads: backend},
	}, nil, nil)
	require.True(t, gateway.Enabled())
	return gateway, func() []refundCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]refundCall(nil), calls...)
	}
}

func TestRefundSendsIdempotencyKey(t *testing.T) {
	gateway, calls := newStripeStub(t, http.StatusOK, `{"id":"re_1","object":"refund","status":"succeeded"}`)

	refund, err := gateway.Refund(context.Background(), paymentsv1.RefundRequest{
		PaymentIntentID: "pi_1",
		IdempotencyKey:  "request-refund-req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "re_1", refund.RefundID)
	assert.Equal(t, "succeeded", refund.Status)

	recorded := calls()
	require.Len(t, recorded, 1)
	assert.Equal(t, "/v1/refunds", recorded[0].path)
	assert.Equal(t, "request-refund-req-1", recorded[0].idempotencyKey)
	assert.Equal(t, "pi_1", recorded[0].paymentIntent)
}

func TestRefundTreatsAlreadyRefundedAsSettled(t *testing.T) {
	gateway, calls := newStripeStub(t, http.StatusBadRequest, `{"error":{
		"type": "invalid_request_error",
		"code": "charge_already_refunded",
		"message": "Charge ch_1 has already been refunded."
	}}`)

	refund, err := gateway.Refund(context.Background(), paymentsv1.RefundRequest{
		PaymentIntentID: "pi_1",
		IdempotencyKey:  "request-refund-req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", refund.Status)
	assert.Len(t, calls(), 1)
}

func TestRefundReportsOtherProcessorErrors(t *testing.T) {
	gateway, _ := newStripeStub(t, http.StatusBadRequest, `{"error":{
		"type": "invalid_request_error",
		"code": "resource_missing",
		"message": "No such payment_intent: 'pi_1'"
	}}`)

	_, err := gateway.Refund(context.Background(), paymentsv1.RefundRequest{PaymentIntentID: "pi_1"})
	require.Error(t, err)
	var stripeErr *stripe.Error
	require.ErrorAs(t, err, &stripeErr)
	assert.Equal(t, stripe.ErrorCodeResourceMissing, stripeErr.Code)
}

func TestRefundHonoursCanceledContext(t *testing.T) {
	gateway, calls := newStripeStub(t, http.StatusOK, `{"id":"re_1","object":"refund","status":"succeeded"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.Refund(ctx, paymentsv1.RefundRequest{PaymentIntentID: "pi_1"})
	require.Error(t, err)
	assert.Empty(t, calls())
}
