package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"creatorhub/contexts/finance-core/billing-service/adapters/memory"
	"creatorhub/contexts/finance-core/billing-service/application"
	domainerrors "creatorhub/contexts/finance-core/billing-service/domain/errors"

	catalogv1 "creatorhub/contracts/gen/catalog/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeAccounts struct {
	accounts map[string]identityv1.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[string]identityv1.Account{
		"u1": {UserID: "u1", Email: "u1@example.com", Username: "u1", Role: identityv1.RoleConsumer},
	}}
}

func (f *fakeAccounts) GetAccount(_ context.Context, userID string) (identityv1.Account, bool, error) {
	account, ok := f.accounts[userID]
	return account, ok, nil
}

func (f *fakeAccounts) FindAccountBySubscriptionID(_ context.Context, subscriptionID string) (identityv1.Account, bool, error) {
	for _, account := range f.accounts {
		if account.StripeSubscriptionID == subscriptionID {
			return account, true, nil
		}
	}
	return identityv1.Account{}, false, nil
}

func (f *fakeAccounts) ActivateAccessPass(_ context.Context, userID string, expiresAt time.Time) error {
	account, ok := f.accounts[userID]
	if !ok {
		return identityv1.ErrAccountNotFound
	}
	account.AccessPassActive = true
	account.AccessPassExpiresAt = &expiresAt
	f.accounts[userID] = account
	return nil
}

func (f *fakeAccounts) SetSubscription(_ context.Context, userID string, state identityv1.SubscriptionState) error {
	account, ok := f.accounts[userID]
	if !ok {
		return identityv1.ErrAccountNotFound
	}
	account.SubscriptionActive = state.Active
	account.SubscriptionExpiresAt = state.ExpiresAt
	if state.StripeSubscriptionID != "" {
		account.StripeSubscriptionID = state.StripeSubscriptionID
	}
	f.accounts[userID] = account
	return nil
}

func (f *fakeAccounts) SetStripeCustomerID(_ context.Context, userID string, customerID string) error {
	account := f.accounts[userID]
	account.StripeCustomerID = customerID
	f.accounts[userID] = account
	return nil
}

type fakeCatalog map[string]catalogv1.ContentSummary

func (f fakeCatalog) GetContentSummary(_ context.Context, contentID string) (catalogv1.ContentSummary, bool, error) {
	summary, ok := f[contentID]
	return summary, ok, nil
}

type fakeRequests struct {
	paid map[string]string
}

func (f *fakeRequests) MarkPaid(_ context.Context, requestID string, paymentIntentID string) (bool, error) {
	if requestID != "req-1" {
		return false, nil
	}
	f.paid[requestID] = paymentIntentID
	return true, nil
}

type fakeGateway struct {
	enabled        bool
	customers      int
	sessions       []paymentsv1.CheckoutRequest
	event          paymentsv1.WebhookEvent
	parseErr       error
	subscription   paymentsv1.Subscription
	subscriptionEr error
}

func (f *fakeGateway) Enabled() bool { return f.enabled }

func (f *fakeGateway) CreateCustomer(_ context.Context, _ string, _ string) (string, error) {
	f.customers++
	return "cus_1", nil
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, req paymentsv1.CheckoutRequest) (paymentsv1.CheckoutSession, error) {
	f.sessions = append(f.sessions, req)
	return paymentsv1.CheckoutSession{SessionID: "cs_1", URL: "https://checkout.example/cs_1"}, nil
}

func (f *fakeGateway) GetSubscription(_ context.Context, _ string) (paymentsv1.Subscription, error) {
	return f.subscription, f.subscriptionEr
}

func (f *fakeGateway) ParseWebhook(_ []byte, _ string) (paymentsv1.WebhookEvent, error) {
	return f.event, f.parseErr
}

var now = time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	service  application.Service
	store    *memory.Store
	accounts *fakeAccounts
	gateway  *fakeGateway
	requests *fakeRequests
}

func newFixture(live bool) fixture {
	store := memory.NewStore()
	accounts := newFakeAccounts()
	gateway := &fakeGateway{enabled: live}
	requests := &fakeRequests{paid: map[string]string{}}
	price := catalogv1.ContentSummary{ContentID: "c1", CreatorID: "creator", Title: "Set", PriceCents: 1000}
	free := catalogv1.ContentSummary{ContentID: "c-free", CreatorID: "creator", Title: "Free"}
	return fixture{
		service: application.Service{
			Repo:                   store,
			Idempotency:            store,
			EventDedup:             store,
			Accounts:               accounts,
			Catalog:                fakeCatalog{"c1": price, "c-free": free},
			Requests:               requests,
			Gateway:                gateway,
			Clock:                  fixedClock{now: now},
			IDGen:                  store,
			FrontendURL:            "http://localhost:5173/",
			PassPriceID:            "price_pass",
			PassPriceCents:         599,
			SubscriptionPriceCents: 1199,
			PlatformFeeRate:        0.2,
			AccessPeriod:           30 * 24 * time.Hour,
		},
		store:    store,
		accounts: accounts,
		gateway:  gateway,
		requests: requests,
	}
}

func TestMockModeActivatesDirectly(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	grant, err := f.service.ActivatePass(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*24*time.Hour), grant.ExpiresAt)
	assert.True(t, f.accounts.accounts["u1"].AccessPassActive)

	result, _, err := f.service.CheckoutContent(ctx, "u1", "c1", "")
	require.NoError(t, err)
	assert.True(t, result.Mock)

	purchase, err := f.service.RecordPurchase(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), purchase.PlatformFeeCents)
	assert.Equal(t, int64(800), purchase.CreatorAmountCents)

	ids, err := f.store.PurchasedContentIDs(ctx, "u1", []string{"c1"})
	require.NoError(t, err)
	assert.True(t, ids["c1"])

	_, err = f.service.ActivatePass(ctx, "ghost")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestLiveModeRejectsDirectActivation(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	_, err := f.service.ActivatePass(ctx, "u1")
	assert.ErrorIs(t, err, domainerrors.ErrPaymentRequired)
	_, err = f.service.Subscribe(ctx, "u1")
	assert.ErrorIs(t, err, domainerrors.ErrPaymentRequired)
	_, err = f.service.RecordPurchase(ctx, "u1", "c1")
	assert.ErrorIs(t, err, domainerrors.ErrPaymentRequired)
}

func TestLiveCheckoutCreatesCustomerAndSession(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	result, replayed, err := f.service.CheckoutContent(ctx, "u1", "c1", "")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "https://checkout.example/cs_1", result.URL)
	require.Len(t, f.gateway.sessions, 1)
	session := f.gateway.sessions[0]
	assert.Equal(t, int64(1000), session.AmountCents)
	assert.Equal(t, "content", session.Metadata["type"])
	assert.Equal(t, "c1", session.Metadata["contentId"])
	assert.Equal(t, "http://localhost:5173/content/c1?success=content", session.SuccessURL)
	assert.Equal(t, "cus_1", f.accounts.accounts["u1"].StripeCustomerID)

	_, _, err = f.service.CheckoutPass(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.gateway.customers, "customer is created once")

	_, _, err = f.service.CheckoutContent(ctx, "u1", "c-free", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPrice)

	_, _, err = f.service.CheckoutSubscription(ctx, "u1", "")
	assert.ErrorIs(t, err, domainerrors.ErrPriceNotConfigured)
}

func TestCheckoutIdempotencyKeyReplays(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	first, replayed, err := f.service.CheckoutPass(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := f.service.CheckoutPass(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first, second)
	assert.Len(t, f.gateway.sessions, 1)

	_, _, err = f.service.CheckoutContent(ctx, "u1", "c1", "key-1")
	assert.ErrorIs(t, err, domainerrors.ErrIdempotencyConflict)
}

func TestCheckoutIdempotencyKeyIsScopedPerUser(t *testing.T) {
	f := newFixture(true)
	f.accounts.accounts["u2"] = identityv1.Account{UserID: "u2", Email: "u2@example.com", Username: "u2", Role: identityv1.RoleConsumer}
	ctx := context.Background()

	_, _, err := f.service.CheckoutPass(ctx, "u1", "shared-key")
	require.NoError(t, err)

	_, replayed, err := f.service.CheckoutContent(ctx, "u2", "c1", "shared-key")
	require.NoError(t, err)
	assert.False(t, replayed)
	require.Len(t, f.gateway.sessions, 2)
	assert.Equal(t, "u2", f.gateway.sessions[1].ClientReferenceID)
}

func TestWebhookAppliesPassOnce(t *testing.T) {
	f := newFixture(true)
	f.gateway.event = paymentsv1.WebhookEvent{
		EventID:   "evt_1",
		EventType: paymentsv1.EventCheckoutSessionCompleted,
		Checkout:  &paymentsv1.CompletedCheckout{ClientReferenceID: "u1", Metadata: map[string]string{"type": "pass"}},
	}
	ctx := context.Background()

	result, err := f.service.HandleWebhook(ctx, []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.True(t, f.accounts.accounts["u1"].AccessPassActive)

	again, err := f.service.HandleWebhook(ctx, []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
}

func TestWebhookFailureReleasesReservation(t *testing.T) {
	f := newFixture(true)
	f.gateway.event = paymentsv1.WebhookEvent{
		EventID:   "evt_sub",
		EventType: paymentsv1.EventCheckoutSessionCompleted,
		Checkout: &paymentsv1.CompletedCheckout{
			SubscriptionID: "sub_1",
			Metadata:       map[string]string{"type": "subscription", "userId": "u1"},
		},
	}
	f.gateway.subscriptionEr = errors.New("stripe unavailable")
	ctx := context.Background()

	_, err := f.service.HandleWebhook(ctx, []byte(`{}`), "sig")
	require.Error(t, err)

	periodEnd := now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptionEr = nil
	f.gateway.subscription = paymentsv1.Subscription{SubscriptionID: "sub_1", CurrentPeriodEnd: periodEnd}
	result, err := f.service.HandleWebhook(ctx, []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.False(t, result.Duplicate)

	account := f.accounts.accounts["u1"]
	assert.True(t, account.SubscriptionActive)
	assert.Equal(t, "sub_1", account.StripeSubscriptionID)
	require.NotNil(t, account.SubscriptionExpiresAt)
	assert.Equal(t, periodEnd, *account.SubscriptionExpiresAt)
}

func TestWebhookMarksRequestPaidAndCancelsSubscription(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	f.gateway.event = paymentsv1.WebhookEvent{
		EventID:   "evt_req",
		EventType: paymentsv1.EventCheckoutSessionCompleted,
		Checkout: &paymentsv1.CompletedCheckout{
			PaymentIntentID: "pi_9",
			Metadata:        map[string]string{"type": "request", "requestId": "req-1"},
		},
	}
	_, err := f.service.HandleWebhook(ctx, []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, "pi_9", f.requests.paid["req-1"])

	account := f.accounts.accounts["u1"]
	account.SubscriptionActive = true
	account.StripeSubscriptionID = "sub_2"
	f.accounts.accounts["u1"] = account

	f.gateway.event = paymentsv1.WebhookEvent{
		EventID:      "evt_del",
		EventType:    paymentsv1.EventCustomerSubscriptionDeleted,
		Subscription: &paymentsv1.Subscription{SubscriptionID: "sub_2"},
	}
	_, err = f.service.HandleWebhook(ctx, []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.False(t, f.accounts.accounts["u1"].SubscriptionActive)
	assert.Nil(t, f.accounts.accounts["u1"].SubscriptionExpiresAt)
}

func TestWebhookPropagatesSignatureErrors(t *testing.T) {
	f := newFixture(true)
	f.gateway.parseErr = paymentsv1.ErrInvalidSignature

	_, err := f.service.HandleWebhook(context.Background(), []byte(`{}`), "bad")
	assert.ErrorIs(t, err, paymentsv1.ErrInvalidSignature)
}
