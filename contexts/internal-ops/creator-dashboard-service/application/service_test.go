package application_test

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/internal-ops/creator-dashboard-service/application"
	domainerrors "creatorhub/contexts/internal-ops/creator-dashboard-service/domain/errors"

	billingv1 "creatorhub/contracts/gen/billing/v1"
	catalogv1 "creatorhub/contracts/gen/catalog/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
	requestsv1 "creatorhub/contracts/gen/requests/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts map[string]identityv1.Account

func (s stubAccounts) GetAccount(_ context.Context, userID string) (identityv1.Account, bool, error) {
	account, ok := s[userID]
	return account, ok, nil
}

type stubContent map[string][]catalogv1.ContentSummary

func (s stubContent) ListCreatorContentSummaries(_ context.Context, creatorID string) ([]catalogv1.ContentSummary, error) {
	return s[creatorID], nil
}

type stubPurchases struct {
	items  []billingv1.Purchase
	called bool
}

func (s *stubPurchases) ListPurchasesForContent(_ context.Context, contentIDs []string) ([]billingv1.Purchase, error) {
	s.called = true
	wanted := make(map[string]bool, len(contentIDs))
	for _, id := range contentIDs {
		wanted[id] = true
	}
	var out []billingv1.Purchase
	for _, item := range s.items {
		if wanted[item.ContentID] {
			out = append(out, item)
		}
	}
	return out, nil
}

type stubRequests map[string][]requestsv1.RequestSummary

func (s stubRequests) ListCreatorRequests(_ context.Context, creatorID string) ([]requestsv1.RequestSummary, error) {
	return s[creatorID], nil
}

func TestCreatorDashboard(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	purchases := &stubPurchases{items: []billingv1.Purchase{
		{ContentID: "c1", AmountCents: 1000, PlatformFeeCents: 200, CreatorAmountCents: 800},
		{ContentID: "c2", AmountCents: 500, PlatformFeeCents: 100, CreatorAmountCents: 400},
		{ContentID: "other", AmountCents: 9999, PlatformFeeCents: 1, CreatorAmountCents: 9998},
	}}
	svc := application.Service{
		Accounts: stubAccounts{
			"creator": {UserID: "creator", Role: identityv1.RoleCreator},
			"fan":     {UserID: "fan", Role: "user"},
			"admin":   {UserID: "admin", Role: identityv1.RoleAdmin},
		},
		Content:   stubContent{"creator": {{ContentID: "c1"}, {ContentID: "c2"}}},
		Purchases: purchases,
		Requests:  stubRequests{"creator": {
			{RequestID: "r2", Status: requestsv1.StatusDelivered, PriceCents: 3000, CreatedAt: now},
			{RequestID: "r1", Status: requestsv1.StatusDeclined, PriceCents: 2000, CreatedAt: now.Add(-time.Hour)},
		}},
	}
	ctx := context.Background()

	dashboard, err := svc.CreatorDashboard(ctx, "creator")
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.ContentCount)
	assert.Equal(t, int64(1500), dashboard.TotalSalesCents)
	assert.Equal(t, int64(300), dashboard.TotalPlatformFees)
	assert.Equal(t, int64(1200), dashboard.TotalCreatorRevenue)
	assert.Equal(t, map[string]int{"total": 2, "delivered": 1, "declined": 1}, dashboard.RequestStats)
	require.Len(t, dashboard.LatestRequests, 2)
	assert.Equal(t, "r2", dashboard.LatestRequests[0].RequestID)

	_, err = svc.CreatorDashboard(ctx, "fan")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = svc.CreatorDashboard(ctx, "ghost")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	purchases.called = false
	empty, err := svc.CreatorDashboard(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, purchases.called)
	assert.Zero(t, empty.ContentCount)
	assert.Equal(t, 0, empty.RequestStats["total"])
}
