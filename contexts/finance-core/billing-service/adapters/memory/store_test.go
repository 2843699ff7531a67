package memory

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/finance-core/billing-service/domain/entities"
	domainerrors "creatorhub/contexts/finance-core/billing-service/domain/errors"
	"creatorhub/contexts/finance-core/billing-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertPurchaseKeepsOneRowPerUserAndContent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first, err := store.UpsertPurchase(ctx, entities.Purchase{PurchaseID: "p1", UserID: "u1", ContentID: "c1", AmountCents: 300, PaymentIntentID: "pi_1"})
	require.NoError(t, err)
	assert.Equal(t, entities.CurrencyEUR, first.Currency)

	second, err := store.UpsertPurchase(ctx, entities.Purchase{PurchaseID: "p2", UserID: "u1", ContentID: "c1", AmountCents: 500})
	require.NoError(t, err)
	assert.Equal(t, "p1", second.PurchaseID)
	assert.Equal(t, int64(500), second.AmountCents)
	assert.Equal(t, "pi_1", second.PaymentIntentID)

	ids, err := store.PurchasedContentIDs(ctx, "u1", []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"c1": true}, ids)

	listed, err := store.ListPurchasesForContent(ctx, []string{"c1"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestReserveHonoursTTL(t *testing.T) {
	store := NewStore()
	current := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	current = current.Add(2 * time.Hour)
	ok, err = store.Reserve(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Release(ctx, "evt_1"))
	ok, err = store.Reserve(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyRecordConflict(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.PutRecord(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", ResponsePayload: []byte(`{}`), ExpiresAt: now.Add(time.Hour)}))
	err := store.PutRecord(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2", ResponsePayload: []byte(`{}`), ExpiresAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, domainerrors.ErrIdempotencyConflict)

	_, found, err := store.GetRecord(ctx, "k", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, found)
}
