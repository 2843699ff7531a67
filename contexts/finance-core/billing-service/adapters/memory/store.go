package memory

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"creatorhub/contexts/finance-core/billing-service/domain/entities"
	domainerrors "creatorhub/contexts/finance-core/billing-service/domain/errors"
	"creatorhub/contexts/finance-core/billing-service/ports"

	billingv1 "creatorhub/contracts/gen/billing/v1"
)

// Store is an in-memory adapter for purchases, idempotency records, and
// webhook event reservations.
type Store struct {
	mu sync.RWMutex

	purchases   map[string]entities.Purchase
	idempotency map[string]ports.IdempotencyRecord
	reserved    map[string]time.Time
	sequence    uint64
	now         func() time.Time
}

var (
	_ ports.Repository       = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
	_ ports.EventDedup       = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		purchases:   make(map[string]entities.Purchase),
		idempotency: make(map[string]ports.IdempotencyRecord),
		reserved:    make(map[string]time.Time),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func purchaseKey(userID string, contentID string) string {
	return userID + "|" + contentID
}

func (s *Store) UpsertPurchase(_ context.Context, purchase entities.Purchase) (entities.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(purchase.UserID) == "" || strings.TrimSpace(purchase.ContentID) == "" {
		return entities.Purchase{}, domainerrors.ErrInvalidRequest
	}
	key := purchaseKey(purchase.UserID, purchase.ContentID)
	if existing, ok := s.purchases[key]; ok {
		existing.AmountCents = purchase.AmountCents
		existing.PlatformFeeCents = purchase.PlatformFeeCents
		existing.CreatorAmountCents = purchase.CreatorAmountCents
		if purchase.PaymentIntentID != "" {
			existing.PaymentIntentID = purchase.PaymentIntentID
		}
		existing.UpdatedAt = purchase.UpdatedAt
		s.purchases[key] = existing
		return existing, nil
	}
	if purchase.Currency == "" {
		purchase.Currency = entities.CurrencyEUR
	}
	s.purchases[key] = purchase
	return purchase, nil
}

func (s *Store) PurchasedContentIDs(_ context.Context, userID string, contentIDs []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool)
	for _, id := range contentIDs {
		if _, ok := s.purchases[purchaseKey(userID, id)]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (s *Store) ListPurchasesForContent(_ context.Context, contentIDs []string) ([]billingv1.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(contentIDs))
	for _, id := range contentIDs {
		wanted[id] = struct{}{}
	}
	out := make([]billingv1.Purchase, 0)
	for _, purchase := range s.purchases {
		if _, ok := wanted[purchase.ContentID]; ok {
			out = append(out, toContract(purchase))
		}
	}
	return out, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now.UTC()) {
		delete(s.idempotency, strings.TrimSpace(key))
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(record.Key)
	if key == "" {
		return domainerrors.ErrInvalidRequest
	}
	if existing, ok := s.idempotency[key]; ok {
		if existing.RequestHash != record.RequestHash || !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.idempotency[key] = record
	return nil
}

func (s *Store) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.reserved[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.reserved[key] = now.Add(ttl)
	return true, nil
}

func (s *Store) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, key)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("pur-%d", value), nil
}

func toContract(purchase entities.Purchase) billingv1.Purchase {
	return billingv1.Purchase{
		PurchaseID:         purchase.PurchaseID,
		UserID:             purchase.UserID,
		ContentID:          purchase.ContentID,
		AmountCents:        purchase.AmountCents,
		PlatformFeeCents:   purchase.PlatformFeeCents,
		CreatorAmountCents: purchase.CreatorAmountCents,
		Currency:           purchase.Currency,
		CreatedAt:          purchase.CreatedAt,
	}
}
