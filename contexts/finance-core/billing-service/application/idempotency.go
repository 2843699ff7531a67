package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	domainerrors "creatorhub/contexts/finance-core/billing-service/domain/errors"
	"creatorhub/contexts/finance-core/billing-service/ports"
)

// runIdempotent replays the stored checkout for a repeated Idempotency-Key and
// rejects the key when it is reused for a different request. Keys are scoped
// per user. Without a key the call runs directly.
func (s Service) runIdempotent(
	ctx context.Context,
	userID string,
	key string,
	request map[string]any,
	call func() (ports.CheckoutResult, error),
) (ports.CheckoutResult, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.Idempotency == nil {
		result, err := call()
		return result, false, err
	}

	now := s.now()
	requestHash := hashPayload(request)
	scopedKey := "billing:" + userID + ":" + key
	record, found, err := s.Idempotency.GetRecord(ctx, scopedKey, now)
	if err != nil {
		return ports.CheckoutResult{}, false, err
	}
	if found {
		if record.RequestHash != requestHash {
			return ports.CheckoutResult{}, false, domainerrors.ErrIdempotencyConflict
		}
		var replayed ports.CheckoutResult
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return ports.CheckoutResult{}, false, err
		}
		return replayed, true, nil
	}

	result, err := call()
	if err != nil {
		return ports.CheckoutResult{}, false, err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return ports.CheckoutResult{}, false, err
	}
	if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             scopedKey,
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	}); err != nil {
		return ports.CheckoutResult{}, false, err
	}
	return result, false, nil
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func hashPayload(payload map[string]any) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
