package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
	"creatorhub/contexts/community-experience/custom-request-service/ports"

	requestsv1 "creatorhub/contracts/gen/requests/v1"
)

// Store is an in-memory adapter for custom requests used by local runtime and tests.
type Store struct {
	mu       sync.RWMutex
	items    map[string]entities.Request
	order    map[string]uint64
	inserted uint64
	sequence uint64
}

var (
	_ ports.Repository     = (*Store)(nil)
	_ ports.CreatorReports = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		items: make(map[string]entities.Request),
		order: make(map[string]uint64),
	}
}

func (s *Store) CreateRequest(_ context.Context, request entities.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[request.RequestID]; exists {
		return domainerrors.ErrInvalidRequest
	}
	s.put(request)
	return nil
}

func (s *Store) GetRequest(_ context.Context, requestID string) (entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.items[requestID]
	if !ok {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	return cloneRequest(request), nil
}

func (s *Store) SaveRequest(_ context.Context, request entities.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[request.RequestID]; !exists {
		return domainerrors.ErrRequestNotFound
	}
	s.items[request.RequestID] = cloneRequest(request)
	return nil
}

func (s *Store) ListPaidForConsumer(_ context.Context, consumerID string, limit int) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestFirst(func(item entities.Request) bool {
		return item.Paid && item.ConsumerID == consumerID
	}, limit), nil
}

func (s *Store) ListPaidForCreator(_ context.Context, creatorID string, limit int) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestFirst(func(item entities.Request) bool {
		return item.Paid && item.CreatorID == creatorID
	}, limit), nil
}

func (s *Store) ListOverduePending(_ context.Context, now time.Time, limit int) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestFirst(func(item entities.Request) bool {
		return item.IsOverdue(now)
	}, limit), nil
}

func (s *Store) ListRefundCandidates(_ context.Context, maxAttempts int, limit int) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestFirst(func(item entities.Request) bool {
		return isRefundCandidate(item, maxAttempts)
	}, limit), nil
}

func (s *Store) CountDelivered(_ context.Context, creatorID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		if item.CreatorID == creatorID && item.Status == entities.StatusDelivered {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListCreatorRequests(_ context.Context, creatorID string) ([]requestsv1.RequestSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.newestFirst(func(item entities.Request) bool { return item.CreatorID == creatorID }, 0)
	out := make([]requestsv1.RequestSummary, 0, len(items))
	for _, item := range items {
		out = append(out, application.SummaryFromRequest(item))
	}
	return out, nil
}

// PutRequest seeds a request directly. Intended for tests and local fixtures.
func (s *Store) PutRequest(request entities.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(request)
}

func (s *Store) put(request entities.Request) {
	s.inserted++
	s.items[request.RequestID] = cloneRequest(request)
	s.order[request.RequestID] = s.inserted
}

func (s *Store) newestFirst(match func(entities.Request) bool, limit int) []entities.Request {
	out := make([]entities.Request, 0)
	for _, item := range s.items {
		if match(item) {
			out = append(out, cloneRequest(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return s.order[out[i].RequestID] > s.order[out[j].RequestID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func isRefundCandidate(item entities.Request, maxAttempts int) bool {
	if !item.Paid || item.RefundAttempts >= maxAttempts {
		return false
	}
	if item.Status != entities.StatusDeclined && item.Status != entities.StatusExpired {
		return false
	}
	return item.RefundStatus == entities.RefundPending || item.RefundStatus == entities.RefundFailed
}

func cloneRequest(request entities.Request) entities.Request {
	if request.DeliveredAt != nil {
		value := *request.DeliveredAt
		request.DeliveredAt = &value
	}
	if request.RefundedAt != nil {
		value := *request.RefundedAt
		request.RefundedAt = &value
	}
	return request
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("req-%d", value), nil
}
