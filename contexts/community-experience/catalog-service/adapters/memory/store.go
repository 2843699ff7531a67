package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/application"
	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/catalog-service/domain/errors"
	"creatorhub/contexts/community-experience/catalog-service/ports"

	catalogv1 "creatorhub/contracts/gen/catalog/v1"
)

// Store is an in-memory adapter for content items used by local runtime and tests.
type Store struct {
	mu       sync.RWMutex
	items    map[string]entities.Content
	order    map[string]uint64
	inserted uint64
	sequence uint64
}

var (
	_ ports.Repository       = (*Store)(nil)
	_ ports.ContentSummaries = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		items: make(map[string]entities.Content),
		order: make(map[string]uint64),
	}
}

func (s *Store) CreateContent(_ context.Context, item entities.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ContentID]; exists {
		return domainerrors.ErrInvalidRequest
	}
	s.put(item)
	return nil
}

func (s *Store) GetContent(_ context.Context, contentID string) (entities.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[contentID]
	if !ok {
		return entities.Content{}, domainerrors.ErrContentNotFound
	}
	return cloneContent(item), nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]entities.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestFirst(func(entities.Content) bool { return true }, limit), nil
}

func (s *Store) ListByCreator(_ context.Context, creatorID string, limit int) ([]entities.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestFirst(func(item entities.Content) bool { return item.CreatorID == creatorID }, limit), nil
}

func (s *Store) GetContentSummary(_ context.Context, contentID string) (catalogv1.ContentSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[contentID]
	if !ok {
		return catalogv1.ContentSummary{}, false, nil
	}
	return application.SummaryFromContent(item), true, nil
}

func (s *Store) ListCreatorContentSummaries(_ context.Context, creatorID string) ([]catalogv1.ContentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.newestFirst(func(item entities.Content) bool { return item.CreatorID == creatorID }, 0)
	out := make([]catalogv1.ContentSummary, 0, len(items))
	for _, item := range items {
		out = append(out, application.SummaryFromContent(item))
	}
	return out, nil
}

// PutContent seeds an item directly. Intended for tests and local fixtures.
func (s *Store) PutContent(item entities.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(item)
}

func (s *Store) put(item entities.Content) {
	s.inserted++
	s.items[item.ContentID] = cloneContent(item)
	s.order[item.ContentID] = s.inserted
}

func (s *Store) newestFirst(match func(entities.Content) bool, limit int) []entities.Content {
	out := make([]entities.Content, 0)
	for _, item := range s.items {
		if match(item) {
			out = append(out, cloneContent(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return s.order[out[i].ContentID] > s.order[out[j].ContentID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func cloneContent(item entities.Content) entities.Content {
	item.Files = append([]entities.File(nil), item.Files...)
	return item
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("cnt-%d", value), nil
}
