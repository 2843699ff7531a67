package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"creatorhub/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "creatorhub/contexts/moderation-safety/moderation-service/domain/errors"
	"creatorhub/contexts/moderation-safety/moderation-service/ports"
)

type Store struct {
	mu sync.RWMutex

	reports  map[string]entities.Report
	order    map[string]uint64
	inserted uint64
	sequence uint64
}

var _ ports.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		reports: make(map[string]entities.Report),
		order:   make(map[string]uint64),
	}
}

func (s *Store) CreateReport(_ context.Context, report entities.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ReportID]; exists {
		return domainerrors.ErrInvalidRequest
	}
	s.inserted++
	s.reports[report.ReportID] = report
	s.order[report.ReportID] = s.inserted
	return nil
}

func (s *Store) GetReport(_ context.Context, reportID string) (entities.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[reportID]
	if !ok {
		return entities.Report{}, domainerrors.ErrReportNotFound
	}
	return report, nil
}

func (s *Store) UpdateReportStatus(_ context.Context, reportID string, status entities.Status, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[reportID]
	if !ok {
		return domainerrors.ErrReportNotFound
	}
	report.Status = status
	report.UpdatedAt = now
	s.reports[reportID] = report
	return nil
}

func (s *Store) ListReports(_ context.Context, filter ports.ReportFilter) ([]entities.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Report, 0)
	for _, report := range s.reports {
		if filter.ReporterID != "" && report.ReporterID != filter.ReporterID {
			continue
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return s.order[out[i].ReportID] > s.order[out[j].ReportID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) CountUserReportsSince(_ context.Context, userID string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, report := range s.reports {
		if report.TargetType == entities.TargetUser && report.TargetID == userID && !report.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountOpenUserReports(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, report := range s.reports {
		if report.TargetType != entities.TargetUser || report.TargetID != userID {
			continue
		}
		if report.Status == entities.StatusOpen || report.Status == entities.StatusReviewing {
			count++
		}
	}
	return count, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("rep-%d", value), nil
}
