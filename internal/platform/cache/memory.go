package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the single-process counterpart of Redis.
type Memory struct {
	mu       sync.Mutex
	reserved map[string]time.Time
	windows  map[string]window
	now      func() time.Time
}

type window struct {
	count     int64
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		reserved: make(map[string]time.Time),
		windows:  make(map[string]window),
		now:      time.Now,
	}
}

func (m *Memory) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expiresAt, ok := m.reserved[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	m.reserved[key] = now.Add(ttl)
	return true, nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reserved, key)
	return nil
}

func (m *Memory) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	current, ok := m.windows[key]
	if !ok || !now.Before(current.expiresAt) {
		current = window{expiresAt: now.Add(ttl)}
	}
	current.count++
	m.windows[key] = current
	return current.count, nil
}
