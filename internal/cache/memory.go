package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

var _ Cache = (*Memory)(nil)

type item struct {
	value   string
	expires time.Time
}

// Memory is a process-local Cache used when no Redis address is configured
type Memory struct {
	mu   sync.Mutex
	data map[string]item
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]item), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	if !it.expires.IsZero() && !m.now().Before(it.expires) {
		delete(m.data, key)
		return "", false, nil
	}
	return it.value, true, nil
}

// Set stores value; a zero ttl never expires
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := item{value: value}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.data[key] = it
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}
