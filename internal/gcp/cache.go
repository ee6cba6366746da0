package gcp

import (
	"context"
	"sync"
	"time"

	"github.com/eleven-am/cerberus/internal/domain"
)

type cacheEntry struct {
	data     *domain.FirewallData
	expires  time.Time
	inserted time.Time
}

// CachedSource memoizes successful lookups from a slower source for a TTL.
// Not-found and transport errors are never cached. When the cache is full
// the oldest entry is evicted.
type CachedSource struct {
	source   domain.Source
	mu       sync.RWMutex
	ttl      time.Duration
	capacity int
	entries  map[string]cacheEntry
}

func NewCachedSource(source domain.Source, ttl time.Duration, capacity int) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if capacity <= 0 {
		capacity = 1000
	}
	return &CachedSource{
		source:   source,
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]cacheEntry),
	}
}

func (s *CachedSource) Firewall(ctx context.Context, project, name string) (*domain.FirewallData, error) {
	key := sourceKey(project, name)
	if data, ok := s.get(key); ok {
		return data, nil
	}
	data, err := s.source.Firewall(ctx, project, name)
	if err != nil {
		return nil, err
	}
	s.set(key, data)
	return data, nil
}

func (s *CachedSource) get(key string) (*domain.FirewallData, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		s.evict(key)
		return nil, false
	}
	return entry.data, true
}

// evict drops key only while its entry is still expired, so a concurrent
// refresh between the read and write locks survives.
func (s *CachedSource) evict(key string) {
	s.mu.Lock()
	if entry, ok := s.entries[key]; ok && time.Now().After(entry.expires) {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

func (s *CachedSource) set(key string, data *domain.FirewallData) {
	s.mu.Lock()
	if len(s.entries) >= s.capacity {
		var oldestKey string
		var oldestTime time.Time
		first := true
		for k, v := range s.entries {
			if first || v.inserted.Before(oldestTime) {
				oldestKey = k
				oldestTime = v.inserted
				first = false
			}
		}
		delete(s.entries, oldestKey)
	}
	now := time.Now()
	s.entries[key] = cacheEntry{
		data:     data,
		expires:  now.Add(s.ttl),
		inserted: now,
	}
	s.mu.Unlock()
}
