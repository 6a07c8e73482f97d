package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/league-scorebook/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a process-local TTL cache. Loads for one key are collapsed through
// a SingleFlight, and every invalidation bumps a generation counter so a load
// that started before a write cannot repopulate the key with stale data.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64
	ttl        time.Duration
	now        func() time.Time
	flight     resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(e) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && s.expired(cur) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = s.newEntry(value)
	s.mu.Unlock()
}

// Invalidate drops the given keys and detaches any in-flight loads for them.
func (s *Store) Invalidate(_ context.Context, keys ...string) {
	s.mu.Lock()
	s.generation++
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.flight.Forget(key)
	}
}

// InvalidatePrefix drops every key starting with prefix.
func (s *Store) InvalidatePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	var dropped []string
	s.mu.Lock()
	s.generation++
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			dropped = append(dropped, key)
		}
	}
	s.mu.Unlock()

	for _, key := range dropped {
		s.flight.Forget(key)
	}
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(ctx, key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		s.mu.RLock()
		gen := s.generation
		s.mu.RUnlock()

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}

		s.mu.Lock()
		if s.generation == gen {
			s.entries[key] = s.newEntry(loaded)
		}
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) newEntry(value any) entry {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && !e.expiresAt.After(s.now())
}
