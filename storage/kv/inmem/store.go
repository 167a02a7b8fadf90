package inmemkv

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/mahudhurio/core/session"
)

var nowFunc = time.Now // mockable

type (
	item struct {
		value     []byte
		expiresAt time.Time // zero: never
	}

	Store struct {
		sync.RWMutex
		table map[string]item
	}
)

var _ session.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{table: make(map[string]item)}
}

func (it item) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && !now.Before(it.expiresAt)
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.RLock()
	it, ok := s.table[key]
	s.RUnlock()

	if !ok || it.expired(nowFunc()) {
		return nil, session.ErrNotFound
	}
	value := make([]byte, len(it.value))
	copy(value, it.value)
	return value, nil
}

// Set stores a copy of `value`. A ttl <= 0 never expires.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := item{value: make([]byte, len(value))}
	copy(it.value, value)
	if ttl > 0 {
		it.expiresAt = nowFunc().Add(ttl)
	}

	s.Lock()
	defer s.Unlock()
	s.table[key] = it
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.table, key)
	return nil
}

// Purge removes expired keys and returns how many were removed.
func (s *Store) Purge() int {
	now := nowFunc()

	s.Lock()
	defer s.Unlock()
	var n int
	for k, it := range s.table {
		if it.expired(now) {
			delete(s.table, k)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.table)
}
