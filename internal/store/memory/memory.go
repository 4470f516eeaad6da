// Package memory is an in-process store.Store for tests and local development.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/medvend/portal/internal/store"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Fields
	now         func() time.Time

	// FailWith, when set, is returned by every call. Tests use it to simulate transport failures.
	FailWith error
}

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]store.Fields),
		now:         time.Now,
	}
}

// WithClock replaces the clock used for store.ServerTimestamp.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Get(_ context.Context, collection, key string) (*store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	fields, ok := s.collections[collection][key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Document{ID: key, Fields: copyFields(fields)}, nil
}

func (s *Store) QueryOne(_ context.Context, collection string, filters ...store.Filter) (*store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	docs := s.collections[collection]
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	// Firestore orders unordered queries by document ID.
	sort.Strings(keys)

	for _, k := range keys {
		if matches(docs[k], filters) {
			return &store.Document{ID: k, Fields: copyFields(docs[k])}, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) Set(_ context.Context, collection, key string, fields store.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]store.Fields)
	}
	s.collections[collection][key] = s.resolve(fields)
	return nil
}

func (s *Store) Update(_ context.Context, collection, key string, fields store.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	existing, ok := s.collections[collection][key]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range s.resolve(fields) {
		existing[k] = v
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) Ping(context.Context) error { return s.FailWith }

// Len reports how many documents a collection holds.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *Store) resolve(fields store.Fields) store.Fields {
	out := make(store.Fields, len(fields))
	now := s.now().UTC()
	for k, v := range fields {
		if store.IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

func matches(fields store.Fields, filters []store.Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || !reflect.DeepEqual(v, f.Value) {
			return false
		}
	}
	return true
}

func copyFields(in store.Fields) store.Fields {
	out := make(store.Fields, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
