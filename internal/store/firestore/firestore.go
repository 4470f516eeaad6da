// Package firestore backs store.Store with Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/medvend/portal/internal/store"
)

type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, collection, key string) (*store.Document, error) {
	snap, err := s.client.Collection(collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", store.Path(collection, key), err)
	}
	if !snap.Exists() {
		return nil, store.ErrNotFound
	}

	return &store.Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *Store) QueryOne(ctx context.Context, collection string, filters ...store.Filter) (*store.Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}

	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	return &store.Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *Store) Set(ctx context.Context, collection, key string, fields store.Fields) error {
	if _, err := s.client.Collection(collection).Doc(key).Set(ctx, toFirestore(fields)); err != nil {
		return fmt.Errorf("set %s: %w", store.Path(collection, key), err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, key string, fields store.Fields) error {
	_, err := s.client.Collection(collection).Doc(key).Update(ctx, toUpdates(fields))
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", store.Path(collection, key), err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func toFirestore(fields store.Fields) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = toValue(v)
	}
	return out
}

func toUpdates(fields store.Fields) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for _, k := range fields.SortedKeys() {
		updates = append(updates, firestore.Update{Path: k, Value: toValue(fields[k])})
	}
	return updates
}

func toValue(v interface{}) interface{} {
	if store.IsServerTimestamp(v) {
		return firestore.ServerTimestamp
	}
	return v
}
