// Package store defines the document database the portal reads and writes.
// Backends live in the firestore, postgres and memory subpackages.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Fields is a document's field map.
type Fields map[string]interface{}

// Document is a stored record and its key.
type Document struct {
	ID     string
	Fields Fields
}

// Filter is an equality predicate on a top-level field.
type Filter struct {
	Field string
	Value interface{}
}

func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Value: value}
}

type serverTimestamp struct{}

// ServerTimestamp, used as a field value, is replaced by the store's clock at write time.
var ServerTimestamp interface{} = serverTimestamp{}

func IsServerTimestamp(v interface{}) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Store is the document database consumed by the portal.
type Store interface {
	// Get returns ErrNotFound when no document exists at collection/key.
	Get(ctx context.Context, collection, key string) (*Document, error)
	// QueryOne returns the first document matching every filter, or ErrNotFound.
	QueryOne(ctx context.Context, collection string, filters ...Filter) (*Document, error)
	// Set creates or overwrites the document at collection/key.
	Set(ctx context.Context, collection, key string, fields Fields) error
	// Update replaces only the listed fields. It returns ErrNotFound when the document is absent.
	Update(ctx context.Context, collection, key string, fields Fields) error
	Close() error
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SortedKeys returns the field names in a stable order.
func (f Fields) SortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Int reads integer fields the way each backend decodes them.
func (f Fields) Int(key string) (int64, bool) {
	switch v := f[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// Time reads timestamps stored natively or as RFC 3339 text.
func (f Fields) Time(key string) (time.Time, bool) {
	switch v := f[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// Path formats collection/key for error messages.
func Path(collection, key string) string {
	return fmt.Sprintf("%s/%s", collection, key)
}
