// Package flash keeps one-shot page state across a redirect: inline messages
// and, after a failed submit, the form values to show again.
package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "medvend:flash:" // medvend:flash:{id}

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Page elements a message can be shown in.
const (
	TargetLogin           = "errorMsg"
	TargetPrescripError   = "prescripError"
	TargetPrescripSuccess = "prescripSuccess"
)

// Error builds an entry carrying one error message.
func Error(target, text string) Entry {
	return Entry{Messages: []Message{{Target: target, Kind: KindError, Text: text}}}
}

func Success(target, text string) Entry {
	return Entry{Messages: []Message{{Target: target, Kind: KindSuccess, Text: text}}}
}

// Message is shown in the page element named by Target.
type Message struct {
	Target string `json:"target"`
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
}

type Entry struct {
	Messages []Message         `json:"messages,omitempty"`
	Form     map[string]string `json:"form,omitempty"`
}

// Message returns the message for target, if any.
func (e *Entry) Message(target string) (Message, bool) {
	if e == nil {
		return Message{}, false
	}
	for _, m := range e.Messages {
		if m.Target == target {
			return m, true
		}
	}
	return Message{}, false
}

func (e *Entry) FormValue(name string) string {
	if e == nil {
		return ""
	}
	return e.Form[name]
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{client: client, ttl: ttl}
}

// Put saves entry and returns its id.
func (s *Store) Put(ctx context.Context, entry Entry) (string, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal flash entry: %w", err)
	}

	id := uuid.New().String()
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to save flash entry: %w", err)
	}
	return id, nil
}

// Pop returns the entry and deletes it. A missing or expired entry returns nil.
func (s *Store) Pop(ctx context.Context, id string) (*Entry, error) {
	data, err := s.client.GetDel(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read flash entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flash entry: %w", err)
	}
	return &entry, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("%s%s", keyPrefix, id)
}
