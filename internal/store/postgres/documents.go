// Package postgres backs store.Store with a single JSONB documents table.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/medvend/portal/internal/store"
)

type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Get(ctx context.Context, collection, key string) (*store.Document, error) {
	query := `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND id = $2
	`

	return s.scanOne(s.db.QueryRowContext(ctx, query, collection, key), store.Path(collection, key))
}

// QueryOne uses JSONB containment, which is equality for top-level scalar fields.
func (s *DocumentStore) QueryOne(ctx context.Context, collection string, filters ...store.Filter) (*store.Document, error) {
	match := make(map[string]interface{}, len(filters))
	for _, f := range filters {
		match[f.Field] = f.Value
	}
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query filters: %w", err)
	}

	query := `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY id
		LIMIT 1
	`

	return s.scanOne(s.db.QueryRowContext(ctx, query, collection, string(matchJSON)), collection)
}

func (s *DocumentStore) Set(ctx context.Context, collection, key string, fields store.Fields) error {
	dataExpr, args, err := buildData(fields, 3)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, %s, NOW())
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data,
		    updated_at = NOW()
	`, dataExpr)

	if _, err := s.db.ExecContext(ctx, query, append([]interface{}{collection, key}, args...)...); err != nil {
		return fmt.Errorf("failed to set %s: %w", store.Path(collection, key), err)
	}
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, key string, fields store.Fields) error {
	dataExpr, args, err := buildData(fields, 3)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE documents
		SET data = data || %s, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, dataExpr)

	result, err := s.db.ExecContext(ctx, query, append([]interface{}{collection, key}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", store.Path(collection, key), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Close() error {
	return s.db.Close()
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DocumentStore) scanOne(row *sql.Row, path string) (*store.Document, error) {
	var id string
	var data []byte
	err := row.Scan(&id, &data)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	fields, err := decodeFields(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &store.Document{ID: id, Fields: fields}, nil
}

// buildData returns a JSONB expression for fields. Server timestamp fields become
// NOW() in the database, so the stored time never comes from this process.
// Placeholders start at $argStart.
func buildData(fields store.Fields, argStart int) (string, []interface{}, error) {
	plain := make(map[string]interface{}, len(fields))
	var stamped []string
	for _, k := range fields.SortedKeys() {
		if store.IsServerTimestamp(fields[k]) {
			stamped = append(stamped, k)
			continue
		}
		plain[k] = fields[k]
	}

	plainJSON, err := json.Marshal(plain)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal fields: %w", err)
	}

	expr := fmt.Sprintf("$%d::jsonb", argStart)
	args := []interface{}{string(plainJSON)}
	if len(stamped) == 0 {
		return expr, args, nil
	}

	pairs := make([]string, 0, len(stamped))
	for i, k := range stamped {
		pairs = append(pairs, fmt.Sprintf("$%d::text, NOW()", argStart+1+i))
		args = append(args, k)
	}
	expr = fmt.Sprintf("(%s || jsonb_build_object(%s))", expr, strings.Join(pairs, ", "))
	return expr, args, nil
}

func decodeFields(data []byte) (store.Fields, error) {
	fields := store.Fields{}
	if len(data) == 0 {
		return fields, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
