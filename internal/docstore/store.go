// Package docstore is a schemaless document database on top of SQLite.
//
// Documents are JSON objects grouped into collections addressed by
// slash-separated paths ("companies", "users/<uid>/contacts"). Ids are
// assigned by the store and listing returns documents in insertion order.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for operations on a document that does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrPermissionDenied is returned when a caller addresses another user's
	// collection.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidPath is returned for paths that do not name a collection.
	ErrInvalidPath = errors.New("invalid collection path")
)

// Document is a stored document and its id.
type Document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Store implements the document operations on a SQLite database.
type Store struct {
	db    *sql.DB
	newID func() string
}

// New returns a Store backed by db. The schema must already exist.
func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		newID: func() string { return uuid.NewString() },
	}
}

// List returns every document in a collection, oldest first.
func (s *Store) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY rowid`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		data, err := decodeData(raw)
		if err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	return docs, rows.Err()
}

// Get returns one document, or ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}

	data, err := decodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("document %s/%s: %w", collection, id, err)
	}
	return &Document{ID: id, Data: data}, nil
}

// Add stores fields as a new document and returns its assigned id.
func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", err
	}
	if fields == nil {
		fields = map[string]any{}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}

	id := s.newID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(raw),
	)
	if err != nil {
		return "", fmt.Errorf("adding to %s: %w", collection, err)
	}
	return id, nil
}

// Update merges fields into an existing document. Top-level keys in fields
// replace the stored values; other keys are kept. Returns ErrNotFound when the
// document does not exist.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}

	data, err := decodeData(raw)
	if err != nil {
		return fmt.Errorf("document %s/%s: %w", collection, id, err)
	}
	for k, v := range fields {
		data[k] = v
	}

	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE collection = ? AND id = ?`,
		string(merged), collection, id,
	)
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}

	return tx.Commit()
}

// Delete removes a document and its attachments. Deleting a document that
// does not exist is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attachments WHERE collection = ? AND doc_id = ?`, collection, id,
	); err != nil {
		return fmt.Errorf("deleting attachments of %s/%s: %w", collection, id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id,
	); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}

	return tx.Commit()
}

func decodeData(raw string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decoding stored data: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
