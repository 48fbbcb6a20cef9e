package docstore

import (
	"context"
	"database/sql"
	"fmt"
)

// SetAttachment stores a named binary blob on an existing document, replacing
// any previous blob with the same name.
func (s *Store) SetAttachment(ctx context.Context, collection, id, name string, data []byte, mime string) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking %s/%s: %w", collection, id, err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO attachments (collection, doc_id, name, data, mime) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (collection, doc_id, name)
		 DO UPDATE SET data = excluded.data, mime = excluded.mime, updated_at = CURRENT_TIMESTAMP`,
		collection, id, name, data, mime,
	)
	if err != nil {
		return fmt.Errorf("setting attachment %s on %s/%s: %w", name, collection, id, err)
	}

	return tx.Commit()
}

// Attachment returns a named blob and its MIME type, or ErrNotFound.
func (s *Store) Attachment(ctx context.Context, collection, id, name string) ([]byte, string, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, "", err
	}

	var data []byte
	var mime string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, mime FROM attachments WHERE collection = ? AND doc_id = ? AND name = ?`,
		collection, id, name,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting attachment %s on %s/%s: %w", name, collection, id, err)
	}
	return data, mime, nil
}
