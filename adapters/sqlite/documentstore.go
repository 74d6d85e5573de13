package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codybmenefee/custodian-integration-tool/domain/document"
	"github.com/codybmenefee/custodian-integration-tool/ports"
)

// DocumentStore implements ports.DocumentStore with SQLite.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new SQLite document store.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(ctx context.Context, id string) (document.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, content_type, size_bytes, COALESCE(schema_id, ''),
			   metadata, COALESCE(uploaded_by, ''), created_at
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row.Scan)
}

// List returns documents, newest first, with pagination.
func (s *DocumentStore) List(ctx context.Context, limit, offset int) ([]document.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, content_type, size_bytes, COALESCE(schema_id, ''),
			   metadata, COALESCE(uploaded_by, ''), created_at
		FROM documents
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Create stores a new document record.
func (s *DocumentStore) Create(ctx context.Context, d document.Document) error {
	metadata, err := json.Marshal(d.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, content_type, size_bytes, schema_id,
							   metadata, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.Filename, d.ContentType, d.SizeBytes, nullString(d.SchemaID),
		string(metadata), nullString(d.UploadedBy), d.CreatedAt)
	return err
}

// Delete removes a document record.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return document.ErrNotFound
	}
	return nil
}

func scanDocument(scan func(...any) error) (document.Document, error) {
	var d document.Document
	var metadata string

	err := scan(
		&d.ID, &d.Filename, &d.ContentType, &d.SizeBytes, &d.SchemaID,
		&metadata, &d.UploadedBy, &d.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Document{}, document.ErrNotFound
	}
	if err != nil {
		return document.Document{}, err
	}

	if err := json.Unmarshal([]byte(metadata), &d.Metadata); err != nil {
		return document.Document{}, fmt.Errorf("decode metadata for %s: %w", d.ID, err)
	}
	return d, nil
}

// Ensure interface compliance.
var _ ports.DocumentStore = (*DocumentStore)(nil)
