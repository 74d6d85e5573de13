package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
	"github.com/codybmenefee/custodian-integration-tool/ports"
)

// SchemaStore implements ports.SchemaStore with SQLite.
type SchemaStore struct {
	db *DB
}

// NewSchemaStore creates a new SQLite schema store.
func NewSchemaStore(db *DB) *SchemaStore {
	return &SchemaStore{db: db}
}

const schemaColumns = `id, name, version, fields, is_latest_version,
	COALESCE(parent_version, ''), COALESCE(notes, ''), COALESCE(created_by, ''),
	created_at, updated_at`

// Get retrieves a schema by ID.
func (s *SchemaStore) Get(ctx context.Context, id string) (schema.Schema, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+schemaColumns+`
		FROM schemas WHERE id = ?
	`, id)
	return scanSchema(row.Scan)
}

// GetLatest retrieves the schema marked latest for a name.
func (s *SchemaStore) GetLatest(ctx context.Context, name string) (schema.Schema, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+schemaColumns+`
		FROM schemas WHERE name = ? AND is_latest_version = 1
	`, name)
	return scanSchema(row.Scan)
}

// List returns schemas, newest first, with pagination.
func (s *SchemaStore) List(ctx context.Context, limit, offset int) ([]schema.Schema, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+schemaColumns+`
		FROM schemas
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchemas(rows)
}

// ListByName returns all versions of a name, highest version first.
func (s *SchemaStore) ListByName(ctx context.Context, name string) ([]schema.Schema, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+schemaColumns+`
		FROM schemas
		WHERE name = ?
		ORDER BY version_weight DESC
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchemas(rows)
}

// Create stores a new schema version.
func (s *SchemaStore) Create(ctx context.Context, sc schema.Schema) error {
	fields, weight, err := encodeSchema(sc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schemas (id, name, version, version_weight, fields, is_latest_version,
							 parent_version, notes, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sc.ID, sc.Name, sc.Version, weight, fields, sc.IsLatestVersion,
		nullString(sc.ParentVersion), nullString(sc.Notes), nullString(sc.CreatedBy),
		sc.CreatedAt, sc.UpdatedAt)

	if isUniqueConstraintError(err) {
		return schema.ErrVersionExists
	}
	return err
}

// CreateVersion demotes the current latest version of sc.Name and inserts
// sc marked latest. Both writes execute in one transaction so concurrent
// version creation cannot leave zero or two latest rows.
func (s *SchemaStore) CreateVersion(ctx context.Context, sc schema.Schema) error {
	fields, weight, err := encodeSchema(sc)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE schemas SET is_latest_version = 0, updated_at = ?
		WHERE name = ? AND is_latest_version = 1
	`, sc.UpdatedAt, sc.Name); err != nil {
		return fmt.Errorf("demote latest: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schemas (id, name, version, version_weight, fields, is_latest_version,
							 parent_version, notes, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?)
	`, sc.ID, sc.Name, sc.Version, weight, fields,
		nullString(sc.ParentVersion), nullString(sc.Notes), nullString(sc.CreatedBy),
		sc.CreatedAt, sc.UpdatedAt); err != nil {
		if isUniqueConstraintError(err) {
			return schema.ErrVersionExists
		}
		return fmt.Errorf("insert version: %w", err)
	}

	return tx.Commit()
}

// Update modifies fields and notes on an existing schema row.
func (s *SchemaStore) Update(ctx context.Context, sc schema.Schema) error {
	fields, err := json.Marshal(sc.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schemas SET fields = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, string(fields), nullString(sc.Notes), sc.UpdatedAt, sc.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schema.ErrNotFound
	}
	return nil
}

// Delete removes a schema version.
func (s *SchemaStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schemas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schema.ErrNotFound
	}
	return nil
}

// Count returns the total number of schema rows.
func (s *SchemaStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schemas`).Scan(&count)
	return count, err
}

func encodeSchema(sc schema.Schema) (fields string, weight int64, err error) {
	raw, err := json.Marshal(sc.Fields)
	if err != nil {
		return "", 0, fmt.Errorf("encode fields: %w", err)
	}
	weight, err = schema.Weight(sc.Version)
	if err != nil {
		return "", 0, err
	}
	return string(raw), weight, nil
}

func scanSchema(scan func(...any) error) (schema.Schema, error) {
	var sc schema.Schema
	var fields string

	err := scan(
		&sc.ID, &sc.Name, &sc.Version, &fields, &sc.IsLatestVersion,
		&sc.ParentVersion, &sc.Notes, &sc.CreatedBy, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Schema{}, schema.ErrNotFound
	}
	if err != nil {
		return schema.Schema{}, err
	}

	if err := json.Unmarshal([]byte(fields), &sc.Fields); err != nil {
		return schema.Schema{}, fmt.Errorf("decode fields for %s: %w", sc.ID, err)
	}
	return sc, nil
}

func collectSchemas(rows *sql.Rows) ([]schema.Schema, error) {
	var out []schema.Schema
	for rows.Next() {
		sc, err := scanSchema(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// Ensure interface compliance.
var _ ports.SchemaStore = (*SchemaStore)(nil)
