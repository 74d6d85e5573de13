// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/codybmenefee/custodian-integration-tool/domain/document"
	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
)

// ErrNotFound is returned by stores when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores on a unique constraint violation.
var ErrDuplicate = errors.New("already exists")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher provides password hashing.
type Hasher interface {
	// Hash generates a hash from a plaintext value.
	Hash(plaintext string) ([]byte, error)

	// Compare checks if plaintext matches hash.
	Compare(hash []byte, plaintext string) bool
}

// TokenIssuer issues signed bearer tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID, email string) (token string, expiresAt time.Time, err error)
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// SchemaStore persists schema version documents.
type SchemaStore interface {
	// Get retrieves a schema by ID.
	Get(ctx context.Context, id string) (schema.Schema, error)

	// GetLatest retrieves the schema marked latest for a name.
	GetLatest(ctx context.Context, name string) (schema.Schema, error)

	// List returns schemas, newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]schema.Schema, error)

	// ListByName returns all versions of a name, highest version first.
	ListByName(ctx context.Context, name string) ([]schema.Schema, error)

	// Create stores a new schema version.
	Create(ctx context.Context, s schema.Schema) error

	// CreateVersion demotes the current latest version of s.Name and
	// inserts s marked latest, in a single transaction.
	CreateVersion(ctx context.Context, s schema.Schema) error

	// Update modifies fields and notes on an existing schema row.
	Update(ctx context.Context, s schema.Schema) error

	// Delete removes a schema version.
	Delete(ctx context.Context, id string) error

	// Count returns the total number of schema rows.
	Count(ctx context.Context) (int, error)
}

// User represents a user account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserStore persists user accounts.
type UserStore interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (User, error)

	// Create stores a new user.
	Create(ctx context.Context, u User) error

	// List returns users with pagination.
	List(ctx context.Context, limit, offset int) ([]User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)

	// Delete removes a user.
	Delete(ctx context.Context, id string) error
}

// DocumentStore persists ingested document records.
type DocumentStore interface {
	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (document.Document, error)

	// List returns documents, newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]document.Document, error)

	// Create stores a new document record.
	Create(ctx context.Context, d document.Document) error

	// Delete removes a document record.
	Delete(ctx context.Context, id string) error
}
