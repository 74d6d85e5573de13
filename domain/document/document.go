// Package document provides ingested document value types and metadata
// extraction for custodian file feeds.
package document

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("document not found")

// ErrUnsupportedType is returned for content types with no extractor.
var ErrUnsupportedType = errors.New("unsupported document content type")

// Document is an ingested file plus its extracted metadata.
// The raw payload is not retained; only metadata survives ingestion.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	SchemaID    string    `json:"schemaId,omitempty"`
	Metadata    Metadata  `json:"metadata"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Metadata holds the format-dependent attributes extracted at ingest time.
// Only the fields relevant to the detected format are populated.
type Metadata struct {
	Format string `json:"format"`

	// CSV
	Headers   []string `json:"headers,omitempty"`
	RowCount  int      `json:"rowCount,omitempty"`
	Delimiter string   `json:"delimiter,omitempty"`

	// JSON
	TopLevelKind string   `json:"topLevelKind,omitempty"` // "object", "array", "scalar"
	Keys         []string `json:"keys,omitempty"`
	ArrayLength  int      `json:"arrayLength,omitempty"`

	// XML
	RootElement string         `json:"rootElement,omitempty"`
	Elements    map[string]int `json:"elements,omitempty"`

	// Text
	LineCount int `json:"lineCount,omitempty"`
	WordCount int `json:"wordCount,omitempty"`
}
