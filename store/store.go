// Package store persists documents and their embeddings in a
// pgvector-backed PostgreSQL schema and answers nearest-neighbor
// queries over them. A memory-backed implementation of the same
// interface serves tests and database-free development.
package store

import (
	"context"

	"github.com/arenvale/vecpg/core"
)

// Embedding is one unit of searchable content: the original text and
// its vector representation.
type Embedding struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Result is a single similarity match. Distance is the raw operator
// value, so smaller always means closer.
type Result[K comparable] struct {
	Document K         `json:"document"`
	Text     string    `json:"text"`
	Vector   []float32 `json:"vector"`
	Distance float64   `json:"distance"`
}

// Documents streams a document listing one row at a time. Cursors are
// forward-only and not restartable; abandoning one without draining it
// requires Close to release the underlying rows.
type Documents interface {
	// Next advances the cursor, reporting false when the listing is
	// exhausted or iteration failed.
	Next() bool

	// Document returns the row Next positioned on.
	Document() core.Fields

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases the cursor. Safe to call more than once.
	Close()
}

// Results streams similarity matches in ascending distance order.
type Results[K comparable] interface {
	// Next advances the cursor, reporting false when the matches are
	// exhausted or iteration failed.
	Next() bool

	// Result returns the match Next positioned on.
	Result() Result[K]

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases the cursor. Safe to call more than once.
	Close()
}

// Store is the public surface of the document/embedding store. Every
// operation silently applies the scopes fixed at construction time;
// callers cannot bypass them.
type Store[K comparable] interface {
	// CreateDocument inserts record into the document table and returns
	// the generated key.
	CreateDocument(ctx context.Context, record core.Fields) (K, error)

	// GetDocumentByReference fetches one document by key. A missing or
	// scope-mismatched key reports ok=false with a nil error.
	GetDocumentByReference(ctx context.Context, key K) (core.Fields, bool, error)

	// GetDocuments streams every document visible under the document
	// scope.
	GetDocuments(ctx context.Context) (Documents, error)

	// Append inserts embeddings under the given document key, one
	// statement per element in input order, with no transaction around
	// the loop. A mid-loop failure leaves the preceding rows persisted.
	Append(ctx context.Context, key K, embeddings []Embedding) error

	// Delete removes the document by key; the engine's ON DELETE
	// CASCADE removes its embeddings.
	Delete(ctx context.Context, key K) error

	// Query streams the embeddings nearest to vector in ascending
	// distance order. A nil keys slice leaves the search unrestricted;
	// a non-nil empty slice is an empty allow-list and matches nothing.
	Query(ctx context.Context, vector []float32, keys []K, limit, offset int) (Results[K], error)
}
