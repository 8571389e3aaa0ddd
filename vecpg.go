// Package vecpg stores documents and their text embeddings in
// PostgreSQL with the pgvector extension and answers nearest-neighbor
// queries over them.
//
// Example usage:
//
//	pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	st, err := vecpg.New[uuid.UUID](vecpg.Config{
//	    DB:            pool,
//	    Algorithm:     vecpg.AlgorithmCosine,
//	    DocumentScope: vecpg.Scope{"scope": "acme"},
//	})
//	key, err := st.CreateDocument(ctx, vecpg.Fields{"name": "Guide"})
//	err = st.Append(ctx, key, []vecpg.Embedding{{Text: "hello", Vector: vec}})
//
//	results, err := st.Query(ctx, vec, nil, 5, 0)
//	defer results.Close()
//	for results.Next() {
//	    r := results.Result()
//	    fmt.Println(r.Text, r.Distance)
//	}
package vecpg

import (
	"context"

	"github.com/arenvale/vecpg/core"
	"github.com/arenvale/vecpg/embeddings"
	"github.com/arenvale/vecpg/monitor"
	"github.com/arenvale/vecpg/schema"
	"github.com/arenvale/vecpg/store"
)

// Re-export distance algorithms for convenience
const (
	AlgorithmCosine               = core.AlgorithmCosine
	AlgorithmL2                   = core.AlgorithmL2
	AlgorithmL1                   = core.AlgorithmL1
	AlgorithmNegativeInnerProduct = core.AlgorithmNegativeInnerProduct
)

// Logical embedding columns
const (
	ColumnVector   = core.ColumnVector
	ColumnText     = core.ColumnText
	ColumnDocument = core.ColumnDocument
)

// Core type aliases
type (
	Fields       = core.Fields
	Scope        = core.Scope
	Algorithm    = core.Algorithm
	Column       = core.Column
	ColumnMapper = core.ColumnMapper
	OpError      = core.OpError
)

// Error sentinels, matchable with errors.Is.
var (
	ErrInvalidConfig    = core.ErrInvalidConfig
	ErrUnknownAlgorithm = core.ErrUnknownAlgorithm
	ErrExactlyOneRow    = core.ErrExactlyOneRow
	ErrEmptyVector      = core.ErrEmptyVector
	ErrScopeValue       = core.ErrScopeValue
)

// ParseAlgorithm maps a textual algorithm name ("cosine", "l2", "l1",
// "negative_inner_product") to its Algorithm value.
func ParseAlgorithm(s string) (Algorithm, error) {
	return core.ParseAlgorithm(s)
}

// Store aliases
type (
	Config    = store.Config
	Executor  = store.Executor
	Embedding = store.Embedding
	Documents = store.Documents

	Store[K comparable]    = store.Store[K]
	Postgres[K comparable] = store.Postgres[K]
	Memory[K comparable]   = store.Memory[K]
	Result[K comparable]   = store.Result[K]
	Results[K comparable]  = store.Results[K]
)

// New creates a Postgres-backed store over cfg.DB.
func New[K comparable](cfg Config) (*Postgres[K], error) {
	return store.NewPostgres[K](cfg)
}

// NewMemory creates an in-memory store, generating document keys with
// nextKey.
func NewMemory[K comparable](cfg Config, nextKey func() K) (*Memory[K], error) {
	return store.NewMemory[K](cfg, nextKey)
}

// EnsureSchema creates the default pgvector table layout used by the
// examples.
func EnsureSchema(ctx context.Context, db Executor, dimensions int) error {
	return schema.Ensure(ctx, db, dimensions)
}

// Monitor aliases
type (
	Collector         = monitor.Collector
	InMemoryCollector = monitor.InMemoryCollector
	OpMetrics         = monitor.OpMetrics
)

// NewInMemoryCollector creates a new in-memory metrics collector.
func NewInMemoryCollector() *InMemoryCollector {
	return monitor.NewInMemoryCollector()
}

// Embedding client aliases
type (
	EmbeddingClient = embeddings.Client
)

// NewOpenAIEmbeddings creates an OpenAI embedding client.
func NewOpenAIEmbeddings(apiKey string) *embeddings.OpenAIClient {
	return embeddings.NewOpenAIClient(apiKey)
}

// NewOllamaEmbeddings creates an Ollama embedding client.
func NewOllamaEmbeddings(host string) *embeddings.OllamaClient {
	return embeddings.NewOllamaClient(host)
}
