package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arenvale/vecpg/core"
	"github.com/arenvale/vecpg/monitor"
)

// Default table names.
const (
	DefaultDocumentTable  = "documents"
	DefaultEmbeddingTable = "embeddings"
)

// Config fixes a store's behavior at construction time. The zero value
// plus an executor is usable: cosine distance over the default tables
// with empty scopes.
type Config struct {
	// DB executes every statement. Pools, single connections, and
	// open transactions all satisfy the interface.
	DB Executor

	// Algorithm selects the distance operator. Defaults to cosine.
	Algorithm core.Algorithm

	// DocumentScope is merged into every document-table statement.
	DocumentScope core.Scope

	// EmbeddingScope is merged into every embedding-table statement.
	EmbeddingScope core.Scope

	// DocumentTable and EmbeddingTable override the default table
	// names.
	DocumentTable  string
	EmbeddingTable string

	// EmbeddingColumns maps the logical embedding columns (vector,
	// text, document) to physical names. Nil keeps the logical names.
	EmbeddingColumns core.ColumnMapper

	// Logger receives per-operation debug logs. Defaults to a nop
	// logger.
	Logger *zap.Logger

	// Metrics records per-operation outcomes. Defaults to a no-op
	// collector.
	Metrics monitor.Collector
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.DocumentTable == "" {
		c.DocumentTable = DefaultDocumentTable
	}
	if c.EmbeddingTable == "" {
		c.EmbeddingTable = DefaultEmbeddingTable
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Metrics == nil {
		c.Metrics = monitor.NewNoOpCollector()
	}
}

// Validate rejects configurations the statement builders cannot serve.
// The algorithm is checked here so an unknown value fails at
// construction, not at query time.
func (c *Config) Validate() error {
	if _, err := c.Algorithm.Operator(); err != nil {
		return err
	}
	if err := c.DocumentScope.Validate(); err != nil {
		return fmt.Errorf("document scope: %w", err)
	}
	if err := c.EmbeddingScope.Validate(); err != nil {
		return fmt.Errorf("embedding scope: %w", err)
	}
	return nil
}
