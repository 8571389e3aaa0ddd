// Package schema creates the default table layout the store runs
// against. It is a convenience for examples and tests; production
// deployments own their schema and migrations.
package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Executor is the subset of a pgx connection needed to run DDL.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ensure creates the pgvector extension, the default document and
// embedding tables, and their indexes, if missing. dimensions fixes the
// vector column width. Statements run one at a time so the executor may
// use the extended query protocol.
func Ensure(ctx context.Context, db Executor, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT,
			scope TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS embeddings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			document UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			vector vector(%d) NOT NULL,
			scope TEXT
		)`, dimensions),
		`CREATE INDEX IF NOT EXISTS idx_embeddings_vector ON embeddings USING hnsw (vector vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_embeddings_document ON embeddings (document)`,
	}

	for _, s := range statements {
		if _, err := db.Exec(ctx, s); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}

	return nil
}
