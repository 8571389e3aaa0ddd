package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arenvale/vecpg/core"
	"github.com/arenvale/vecpg/sqlgen"
	"github.com/arenvale/vecpg/vector"
)

var tracer = otel.Tracer("vecpg/store")

// Executor runs parameterized statements against PostgreSQL. Pools,
// single connections, and open transactions all satisfy it, so a store
// can run over whichever the caller owns.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Executor = (*pgxpool.Pool)(nil)
	_ Executor = (*pgx.Conn)(nil)
	_ Executor = (pgx.Tx)(nil)
)

// Postgres is the pgvector-backed Store implementation. It holds only
// configuration fixed at construction; concurrency safety is delegated
// to the executor.
type Postgres[K comparable] struct {
	cfg Config
}

var _ Store[int64] = (*Postgres[int64])(nil)

// NewPostgres builds a store over cfg.DB. The configuration is
// validated here so a bad algorithm or scope never reaches the
// database.
func NewPostgres[K comparable](cfg Config) (*Postgres[K], error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("%w: executor is required", core.ErrInvalidConfig)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Postgres[K]{cfg: cfg}, nil
}

func (p *Postgres[K]) finish(span trace.Span, op string, start time.Time, err error) {
	p.cfg.Metrics.Record(op, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CreateDocument inserts record into the document table, merging the
// document scope, and returns the generated key.
func (p *Postgres[K]) CreateDocument(ctx context.Context, record core.Fields) (key K, err error) {
	const op = "create"
	ctx, span := tracer.Start(ctx, "Postgres.CreateDocument")
	span.SetAttributes(attribute.String("table", p.cfg.DocumentTable))
	start := time.Now()
	defer func() { p.finish(span, op, start, err) }()

	sql, args := sqlgen.Insert(p.cfg.DocumentTable, p.cfg.DocumentScope, record, nil)

	rows, qerr := p.cfg.DB.Query(ctx, sql, args...)
	if qerr != nil {
		return key, core.NewOpError(op, p.cfg.DocumentTable, qerr)
	}
	key, cerr := pgx.CollectExactlyOneRow(rows, pgx.RowTo[K])
	if cerr != nil {
		if errors.Is(cerr, pgx.ErrNoRows) || errors.Is(cerr, pgx.ErrTooManyRows) {
			cerr = fmt.Errorf("%w: %v", core.ErrExactlyOneRow, cerr)
		}
		return key, core.NewOpError(op, p.cfg.DocumentTable, cerr)
	}

	p.cfg.Logger.Debug("document created",
		zap.String("table", p.cfg.DocumentTable),
		zap.Any("key", key),
	)
	return key, nil
}

// GetDocumentByReference fetches one document by key under the document
// scope. Absence is reported through ok, never as an error.
func (p *Postgres[K]) GetDocumentByReference(ctx context.Context, key K) (doc core.Fields, ok bool, err error) {
	const op = "get"
	ctx, span := tracer.Start(ctx, "Postgres.GetDocumentByReference")
	span.SetAttributes(attribute.String("table", p.cfg.DocumentTable))
	start := time.Now()
	defer func() { p.finish(span, op, start, err) }()

	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1",
		sqlgen.Quote(p.cfg.DocumentTable), sqlgen.Quote("id"))
	args := []any{key}
	if filter, scopeArgs := sqlgen.ScopeFilter(p.cfg.DocumentScope, 2); filter != "" {
		sql += " AND " + filter
		args = append(args, scopeArgs...)
	}

	rows, qerr := p.cfg.DB.Query(ctx, sql, args...)
	if qerr != nil {
		return nil, false, core.NewOpError(op, p.cfg.DocumentTable, qerr)
	}
	m, cerr := pgx.CollectOneRow(rows, pgx.RowToMap)
	if cerr != nil {
		if errors.Is(cerr, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, core.NewOpError(op, p.cfg.DocumentTable, cerr)
	}

	return core.Fields(m), true, nil
}

// GetDocuments streams every document visible under the document scope.
func (p *Postgres[K]) GetDocuments(ctx context.Context) (docs Documents, err error) {
	const op = "list"
	ctx, span := tracer.Start(ctx, "Postgres.GetDocuments")
	span.SetAttributes(attribute.String("table", p.cfg.DocumentTable))
	start := time.Now()
	defer func() { p.finish(span, op, start, err) }()

	sql := "SELECT * FROM " + sqlgen.Quote(p.cfg.DocumentTable)
	filter, args := sqlgen.ScopeFilter(p.cfg.DocumentScope, 1)
	if filter != "" {
		sql += " WHERE " + filter
	}

	rows, qerr := p.cfg.DB.Query(ctx, sql, args...)
	if qerr != nil {
		return nil, core.NewOpError(op, p.cfg.DocumentTable, qerr)
	}
	return &documentRows{rows: rows, table: p.cfg.DocumentTable}, nil
}

// Append inserts embeddings under key, merging the embedding scope into
// each row. One statement per element, in input order, with no
// transaction around the loop: a failure partway leaves the preceding
// rows persisted.
func (p *Postgres[K]) Append(ctx context.Context, key K, embeddings []Embedding) (err error) {
	const op = "append"
	ctx, span := tracer.Start(ctx, "Postgres.Append")
	span.SetAttributes(
		attribute.String("table", p.cfg.EmbeddingTable),
		attribute.Int("count", len(embeddings)),
	)
	start := time.Now()
	defer func() { p.finish(span, op, start, err) }()

	for i, e := range embeddings {
		record := core.Fields{
			string(core.ColumnDocument): key,
			string(core.ColumnText):     e.Text,
			string(core.ColumnVector):   e.Vector,
		}
		sql, args := sqlgen.Insert(p.cfg.EmbeddingTable, p.cfg.EmbeddingScope, record, p.mapColumn)

		rows, qerr := p.cfg.DB.Query(ctx, sql, args...)
		if qerr != nil {
			return core.NewOpError(op, p.cfg.EmbeddingTable, fmt.Errorf("embedding %d: %w", i, qerr))
		}
		if _, cerr := pgx.CollectExactlyOneRow(rows, pgx.RowTo[any]); cerr != nil {
			if errors.Is(cerr, pgx.ErrNoRows) || errors.Is(cerr, pgx.ErrTooManyRows) {
				cerr = fmt.Errorf("%w: %v", core.ErrExactlyOneRow, cerr)
			}
			return core.NewOpError(op, p.cfg.EmbeddingTable, fmt.Errorf("embedding %d: %w", i, cerr))
		}
	}

	p.cfg.Logger.Debug("embeddings appended",
		zap.String("table", p.cfg.EmbeddingTable),
		zap.Int("count", len(embeddings)),
	)
	return nil
}

// Delete removes the document by key under the document scope. The
// schema's ON DELETE CASCADE removes dependent embeddings; this is not
// verified here.
func (p *Postgres[K]) Delete(ctx context.Context, key K) (err error) {
	const op = "delete"
	ctx, span := tracer.Start(ctx, "Postgres.Delete")
	span.SetAttributes(attribute.String("table", p.cfg.DocumentTable))
	start := time.Now()
	defer func() { p.finish(span, op, start, err) }()

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		sqlgen.Quote(p.cfg.DocumentTable), sqlgen.Quote("id"))
	args := []any{key}
	if filter, scopeArgs := sqlgen.ScopeFilter(p.cfg.DocumentScope, 2); filter != "" {
		sql += " AND " + filter
		args = append(args, scopeArgs...)
	}

	if _, xerr := p.cfg.DB.Exec(ctx, sql, args...); xerr != nil {
		return core.NewOpError(op, p.cfg.DocumentTable, xerr)
	}

	p.cfg.Logger.Debug("document deleted",
		zap.String("table", p.cfg.DocumentTable),
		zap.Any("key", key),
	)
	return nil
}

// Query streams the embeddings nearest to vec in ascending distance
// order, restricted by the embedding scope and, when keys is non-nil,
// to the given document keys.
func (p *Postgres[K]) Query(ctx context.Context, vec []float32, keys []K, limit, offset int) (res Results[K], err error) {
	const op = "query"
	ctx, span := tracer.Start(ctx, "Postgres.Query")
	span.SetAttributes(
		attribute.String("table", p.cfg.EmbeddingTable),
		attribute.Int("limit", limit),
	)
	start := time.Now()
	defer func() { p.finish(span, op, start, err) }()

	params := sqlgen.QueryParams{
		Table:     p.cfg.EmbeddingTable,
		Columns:   p.cfg.EmbeddingColumns,
		Algorithm: p.cfg.Algorithm,
		Vector:    vec,
		Scope:     p.cfg.EmbeddingScope,
		Limit:     limit,
		Offset:    offset,
	}
	// A typed nil slice must not become a non-nil allow-list.
	if keys != nil {
		params.Keys = keys
	}

	sql, args, berr := sqlgen.DistanceQuery(params)
	if berr != nil {
		return nil, core.NewOpError(op, p.cfg.EmbeddingTable, berr)
	}

	rows, qerr := p.cfg.DB.Query(ctx, sql, args...)
	if qerr != nil {
		return nil, core.NewOpError(op, p.cfg.EmbeddingTable, qerr)
	}

	p.cfg.Logger.Debug("similarity query issued",
		zap.String("table", p.cfg.EmbeddingTable),
		zap.String("algorithm", p.cfg.Algorithm.String()),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)
	return &resultRows[K]{rows: rows, table: p.cfg.EmbeddingTable}, nil
}

// mapColumn adapts the configured ColumnMapper to the insert builder.
// Only the logical embedding columns are translated.
func (p *Postgres[K]) mapColumn(name string) string {
	if p.cfg.EmbeddingColumns == nil {
		return name
	}
	switch c := core.Column(name); c {
	case core.ColumnVector, core.ColumnText, core.ColumnDocument:
		return p.cfg.EmbeddingColumns(c)
	}
	return name
}

// documentRows adapts pgx rows to the Documents cursor.
type documentRows struct {
	rows  pgx.Rows
	table string
	cur   core.Fields
	err   error
	done  bool
}

func (d *documentRows) Next() bool {
	if d.done {
		return false
	}
	if !d.rows.Next() {
		d.close(nil)
		return false
	}
	m, err := pgx.RowToMap(d.rows)
	if err != nil {
		d.close(err)
		return false
	}
	d.cur = core.Fields(m)
	return true
}

func (d *documentRows) Document() core.Fields { return d.cur }

func (d *documentRows) Err() error { return d.err }

func (d *documentRows) Close() { d.close(nil) }

func (d *documentRows) close(err error) {
	if d.done {
		return
	}
	d.done = true
	d.rows.Close()
	if err == nil {
		err = d.rows.Err()
	}
	if err != nil {
		d.err = core.NewOpError("list", d.table, err)
	}
}

// resultRows adapts pgx rows to the Results cursor, decoding the
// vector column from its text representation.
type resultRows[K comparable] struct {
	rows  pgx.Rows
	table string
	cur   Result[K]
	err   error
	done  bool
}

func (r *resultRows[K]) Next() bool {
	if r.done {
		return false
	}
	if !r.rows.Next() {
		r.close(nil)
		return false
	}

	var res Result[K]
	var raw string
	if err := r.rows.Scan(&res.Document, &res.Text, &raw, &res.Distance); err != nil {
		r.close(err)
		return false
	}
	vec, err := vector.Parse(raw)
	if err != nil {
		r.close(err)
		return false
	}
	res.Vector = vec

	r.cur = res
	return true
}

func (r *resultRows[K]) Result() Result[K] { return r.cur }

func (r *resultRows[K]) Err() error { return r.err }

func (r *resultRows[K]) Close() { r.close(nil) }

func (r *resultRows[K]) close(err error) {
	if r.done {
		return
	}
	r.done = true
	r.rows.Close()
	if err == nil {
		err = r.rows.Err()
	}
	if err != nil {
		r.err = core.NewOpError("query", r.table, err)
	}
}
