package sqlgen

import (
	"fmt"
	"strings"

	"github.com/arenvale/vecpg/core"
	"github.com/arenvale/vecpg/vector"
)

// DefaultLimit bounds a distance query when the caller does not supply
// a positive limit.
const DefaultLimit = 10

// QueryParams are the inputs of a distance query. Keys, when non-nil,
// is a slice of document keys bound as a single array parameter; nil
// leaves the result unrestricted.
type QueryParams struct {
	Table     string
	Columns   core.ColumnMapper
	Algorithm core.Algorithm
	Vector    []float32
	Keys      any
	Scope     core.Scope
	Limit     int
	Offset    int
}

// DistanceQuery builds the nearest-neighbor SELECT: document key, text,
// raw vector, and a computed distance column, filtered by the scope and
// the optional key allow-list, ordered by ascending distance. The query
// vector and the allow-list bind as parameters, never as statement
// text. An unrecognized algorithm or an empty vector fails before any
// SQL is produced.
func DistanceQuery(p QueryParams) (string, []any, error) {
	op, err := p.Algorithm.Operator()
	if err != nil {
		return "", nil, err
	}
	if len(p.Vector) == 0 {
		return "", nil, core.ErrEmptyVector
	}

	column := func(c core.Column) string {
		if p.Columns != nil {
			return Quote(p.Columns(c))
		}
		return Quote(string(c))
	}
	docCol := column(core.ColumnDocument)
	textCol := column(core.ColumnText)
	vecCol := column(core.ColumnVector)

	args := []any{vector.Format(p.Vector)}

	filters := make([]string, 0, 2)
	if scopeSQL, scopeArgs := ScopeFilter(p.Scope, len(args)+1); scopeSQL != "" {
		filters = append(filters, scopeSQL)
		args = append(args, scopeArgs...)
	}
	if p.Keys != nil {
		args = append(args, p.Keys)
		filters = append(filters, fmt.Sprintf("%s = ANY($%d)", docCol, len(args)))
	}

	var where string
	if len(filters) > 0 {
		where = " WHERE " + strings.Join(filters, " AND ")
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	sql := fmt.Sprintf(
		"SELECT %s, %s, %s, %s %s $1 AS distance FROM %s%s ORDER BY distance LIMIT $%d OFFSET $%d",
		docCol, textCol, vecCol, vecCol, op, Quote(p.Table), where, len(args)-1, len(args),
	)
	return sql, args, nil
}
