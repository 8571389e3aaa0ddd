// Package sqlgen builds the parameterized SQL statements the store
// executes. Identifiers always pass through quoting and values are
// always bound; the builders are pure functions of their inputs.
package sqlgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/arenvale/vecpg/core"
	"github.com/arenvale/vecpg/vector"
)

// Quote escapes name as a delimited SQL identifier, doubling any
// embedded delimiter.
func Quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// ScopeFilter renders scope as AND-joined equality clauses, numbering
// parameters from start. Keys are sorted so the fragment is
// deterministic. An empty scope yields an empty fragment and no
// arguments.
func ScopeFilter(scope core.Scope, start int) (string, []any) {
	if len(scope) == 0 {
		return "", nil
	}

	keys := sortedKeys(scope)
	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", Quote(k), start+i))
		args = append(args, scope[k])
	}
	return strings.Join(clauses, " AND "), args
}

// Insert builds an INSERT over the merged scope and record fields that
// returns the generated "id". Scope fields come first in sorted order,
// then record fields; on a key collision the record value wins and
// keeps the scope position. mapColumn (nil for identity) renames
// columns just before quoting. With no fields at all the statement
// inserts defaults.
func Insert(table string, scope core.Scope, record core.Fields, mapColumn func(string) string) (string, []any) {
	keys := sortedKeys(scope)
	seen := make(map[string]bool, len(scope)+len(record))
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range sortedKeys(record) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	if len(keys) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", Quote(table), Quote("id")), nil
	}

	cols := make([]string, 0, len(keys))
	params := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		name := k
		if mapColumn != nil {
			name = mapColumn(k)
		}
		cols = append(cols, Quote(name))
		params = append(params, fmt.Sprintf("$%d", i+1))

		v, ok := record[k]
		if !ok {
			v = scope[k]
		}
		args = append(args, encodeValue(v))
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		Quote(table), strings.Join(cols, ", "), strings.Join(params, ", "), Quote("id"))
	return sql, args
}

// encodeValue serializes vector-typed values into the engine's array
// literal so they bind as text; everything else binds as-is.
func encodeValue(v any) any {
	switch vec := v.(type) {
	case []float32:
		return vector.Format(vec)
	case []float64:
		return vector.Format64(vec)
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
