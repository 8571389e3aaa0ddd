package sqlgen

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/arenvale/vecpg/core"
)

func TestDistanceQueryOperators(t *testing.T) {
	tests := []struct {
		alg core.Algorithm
		op  string
	}{
		{core.AlgorithmCosine, "<=>"},
		{core.AlgorithmL2, "<->"},
		{core.AlgorithmL1, "<+>"},
		{core.AlgorithmNegativeInnerProduct, "<#>"},
	}

	operators := []string{"<=>", "<->", "<+>", "<#>"}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			sql, args, err := DistanceQuery(QueryParams{
				Table:     "embeddings",
				Algorithm: tt.alg,
				Vector:    []float32{1, 2, 3},
			})
			if err != nil {
				t.Fatalf("DistanceQuery error = %v", err)
			}

			want := `SELECT "document", "text", "vector", "vector" ` + tt.op +
				` $1 AS distance FROM "embeddings" ORDER BY distance LIMIT $2 OFFSET $3`
			if sql != want {
				t.Errorf("sql = %q, want %q", sql, want)
			}
			for _, op := range operators {
				if op != tt.op && strings.Contains(sql, op) {
					t.Errorf("sql contains foreign operator %s: %q", op, sql)
				}
			}
			if !reflect.DeepEqual(args, []any{"[1,2,3]", 10, 0}) {
				t.Errorf("args = %v", args)
			}
		})
	}
}

func TestDistanceQueryUnknownAlgorithm(t *testing.T) {
	sql, args, err := DistanceQuery(QueryParams{
		Table:     "embeddings",
		Algorithm: core.Algorithm(7),
		Vector:    []float32{1},
	})
	if !errors.Is(err, core.ErrUnknownAlgorithm) {
		t.Fatalf("error = %v, want ErrUnknownAlgorithm", err)
	}
	if sql != "" || args != nil {
		t.Errorf("statement produced despite error: %q %v", sql, args)
	}
}

func TestDistanceQueryEmptyVector(t *testing.T) {
	sql, _, err := DistanceQuery(QueryParams{
		Table:     "embeddings",
		Algorithm: core.AlgorithmCosine,
	})
	if !errors.Is(err, core.ErrEmptyVector) {
		t.Fatalf("error = %v, want ErrEmptyVector", err)
	}
	if sql != "" {
		t.Errorf("statement produced despite error: %q", sql)
	}
}

func TestDistanceQueryScopeAndKeys(t *testing.T) {
	sql, args, err := DistanceQuery(QueryParams{
		Table:     "embeddings",
		Algorithm: core.AlgorithmCosine,
		Vector:    []float32{0.5},
		Keys:      []int64{1, 2},
		Scope:     core.Scope{"tenant": "acme"},
		Limit:     25,
		Offset:    5,
	})
	if err != nil {
		t.Fatalf("DistanceQuery error = %v", err)
	}

	want := `SELECT "document", "text", "vector", "vector" <=> $1 AS distance` +
		` FROM "embeddings" WHERE "tenant" = $2 AND "document" = ANY($3)` +
		` ORDER BY distance LIMIT $4 OFFSET $5`
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"[0.5]", "acme", []int64{1, 2}, 25, 5}) {
		t.Errorf("args = %v", args)
	}
}

func TestDistanceQueryKeyListPresence(t *testing.T) {
	base := QueryParams{
		Table:     "embeddings",
		Algorithm: core.AlgorithmCosine,
		Vector:    []float32{1},
	}

	sql, _, err := DistanceQuery(base)
	if err != nil {
		t.Fatalf("DistanceQuery error = %v", err)
	}
	if strings.Contains(sql, "WHERE") || strings.Contains(sql, "ANY") {
		t.Errorf("unrestricted query has a filter: %q", sql)
	}

	// An empty allow-list is still an allow-list.
	base.Keys = []int64{}
	sql, args, err := DistanceQuery(base)
	if err != nil {
		t.Fatalf("DistanceQuery error = %v", err)
	}
	if !strings.Contains(sql, `WHERE "document" = ANY($2)`) {
		t.Errorf("empty allow-list dropped: %q", sql)
	}
	if !reflect.DeepEqual(args[1], []int64{}) {
		t.Errorf("allow-list arg = %v", args[1])
	}
}

func TestDistanceQueryColumnMapper(t *testing.T) {
	mapper := func(c core.Column) string {
		switch c {
		case core.ColumnVector:
			return "embedding"
		case core.ColumnText:
			return "content"
		case core.ColumnDocument:
			return "doc_id"
		}
		return string(c)
	}

	sql, _, err := DistanceQuery(QueryParams{
		Table:     "chunks",
		Columns:   mapper,
		Algorithm: core.AlgorithmL2,
		Vector:    []float32{1},
		Keys:      []string{"a"},
	})
	if err != nil {
		t.Fatalf("DistanceQuery error = %v", err)
	}

	want := `SELECT "doc_id", "content", "embedding", "embedding" <-> $1 AS distance` +
		` FROM "chunks" WHERE "doc_id" = ANY($2) ORDER BY distance LIMIT $3 OFFSET $4`
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestDistanceQueryPaginationDefaults(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"zero values", 0, 0, 10, 0},
		{"negative values", -5, -3, 10, 0},
		{"explicit", 50, 20, 50, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args, err := DistanceQuery(QueryParams{
				Table:     "embeddings",
				Algorithm: core.AlgorithmCosine,
				Vector:    []float32{1},
				Limit:     tt.limit,
				Offset:    tt.offset,
			})
			if err != nil {
				t.Fatalf("DistanceQuery error = %v", err)
			}
			if args[len(args)-2] != tt.wantLimit {
				t.Errorf("limit arg = %v, want %d", args[len(args)-2], tt.wantLimit)
			}
			if args[len(args)-1] != tt.wantOffset {
				t.Errorf("offset arg = %v, want %d", args[len(args)-1], tt.wantOffset)
			}
		})
	}
}
