package core

import "fmt"

// Fields holds the column values of a document row. Documents read back
// from the store include the generated "id" column; records passed to
// CreateDocument must not carry it.
type Fields map[string]any

// Scope is a set of column equality constraints merged into every
// statement issued against its table. Values must be scalars.
type Scope map[string]any

// Validate checks that every scope value is a scalar the statement
// builders can bind.
func (s Scope) Validate() error {
	for col, v := range s {
		if !IsScalar(v) {
			return fmt.Errorf("%w: %s is %T", ErrScopeValue, col, v)
		}
	}
	return nil
}

// IsScalar reports whether v is a bindable scope value: nil, string,
// bool, or any integer or float type.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Column names a logical embedding-table column. The physical column
// name comes from the store's ColumnMapper.
type Column string

const (
	ColumnVector   Column = "vector"
	ColumnText     Column = "text"
	ColumnDocument Column = "document"
)

// ColumnMapper translates a logical embedding column to its physical
// name. A nil mapper means the physical names equal the logical ones.
type ColumnMapper func(Column) string
