package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownAlgorithm = errors.New("unknown distance algorithm")
	ErrExactlyOneRow    = errors.New("expected exactly one returned row")
	ErrEmptyVector      = errors.New("query vector is empty")
	ErrScopeValue       = errors.New("scope value must be a scalar")
)

// OpError reports which store operation failed and against which table,
// wrapping the underlying error unmodified.
type OpError struct {
	Op    string
	Table string
	Err   error
}

func (e *OpError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s [table=%s]: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func NewOpError(op, table string, err error) *OpError {
	return &OpError{Op: op, Table: table, Err: err}
}
