package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestOpErrorFormat(t *testing.T) {
	err := NewOpError("query", "embeddings", errors.New("boom"))
	if got, want := err.Error(), "query [table=embeddings]: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = NewOpError("create", "", errors.New("boom"))
	if got, want := err.Error(), "create: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOpErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("%w: zero rows", ErrExactlyOneRow)
	outer := fmt.Errorf("request: %w", NewOpError("create", "documents", inner))

	if !errors.Is(outer, ErrExactlyOneRow) {
		t.Fatalf("errors.Is(ErrExactlyOneRow) = false for %v", outer)
	}

	var opErr *OpError
	if !errors.As(outer, &opErr) {
		t.Fatalf("errors.As(*OpError) = false for %v", outer)
	}
	if opErr.Op != "create" || opErr.Table != "documents" {
		t.Errorf("OpError = %+v", opErr)
	}
}
