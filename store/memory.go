package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/arenvale/vecpg/core"
	"github.com/arenvale/vecpg/sqlgen"
	"github.com/arenvale/vecpg/vector"
)

// memoryState is the backing data shared by every scoped view of one
// in-memory store.
type memoryState[K comparable] struct {
	mu         sync.RWMutex
	documents  map[K]core.Fields
	embeddings []embeddingRow[K]
	nextKey    func() K
}

type embeddingRow[K comparable] struct {
	document K
	text     string
	vector   []float32
	scope    core.Scope
}

// Memory is an in-process Store for development and testing. It mirrors
// the Postgres semantics: scopes merge into writes and filter reads,
// deleting a document removes its embeddings, and query results come
// back in ascending distance order.
type Memory[K comparable] struct {
	state *memoryState[K]
	cfg   Config
}

var _ Store[int64] = (*Memory[int64])(nil)

// NewMemory builds an empty in-memory store. nextKey generates document
// keys, standing in for the engine-generated primary key.
func NewMemory[K comparable](cfg Config, nextKey func() K) (*Memory[K], error) {
	if nextKey == nil {
		return nil, fmt.Errorf("%w: key generator is required", core.ErrInvalidConfig)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Memory[K]{
		state: &memoryState[K]{
			documents: make(map[K]core.Fields),
			nextKey:   nextKey,
		},
		cfg: cfg,
	}, nil
}

// WithScopes returns a view over the same backing data with different
// scopes, mirroring two stores configured against one database.
func (m *Memory[K]) WithScopes(document, embedding core.Scope) (*Memory[K], error) {
	cfg := m.cfg
	cfg.DocumentScope = document
	cfg.EmbeddingScope = embedding
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Memory[K]{state: m.state, cfg: cfg}, nil
}

// CreateDocument stores record merged with the document scope under a
// generated key.
func (m *Memory[K]) CreateDocument(ctx context.Context, record core.Fields) (K, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	key := m.state.nextKey()
	fields := make(core.Fields, len(m.cfg.DocumentScope)+len(record)+1)
	for k, v := range m.cfg.DocumentScope {
		fields[k] = v
	}
	for k, v := range record {
		fields[k] = v
	}
	fields["id"] = key
	m.state.documents[key] = fields

	return key, nil
}

// GetDocumentByReference fetches one document by key under the document
// scope.
func (m *Memory[K]) GetDocumentByReference(ctx context.Context, key K) (core.Fields, bool, error) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	doc, ok := m.state.documents[key]
	if !ok || !matchScope(doc, m.cfg.DocumentScope) {
		return nil, false, nil
	}
	return cloneFields(doc), true, nil
}

// GetDocuments streams every document visible under the document scope.
func (m *Memory[K]) GetDocuments(ctx context.Context) (Documents, error) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	docs := make([]core.Fields, 0, len(m.state.documents))
	for _, doc := range m.state.documents {
		if matchScope(doc, m.cfg.DocumentScope) {
			docs = append(docs, cloneFields(doc))
		}
	}
	return &documentSlice{docs: docs}, nil
}

// Append stores embeddings under key, tagged with the embedding scope.
// The referenced document must exist, matching the schema's foreign
// key.
func (m *Memory[K]) Append(ctx context.Context, key K, embeddings []Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.documents[key]; !ok {
		return core.NewOpError("append", m.cfg.EmbeddingTable,
			fmt.Errorf("document %v does not exist", key))
	}
	for _, e := range embeddings {
		m.state.embeddings = append(m.state.embeddings, embeddingRow[K]{
			document: key,
			text:     e.Text,
			vector:   append([]float32(nil), e.Vector...),
			scope:    m.cfg.EmbeddingScope,
		})
	}
	return nil
}

// Delete removes the document by key under the document scope, along
// with every embedding referencing it.
func (m *Memory[K]) Delete(ctx context.Context, key K) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	doc, ok := m.state.documents[key]
	if !ok || !matchScope(doc, m.cfg.DocumentScope) {
		return nil
	}
	delete(m.state.documents, key)

	kept := m.state.embeddings[:0]
	for _, row := range m.state.embeddings {
		if row.document != key {
			kept = append(kept, row)
		}
	}
	m.state.embeddings = kept

	return nil
}

// Query ranks the stored embeddings against vec by brute-force
// distance, applying the embedding scope and the optional key
// allow-list, then windows the ordered matches by limit and offset.
func (m *Memory[K]) Query(ctx context.Context, vec []float32, keys []K, limit, offset int) (Results[K], error) {
	if len(vec) == 0 {
		return nil, core.NewOpError("query", m.cfg.EmbeddingTable, core.ErrEmptyVector)
	}

	var allowed map[K]bool
	if keys != nil {
		allowed = make(map[K]bool, len(keys))
		for _, k := range keys {
			allowed[k] = true
		}
	}

	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	matches := make([]Result[K], 0, len(m.state.embeddings))
	for _, row := range m.state.embeddings {
		if !matchScope(core.Fields(row.scope), m.cfg.EmbeddingScope) {
			continue
		}
		if allowed != nil && !allowed[row.document] {
			continue
		}
		d, err := vector.Distance(m.cfg.Algorithm, vec, row.vector)
		if err != nil {
			return nil, core.NewOpError("query", m.cfg.EmbeddingTable, err)
		}
		matches = append(matches, Result[K]{
			Document: row.document,
			Text:     row.text,
			Vector:   append([]float32(nil), row.vector...),
			Distance: d,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if limit <= 0 {
		limit = sqlgen.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) {
		matches = nil
	} else {
		matches = matches[offset:]
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return &resultSlice[K]{results: matches}, nil
}

// matchScope reports whether fields satisfies every scope constraint.
func matchScope(fields core.Fields, scope core.Scope) bool {
	for k, want := range scope {
		got, ok := fields[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func cloneFields(fields core.Fields) core.Fields {
	out := make(core.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// documentSlice is the materialized Documents cursor backing the
// memory store.
type documentSlice struct {
	docs []core.Fields
	cur  core.Fields
}

func (d *documentSlice) Next() bool {
	if len(d.docs) == 0 {
		return false
	}
	d.cur = d.docs[0]
	d.docs = d.docs[1:]
	return true
}

func (d *documentSlice) Document() core.Fields { return d.cur }

func (d *documentSlice) Err() error { return nil }

func (d *documentSlice) Close() {}

// resultSlice is the materialized Results cursor backing the memory
// store.
type resultSlice[K comparable] struct {
	results []Result[K]
	cur     Result[K]
}

func (r *resultSlice[K]) Next() bool {
	if len(r.results) == 0 {
		return false
	}
	r.cur = r.results[0]
	r.results = r.results[1:]
	return true
}

func (r *resultSlice[K]) Result() Result[K] { return r.cur }

func (r *resultSlice[K]) Err() error { return nil }

func (r *resultSlice[K]) Close() {}
