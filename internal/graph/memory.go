package graph

import (
	"context"
	"sync"

	"github.com/roach88/rdfkit/internal/rdf"
)

// MemoryModel is an indexed, insertion-ordered in-memory Model.
//
// Triples are append-only, so a Reader sees a stable snapshot by bounding
// itself to the length at Begin.
//
// Thread-safety: all methods are safe for concurrent use via internal RWMutex.
type MemoryModel struct {
	mu         sync.RWMutex
	entail     Entailment
	triples    []rdf.Triple
	ids        map[string]struct{}
	bySubject  map[string][]int
	byPred     map[string][]int
	byObject   map[string][]int
	namespaces rdf.PrefixMapping
}

// NewMemoryModel creates an empty model.
func NewMemoryModel(entail Entailment) *MemoryModel {
	return &MemoryModel{
		entail:     entail,
		ids:        make(map[string]struct{}),
		bySubject:  make(map[string][]int),
		byPred:     make(map[string][]int),
		byObject:   make(map[string][]int),
		namespaces: rdf.PrefixMapping{},
	}
}

// Add implements Model.
func (m *MemoryModel) Add(ctx context.Context, triples []rdf.Triple) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, t := range triples {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		if err := t.Validate(); err != nil {
			return added, err
		}
		id := rdf.TripleID(t)
		if _, dup := m.ids[id]; dup {
			continue
		}
		idx := len(m.triples)
		m.triples = append(m.triples, t)
		m.ids[id] = struct{}{}
		m.bySubject[t.S.String()] = append(m.bySubject[t.S.String()], idx)
		m.byPred[t.P.String()] = append(m.byPred[t.P.String()], idx)
		m.byObject[t.O.String()] = append(m.byObject[t.O.String()], idx)
		added++
	}
	return added, nil
}

// Size implements Model.
func (m *MemoryModel) Size(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.triples)), nil
}

// Begin implements Model.
func (m *MemoryModel) Begin(ctx context.Context) (Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	n := len(m.triples)
	m.mu.RUnlock()
	return &memoryReader{model: m, limit: n}, nil
}

// Namespaces implements Model.
func (m *MemoryModel) Namespaces(ctx context.Context) (rdf.PrefixMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.namespaces.Clone(), nil
}

// AddNamespaces implements Model.
func (m *MemoryModel) AddNamespaces(ctx context.Context, ns rdf.PrefixMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces.Merge(ns)
	return nil
}

// Entailment implements Model.
func (m *MemoryModel) Entailment() Entailment {
	return m.entail
}

type memoryReader struct {
	model  *MemoryModel
	limit  int
	closed bool
}

func (r *memoryReader) Match(ctx context.Context, s, p, o rdf.Term) ([]rdf.Triple, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := r.model
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Pick the most selective bound position.
	var candidates []int
	indexed := false
	for _, lookup := range []struct {
		term  rdf.Term
		index map[string][]int
	}{{s, m.bySubject}, {p, m.byPred}, {o, m.byObject}} {
		if lookup.term == nil {
			continue
		}
		hits := lookup.index[lookup.term.String()]
		if !indexed || len(hits) < len(candidates) {
			candidates = hits
			indexed = true
		}
	}

	var out []rdf.Triple
	visit := func(idx int) {
		if idx >= r.limit {
			return
		}
		t := m.triples[idx]
		if matches(t, s, p, o) {
			out = append(out, t)
		}
	}
	if indexed {
		for _, idx := range candidates {
			visit(idx)
		}
	} else {
		for idx := 0; idx < r.limit; idx++ {
			visit(idx)
		}
	}
	return out, nil
}

func (r *memoryReader) Close() error {
	r.closed = true
	return nil
}

func matches(t rdf.Triple, s, p, o rdf.Term) bool {
	if s != nil && !rdf.TermsEqual(t.S, s) {
		return false
	}
	if p != nil && !rdf.TermsEqual(t.P, p) {
		return false
	}
	if o != nil && !rdf.TermsEqual(t.O, o) {
		return false
	}
	return true
}
