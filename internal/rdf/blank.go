package rdf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BlankGenerator produces fresh blank node labels.
//
// Importers relabel every blank node of a document with a fresh label so
// that two imports never share a blank node by accident.
type BlankGenerator interface {
	Generate() Blank
}

// UUIDGenerator generates time-sortable labels derived from UUIDv7.
//
// Labels start with "b" and contain only hex digits so they are valid
// blank node labels in every supported syntax.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate creates a new label.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDGenerator) Generate() Blank {
	id := uuid.Must(uuid.NewV7())
	return Blank("b" + strings.ReplaceAll(id.String(), "-", ""))
}

// SequenceGenerator returns labels prefix0, prefix1, ... in order.
//
// This enables deterministic blank node labels in tests and golden files.
//
// Thread-safety: SequenceGenerator is safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceGenerator creates a generator. An empty prefix defaults to "b".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "b"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next label in the sequence.
func (g *SequenceGenerator) Generate() Blank {
	g.mu.Lock()
	defer g.mu.Unlock()
	label := fmt.Sprintf("%s%d", g.prefix, g.next)
	g.next++
	return Blank(label)
}

// Relabeler maps document-local blank node labels to fresh labels for the
// duration of one import.
type Relabeler struct {
	gen    BlankGenerator
	labels map[string]Blank
}

// NewRelabeler creates a Relabeler backed by gen.
func NewRelabeler(gen BlankGenerator) *Relabeler {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Relabeler{gen: gen, labels: make(map[string]Blank)}
}

// Blank returns the fresh label for a document label, allocating on first use.
func (r *Relabeler) Blank(docLabel string) Blank {
	docLabel = strings.TrimPrefix(docLabel, "_:")
	if b, ok := r.labels[docLabel]; ok {
		return b
	}
	b := r.gen.Generate()
	r.labels[docLabel] = b
	return b
}
