package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/rdfkit/internal/rdf"
)

// DeterministicBlanks is a blank node label generator for tests.
//
// Labels are prefix0, prefix1, ... and the sequence can be reset so the
// same scenario run twice produces byte-identical output.
//
// Thread-safety: all methods are safe for concurrent use.
type DeterministicBlanks struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewDeterministicBlanks creates a generator. An empty prefix defaults to "t".
func NewDeterministicBlanks(prefix string) *DeterministicBlanks {
	if prefix == "" {
		prefix = "t"
	}
	return &DeterministicBlanks{prefix: prefix}
}

// Generate implements rdf.BlankGenerator.
func (g *DeterministicBlanks) Generate() rdf.Blank {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := rdf.Blank(fmt.Sprintf("%s%d", g.prefix, g.next))
	g.next++
	return b
}

// Issued returns how many labels have been generated since the last Reset.
func (g *DeterministicBlanks) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next
}

// Reset restarts the sequence at prefix0.
func (g *DeterministicBlanks) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = 0
}
