package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/rdfkit/internal/rdf"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// iri builds an IRI triple with all positions under http://example.org/.
func iri(s, p, o string) rdf.Triple {
	const ns = "http://example.org/"
	return rdf.Triple{S: rdf.IRI(ns + s), P: rdf.IRI(ns + p), O: rdf.IRI(ns + o)}
}
