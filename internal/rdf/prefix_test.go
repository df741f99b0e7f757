package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixMapping_Compact(t *testing.T) {
	m := PrefixMapping{
		"ex":  "http://example.org/",
		"exv": "http://example.org/vocab#",
	}

	tests := []struct {
		in   string
		want string
	}{
		{"http://example.org/a", "ex:a"},
		{"http://example.org/vocab#name", "exv:name"},
		{"http://other.org/a", "http://other.org/a"},
		{"plain text", "plain text"},
		{"http://example.org/", "ex:"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Compact(tt.in), tt.in)
	}
}

func TestPrefixMapping_CompactIdempotent(t *testing.T) {
	m := PrefixMapping{
		"ex":   "http://example.org/",
		"http": "http://",
	}
	inputs := []string{
		"http://example.org/a",
		"http://www.w3.org/x",
		"ex:a",
		"urn:isbn:123",
	}
	for _, in := range inputs {
		once := m.Compact(in)
		assert.Equal(t, once, m.Compact(once), in)
	}
}

func TestPrefixMapping_EmptyMapping(t *testing.T) {
	var m PrefixMapping
	assert.Equal(t, "http://example.org/a", m.Compact("http://example.org/a"))
	assert.Empty(t, m.Clone())
}

func TestPrefixMapping_Expand(t *testing.T) {
	m := PrefixMapping{"ex": "http://example.org/"}

	iri, ok := m.Expand("ex:a")
	assert.True(t, ok)
	assert.Equal(t, IRI("http://example.org/a"), iri)

	_, ok = m.Expand("zz:a")
	assert.False(t, ok)

	_, ok = m.Expand("noprefix")
	assert.False(t, ok)
}

func TestPrefixMapping_MergeAndPrefixes(t *testing.T) {
	m := PrefixMapping{"b": "http://b/"}
	m.Merge(PrefixMapping{"a": "http://a/", "b": "http://b2/"})
	assert.Equal(t, []string{"a", "b"}, m.Prefixes())
	assert.Equal(t, "http://b2/", m["b"])
}
