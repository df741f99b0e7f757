package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/rdfkit/internal/rdf"
)

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantParsed bool
		want       rdf.PrefixMapping
	}{
		{
			name:       "declared prefixes",
			text:       "PREFIX ex: <http://example.org/> PREFIX foaf: <http://xmlns.com/foaf/0.1/> SELECT * { ?s ex:p ?o }",
			wantParsed: true,
			want:       rdf.PrefixMapping{"ex": "http://example.org/", "foaf": "http://xmlns.com/foaf/0.1/"},
		},
		{
			name:       "no prologue",
			text:       "SELECT * { ?s ?p ?o }",
			wantParsed: true,
			want:       rdf.PrefixMapping{},
		},
		{
			name: "unparsable text",
			text: "PREFIX ex: <http://example.org/> SELECT garbage",
			want: rdf.PrefixMapping{},
		},
		{
			name: "empty text",
			text: "",
			want: rdf.PrefixMapping{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPrefixes(tt.text)
			assert.Equal(t, tt.wantParsed, got.Parsed)
			assert.Equal(t, tt.want, got.Mapping)
		})
	}
}
