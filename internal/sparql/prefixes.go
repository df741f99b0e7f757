package sparql

import (
	"github.com/roach88/rdfkit/internal/rdf"
)

// PrefixResult is the outcome of best-effort prefix extraction.
//
// Parsed reports which branch was taken: true when the query text parsed
// and Mapping holds its PREFIX declarations, false when it did not and
// Mapping is empty. Mapping is never nil.
type PrefixResult struct {
	Mapping rdf.PrefixMapping
	Parsed  bool
}

// ExtractPrefixes derives the prefix mapping of a query text. It never
// fails: unparsable or empty text yields an empty mapping.
func ExtractPrefixes(text string) PrefixResult {
	if text == "" {
		return PrefixResult{Mapping: rdf.PrefixMapping{}}
	}
	q, err := Parse(text)
	if err != nil {
		return PrefixResult{Mapping: rdf.PrefixMapping{}}
	}
	return PrefixResult{Mapping: q.Prefixes, Parsed: true}
}
