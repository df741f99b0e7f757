package store

import (
	"fmt"

	"github.com/roach88/rdfkit/internal/rdf"
)

// termColumns flattens a term into its (kind, value, lang, datatype) columns.
func termColumns(t rdf.Term) (int, string, string, string) {
	switch v := t.(type) {
	case rdf.Literal:
		return int(rdf.KindLiteral), v.Lexical, v.Lang, string(v.Datatype)
	default:
		return int(t.Kind()), t.Value(), "", ""
	}
}

// termFromColumns rebuilds a term from its stored columns.
func termFromColumns(kind int, value, lang, datatype string) (rdf.Term, error) {
	switch rdf.TermKind(kind) {
	case rdf.KindIRI:
		return rdf.IRI(value), nil
	case rdf.KindBlank:
		return rdf.Blank(value), nil
	case rdf.KindLiteral:
		return rdf.Literal{Lexical: value, Lang: lang, Datatype: rdf.IRI(datatype)}, nil
	default:
		return nil, fmt.Errorf("unknown term kind %d", kind)
	}
}
