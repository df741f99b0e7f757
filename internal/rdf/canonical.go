package rdf

import (
	"golang.org/x/text/unicode/norm"
)

// Canonical returns the NFC normalized form of a term.
//
// Two documents that spell the same IRI or lexical form with different
// Unicode compositions end up sharing one identity in the store.
func Canonical(t Term) Term {
	switch v := t.(type) {
	case IRI:
		return IRI(norm.NFC.String(string(v)))
	case Blank:
		return v
	case Literal:
		return Literal{
			Lexical:  norm.NFC.String(v.Lexical),
			Lang:     v.Lang,
			Datatype: IRI(norm.NFC.String(string(v.Datatype))),
		}
	default:
		return t
	}
}

// CanonicalTriple applies Canonical to every position of a triple.
func CanonicalTriple(t Triple) Triple {
	return Triple{
		S: Canonical(t.S),
		P: Canonical(t.P).(IRI),
		O: Canonical(t.O),
	}
}
