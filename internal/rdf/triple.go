package rdf

import "fmt"

// Triple is a single (subject, predicate, object) statement.
//
// Subject must be an IRI or Blank, Predicate an IRI. Object may be any Term.
type Triple struct {
	S Term
	P IRI
	O Term
}

// NewTriple builds a triple and checks positional constraints.
func NewTriple(s Term, p IRI, o Term) (Triple, error) {
	t := Triple{S: s, P: p, O: o}
	if err := t.Validate(); err != nil {
		return Triple{}, err
	}
	return t, nil
}

// Validate checks the RDF positional constraints of the triple.
func (t Triple) Validate() error {
	if t.S == nil || t.O == nil {
		return fmt.Errorf("triple has nil term")
	}
	if t.S.Kind() == KindLiteral {
		return fmt.Errorf("literal %s cannot be a subject", t.S)
	}
	if t.P == "" {
		return fmt.Errorf("triple has empty predicate")
	}
	return nil
}

// String returns the N-Triples line for the triple, without newline.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}
