package engine

import (
	"context"
	"fmt"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/rdf"
)

// entailingReader answers matches over the RDFS closure of the base
// reader's triples. The closure is materialized into an in-memory model
// on first use and discarded on Close.
type entailingReader struct {
	base    graph.Reader
	closure graph.Reader
}

func newEntailingReader(base graph.Reader) *entailingReader {
	return &entailingReader{base: base}
}

func (r *entailingReader) Match(ctx context.Context, s, p, o rdf.Term) ([]rdf.Triple, error) {
	if r.closure == nil {
		closure, err := materializeRDFS(ctx, r.base)
		if err != nil {
			return nil, err
		}
		r.closure = closure
	}
	return r.closure.Match(ctx, s, p, o)
}

func (r *entailingReader) Close() error {
	if r.closure != nil {
		r.closure.Close()
	}
	return r.base.Close()
}

// materializeRDFS applies the RDFS rules until no new triple is derived.
func materializeRDFS(ctx context.Context, base graph.Reader) (graph.Reader, error) {
	asserted, err := base.Match(ctx, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("read asserted triples: %w", err)
	}

	model := graph.NewMemoryModel(graph.EntailNone)
	if _, err := model.Add(ctx, asserted); err != nil {
		return nil, fmt.Errorf("load asserted triples: %w", err)
	}

	all := asserted
	for {
		added, err := model.Add(ctx, rdfsStep(all))
		if err != nil {
			return nil, fmt.Errorf("add entailed triples: %w", err)
		}
		if added == 0 {
			break
		}
		snap, err := model.Begin(ctx)
		if err != nil {
			return nil, err
		}
		all, err = snap.Match(ctx, nil, nil, nil)
		snap.Close()
		if err != nil {
			return nil, err
		}
	}
	return model.Begin(ctx)
}

// rdfsStep derives one round of RDFS consequences:
//
//	rdfs2  (p domain C) (x p y)          => (x type C)
//	rdfs3  (p range C)  (x p y)          => (y type C), y not a literal
//	rdfs5  (p subPropertyOf q) (q subPropertyOf r) => (p subPropertyOf r)
//	rdfs7  (p subPropertyOf q) (x p y)   => (x q y)
//	rdfs9  (C subClassOf D) (x type C)   => (x type D)
//	rdfs11 (C subClassOf D) (D subClassOf E) => (C subClassOf E)
func rdfsStep(triples []rdf.Triple) []rdf.Triple {
	superProps := make(map[rdf.IRI][]rdf.IRI)
	superClasses := make(map[string][]rdf.Term)
	domains := make(map[rdf.IRI][]rdf.Term)
	ranges := make(map[rdf.IRI][]rdf.Term)

	for _, t := range triples {
		switch t.P {
		case rdf.RDFSSubPropertyOf:
			sub, sok := t.S.(rdf.IRI)
			super, ook := t.O.(rdf.IRI)
			if sok && ook {
				superProps[sub] = append(superProps[sub], super)
			}
		case rdf.RDFSSubClassOf:
			if t.O.Kind() != rdf.KindLiteral {
				key := t.S.String()
				superClasses[key] = append(superClasses[key], t.O)
			}
		case rdf.RDFSDomain:
			if p, ok := t.S.(rdf.IRI); ok && t.O.Kind() != rdf.KindLiteral {
				domains[p] = append(domains[p], t.O)
			}
		case rdf.RDFSRange:
			if p, ok := t.S.(rdf.IRI); ok && t.O.Kind() != rdf.KindLiteral {
				ranges[p] = append(ranges[p], t.O)
			}
		}
	}

	var out []rdf.Triple
	for _, t := range triples {
		for _, c := range domains[t.P] {
			out = append(out, rdf.Triple{S: t.S, P: rdf.RDFType, O: c})
		}
		if t.O.Kind() != rdf.KindLiteral {
			for _, c := range ranges[t.P] {
				out = append(out, rdf.Triple{S: t.O, P: rdf.RDFType, O: c})
			}
		}
		for _, q := range superProps[t.P] {
			out = append(out, rdf.Triple{S: t.S, P: q, O: t.O})
		}

		switch t.P {
		case rdf.RDFType:
			for _, d := range superClasses[t.O.String()] {
				out = append(out, rdf.Triple{S: t.S, P: rdf.RDFType, O: d})
			}
		case rdf.RDFSSubPropertyOf:
			if super, ok := t.O.(rdf.IRI); ok {
				for _, r := range superProps[super] {
					out = append(out, rdf.Triple{S: t.S, P: rdf.RDFSSubPropertyOf, O: r})
				}
			}
		case rdf.RDFSSubClassOf:
			for _, e := range superClasses[t.O.String()] {
				out = append(out, rdf.Triple{S: t.S, P: rdf.RDFSSubClassOf, O: e})
			}
		}
	}
	return out
}
