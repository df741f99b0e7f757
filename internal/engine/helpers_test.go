package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/rdf"
)

const ex = "http://example.org/"

func exIRI(local string) rdf.IRI { return rdf.IRI(ex + local) }

func v(name string) queryir.Node { return queryir.Variable(name) }

func b(t rdf.Term) queryir.Node { return queryir.Bound(t) }

func tp(s, p, o queryir.Node) queryir.TriplePattern {
	return queryir.TriplePattern{S: s, P: p, O: o}
}

func bgp(patterns ...queryir.TriplePattern) *queryir.BGP {
	return &queryir.BGP{Patterns: patterns}
}

func selectVars(where queryir.Group, vars ...string) *queryir.Select {
	return &queryir.Select{Vars: vars, Where: where, Limit: -1}
}

func testEngine(opts ...EngineOption) *Engine {
	opts = append([]EngineOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(opts...)
}

// peopleModel holds a small social graph used across tests.
func peopleModel(t *testing.T, entail graph.Entailment) *graph.MemoryModel {
	t.Helper()
	m := graph.NewMemoryModel(entail)
	_, err := m.Add(context.Background(), []rdf.Triple{
		{S: exIRI("alice"), P: rdf.RDFType, O: exIRI("Person")},
		{S: exIRI("alice"), P: exIRI("name"), O: rdf.NewLiteral("Alice")},
		{S: exIRI("alice"), P: exIRI("age"), O: rdf.NewTypedLiteral("30", rdf.XSDInteger)},
		{S: exIRI("alice"), P: exIRI("knows"), O: exIRI("bob")},
		{S: exIRI("bob"), P: rdf.RDFType, O: exIRI("Person")},
		{S: exIRI("bob"), P: exIRI("name"), O: rdf.NewLangLiteral("Bob", "en")},
		{S: exIRI("bob"), P: exIRI("age"), O: rdf.NewTypedLiteral("9", rdf.XSDInteger)},
		{S: exIRI("carol"), P: rdf.RDFType, O: exIRI("Person")},
		{S: exIRI("carol"), P: exIRI("knows"), O: exIRI("carol")},
	})
	require.NoError(t, err)
	return m
}

// collect runs a query to completion and returns the rows.
func collect(t *testing.T, e *Engine, m graph.Model, q queryir.Query) ([]map[string]rdf.Term, error) {
	t.Helper()
	x, err := e.Execute(context.Background(), m, q)
	require.NoError(t, err)
	defer x.Close()

	var rows []map[string]rdf.Term
	for x.Next() {
		rows = append(rows, x.Solution())
	}
	return rows, x.Err()
}
