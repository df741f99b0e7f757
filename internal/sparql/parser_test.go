package sparql

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/rdf"
)

func TestParse_SelectStar(t *testing.T) {
	q, err := Parse("SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)

	want := &queryir.Select{
		Star: true,
		Vars: []string{"s", "p", "o"},
		Where: queryir.Group{Elements: []queryir.Element{
			&queryir.BGP{Patterns: []queryir.TriplePattern{{
				S: queryir.Variable("s"), P: queryir.Variable("p"), O: queryir.Variable("o"),
			}}},
		}},
		Limit: -1,
	}
	if diff := cmp.Diff(want, q.Select); diff != "" {
		t.Errorf("Select mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, q.Prefixes)
}

func TestParse_PrologueAndPropertyLists(t *testing.T) {
	q, err := Parse(`
		BASE <http://example.org/>
		PREFIX ex: <ns#>
		PREFIX : <http://default/>
		# comment
		SELECT DISTINCT ?name WHERE {
			?p a ex:Person ;
			   ex:name ?name , "Al"@EN ;
			   :age 42 .
			<thing> ex:flag true .
		}`)
	require.NoError(t, err)

	assert.Equal(t, rdf.PrefixMapping{"ex": "http://example.org/ns#", "": "http://default/"}, q.Prefixes)
	assert.Equal(t, "http://example.org/", q.Base)
	assert.True(t, q.Select.Distinct)
	assert.Equal(t, []string{"name"}, q.Select.Vars)

	ns := "http://example.org/ns#"
	want := []queryir.TriplePattern{
		{S: queryir.Variable("p"), P: queryir.Bound(rdf.RDFType), O: queryir.Bound(rdf.IRI(ns + "Person"))},
		{S: queryir.Variable("p"), P: queryir.Bound(rdf.IRI(ns + "name")), O: queryir.Variable("name")},
		{S: queryir.Variable("p"), P: queryir.Bound(rdf.IRI(ns + "name")), O: queryir.Bound(rdf.NewLangLiteral("Al", "en"))},
		{S: queryir.Variable("p"), P: queryir.Bound(rdf.IRI("http://default/age")), O: queryir.Bound(rdf.NewTypedLiteral("42", rdf.XSDInteger))},
		{S: queryir.Bound(rdf.IRI("http://example.org/thing")), P: queryir.Bound(rdf.IRI(ns + "flag")), O: queryir.Bound(rdf.NewTypedLiteral("true", rdf.XSDBoolean))},
	}
	require.Len(t, q.Select.Where.Elements, 1)
	bgp, ok := q.Select.Where.Elements[0].(*queryir.BGP)
	require.True(t, ok)
	if diff := cmp.Diff(want, bgp.Patterns); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_FilterOptionalAndModifiers(t *testing.T) {
	q, err := Parse(`PREFIX ex: <http://example.org/>
		SELECT ?s ?age WHERE {
			?s ex:age ?age .
			OPTIONAL { ?s ex:nick ?nick FILTER(lang(?nick) = "en") }
			FILTER (?age >= 18 && !isBlank(?s) || regex(str(?s), "^http", "i"))
		}
		ORDER BY DESC(?age) ?s
		OFFSET 5 LIMIT 10`)
	require.NoError(t, err)

	sel := q.Select
	require.Len(t, sel.Where.Elements, 2)
	opt, ok := sel.Where.Elements[1].(*queryir.Optional)
	require.True(t, ok)
	require.Len(t, opt.Group.Filters, 1)

	require.Len(t, sel.Where.Filters, 1)
	or, ok := sel.Where.Filters[0].(*queryir.Binary)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	and, ok := or.Left.(*queryir.Binary)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)
	call, ok := or.Right.(*queryir.Call)
	require.True(t, ok)
	assert.Equal(t, "REGEX", call.Func)
	assert.Len(t, call.Args, 3)

	require.Len(t, sel.OrderBy, 2)
	assert.True(t, sel.OrderBy[0].Descending)
	assert.False(t, sel.OrderBy[1].Descending)
	assert.Equal(t, 10, sel.Limit)
	assert.Equal(t, 5, sel.Offset)
}

func TestParse_BlankNodesAreHidden(t *testing.T) {
	q, err := Parse(`SELECT * { _:x <http://e/p> ?o . [] <http://e/q> _:x }`)
	require.NoError(t, err)
	assert.Equal(t, []string{"o"}, q.Select.Vars)

	bgp := q.Select.Where.Elements[0].(*queryir.BGP)
	assert.Equal(t, "_b_x", bgp.Patterns[0].S.Var)
	assert.Equal(t, "_anon1", bgp.Patterns[1].S.Var)
	assert.Equal(t, "_b_x", bgp.Patterns[1].O.Var)
}

func TestParse_LessThanIsNotAnIRI(t *testing.T) {
	q, err := Parse(`SELECT ?x { ?x <http://e/v> ?v FILTER(?v<3) }`)
	require.NoError(t, err)
	bin := q.Select.Where.Filters[0].(*queryir.Binary)
	assert.Equal(t, "<", bin.Op)
}

func TestParse_StringEscapes(t *testing.T) {
	q, err := Parse(`SELECT ?s { ?s <http://e/p> "a\"bé\n" . ?s <http://e/q> """multi
line""" }`)
	require.NoError(t, err)
	bgp := q.Select.Where.Elements[0].(*queryir.BGP)
	assert.Equal(t, rdf.NewLiteral("a\"bé\n"), bgp.Patterns[0].O.Term)
	assert.Equal(t, rdf.NewLiteral("multi\nline"), bgp.Patterns[1].O.Term)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", "expected SELECT"},
		{"not a query", "this is not sparql", "expected SELECT"},
		{"no projection", "SELECT WHERE { ?s ?p ?o }", "expected variables"},
		{"undeclared prefix", "SELECT * { ?s foo:bar ?o }", `undeclared prefix "foo"`},
		{"unterminated group", "SELECT * { ?s ?p ?o", "unterminated group"},
		{"unknown function", "SELECT * { ?s ?p ?o FILTER(nope(?s)) }", "unknown function"},
		{"bad arity", "SELECT * { ?s ?p ?o FILTER(contains(?s)) }", "CONTAINS takes 2 arguments"},
		{"literal subject", `SELECT * { "x" ?p ?o }`, "expected term or variable"},
		{"trailing garbage", "SELECT * { ?s ?p ?o } }", "unexpected"},
		{"negative limit", "SELECT * { ?s ?p ?o } LIMIT -1", "non-negative integer"},
		{"unterminated string", `SELECT * { ?s ?p "abc }`, "unterminated string"},
		{"nested group", "SELECT * { { ?s ?p ?o } }", "nested group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseError_Position(t *testing.T) {
	_, err := Parse("SELECT *\nWHERE { ?s ?p }")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}
