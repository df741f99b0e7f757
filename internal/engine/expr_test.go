package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/rdf"
)

func call(fn string, args ...queryir.Expression) *queryir.Call {
	return &queryir.Call{Func: fn, Args: args}
}

func term(t rdf.Term) *queryir.TermExpr { return &queryir.TermExpr{Term: t} }

func vr(name string) *queryir.VarExpr { return &queryir.VarExpr{Name: name} }

func TestFilterExpressions(t *testing.T) {
	mu := binding{
		"iri":   exIRI("thing"),
		"blank": rdf.Blank("b0"),
		"plain": rdf.NewLiteral("Hello World"),
		"en":    rdf.NewLangLiteral("colour", "en"),
		"int":   rdf.NewTypedLiteral("42", rdf.XSDInteger),
		"dec":   rdf.NewTypedLiteral("42.0", rdf.XSDDecimal),
	}

	tests := []struct {
		name string
		expr queryir.Expression
		want bool
	}{
		{"isIRI", call("ISIRI", vr("iri")), true},
		{"isURI on literal", call("ISURI", vr("plain")), false},
		{"isBlank", call("ISBLANK", vr("blank")), true},
		{"isLiteral", call("ISLITERAL", vr("int")), true},
		{"bound", call("BOUND", vr("iri")), true},
		{"not bound", call("BOUND", vr("missing")), false},
		{"numeric equality across datatypes", &queryir.Binary{Op: "=", Left: vr("int"), Right: vr("dec")}, true},
		{"string less than", &queryir.Binary{Op: "<", Left: term(rdf.NewLiteral("a")), Right: term(rdf.NewLiteral("b"))}, true},
		{"str of IRI", &queryir.Binary{Op: "=", Left: call("STR", vr("iri")), Right: term(rdf.NewLiteral(ex + "thing"))}, true},
		{"lang", &queryir.Binary{Op: "=", Left: call("LANG", vr("en")), Right: term(rdf.NewLiteral("en"))}, true},
		{"datatype", &queryir.Binary{Op: "=", Left: call("DATATYPE", vr("int")), Right: term(rdf.XSDInteger)}, true},
		{"datatype of plain", &queryir.Binary{Op: "=", Left: call("DATATYPE", vr("plain")), Right: term(rdf.XSDString)}, true},
		{"regex", call("REGEX", vr("plain"), term(rdf.NewLiteral("^hello")), term(rdf.NewLiteral("i"))), true},
		{"regex case sensitive", call("REGEX", vr("plain"), term(rdf.NewLiteral("^hello"))), false},
		{"contains", call("CONTAINS", vr("plain"), term(rdf.NewLiteral("lo W"))), true},
		{"strstarts", call("STRSTARTS", vr("en"), term(rdf.NewLiteral("col"))), true},
		{"strends", call("STRENDS", vr("plain"), term(rdf.NewLiteral("x"))), false},
		{"or absorbs error", &queryir.Binary{Op: "||", Left: vr("missing"), Right: call("ISIRI", vr("iri"))}, true},
		{"and with false absorbs error", &queryir.Binary{Op: "&&", Left: vr("missing"), Right: call("ISBLANK", vr("iri"))}, false},
		{"not", &queryir.Not{Operand: call("ISBLANK", vr("iri"))}, true},
		{"unbound comparison is false", &queryir.Binary{Op: "=", Left: vr("missing"), Right: vr("int")}, false},
		{"IRI ordering is an error", &queryir.Binary{Op: "<", Left: vr("iri"), Right: vr("iri")}, false},
		{"numeric EBV", vr("int"), true},
		{"empty string EBV", term(rdf.NewLiteral("")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterAll([]queryir.Expression{tt.expr}, mu))
		})
	}
}

func TestEffectiveBool_IRIIsError(t *testing.T) {
	_, err := effectiveBool(exIRI("x"))
	require.Error(t, err)
}

func TestCompileRegex_RejectsUnknownFlag(t *testing.T) {
	_, err := compileRegex("a", "x")
	require.Error(t, err)
}

func TestCompareOrder(t *testing.T) {
	ordered := []rdf.Term{
		nil,
		rdf.Blank("b0"),
		exIRI("a"),
		exIRI("b"),
		rdf.NewTypedLiteral("2", rdf.XSDInteger),
		rdf.NewTypedLiteral("10", rdf.XSDInteger),
	}
	for i := 0; i < len(ordered)-1; i++ {
		assert.Negative(t, compareOrder(ordered[i], ordered[i+1]), "index %d", i)
		assert.Positive(t, compareOrder(ordered[i+1], ordered[i]), "index %d", i)
	}
	assert.Zero(t, compareOrder(nil, nil))
}
