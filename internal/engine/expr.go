package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/rdf"
)

var (
	litTrue  = rdf.NewTypedLiteral("true", rdf.XSDBoolean)
	litFalse = rdf.NewTypedLiteral("false", rdf.XSDBoolean)
)

func boolTerm(b bool) rdf.Term {
	if b {
		return litTrue
	}
	return litFalse
}

// evalExpr evaluates an expression under mu. An error means the SPARQL
// expression error value, not a failure of the query.
func evalExpr(e queryir.Expression, mu binding) (rdf.Term, error) {
	switch x := e.(type) {
	case *queryir.VarExpr:
		t, ok := mu[x.Name]
		if !ok {
			return nil, typeErrorf("unbound variable ?%s", x.Name)
		}
		return t, nil
	case *queryir.TermExpr:
		return x.Term, nil
	case *queryir.Not:
		v, err := evalExpr(x.Operand, mu)
		if err != nil {
			return nil, err
		}
		b, err := effectiveBool(v)
		if err != nil {
			return nil, err
		}
		return boolTerm(!b), nil
	case *queryir.Binary:
		return evalBinary(x, mu)
	case *queryir.Call:
		return evalCall(x, mu)
	default:
		return nil, typeErrorf("unknown expression: %T", e)
	}
}

func evalBinary(x *queryir.Binary, mu binding) (rdf.Term, error) {
	switch x.Op {
	case "||":
		l, lerr := evalBool(x.Left, mu)
		if lerr == nil && l {
			return litTrue, nil
		}
		r, rerr := evalBool(x.Right, mu)
		if rerr == nil && r {
			return litTrue, nil
		}
		if lerr != nil {
			return nil, lerr
		}
		if rerr != nil {
			return nil, rerr
		}
		return litFalse, nil
	case "&&":
		l, lerr := evalBool(x.Left, mu)
		if lerr == nil && !l {
			return litFalse, nil
		}
		r, rerr := evalBool(x.Right, mu)
		if rerr == nil && !r {
			return litFalse, nil
		}
		if lerr != nil {
			return nil, lerr
		}
		if rerr != nil {
			return nil, rerr
		}
		return litTrue, nil
	}

	l, err := evalExpr(x.Left, mu)
	if err != nil {
		return nil, err
	}
	r, err := evalExpr(x.Right, mu)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case "=":
		eq, err := valueEqual(l, r)
		if err != nil {
			return nil, err
		}
		return boolTerm(eq), nil
	case "!=":
		eq, err := valueEqual(l, r)
		if err != nil {
			return nil, err
		}
		return boolTerm(!eq), nil
	case "<", ">", "<=", ">=":
		c, err := valueCompare(l, r)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case "<":
			return boolTerm(c < 0), nil
		case ">":
			return boolTerm(c > 0), nil
		case "<=":
			return boolTerm(c <= 0), nil
		default:
			return boolTerm(c >= 0), nil
		}
	}
	return nil, typeErrorf("unknown operator %q", x.Op)
}

func evalBool(e queryir.Expression, mu binding) (bool, error) {
	v, err := evalExpr(e, mu)
	if err != nil {
		return false, err
	}
	return effectiveBool(v)
}

// effectiveBool computes the SPARQL effective boolean value.
func effectiveBool(t rdf.Term) (bool, error) {
	lit, ok := t.(rdf.Literal)
	if !ok {
		return false, typeErrorf("no boolean value for %s", t)
	}
	switch {
	case lit.Datatype == rdf.XSDBoolean:
		switch lit.Lexical {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, nil
	case lit.IsNumeric():
		f, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return false, nil
		}
		return f != 0 && !math.IsNaN(f), nil
	case isStringLiteral(lit):
		return lit.Lexical != "", nil
	}
	return false, typeErrorf("no boolean value for %s", t)
}

// isStringLiteral reports whether lit is a simple or language-tagged literal.
func isStringLiteral(lit rdf.Literal) bool {
	return lit.Datatype == "" || lit.Datatype == rdf.XSDString || lit.Datatype == rdf.RDFLangString
}

func numericValue(t rdf.Term) (float64, bool) {
	lit, ok := t.(rdf.Literal)
	if !ok || !lit.IsNumeric() {
		return 0, false
	}
	f, err := strconv.ParseFloat(lit.Lexical, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// valueEqual implements the = operator.
func valueEqual(a, b rdf.Term) (bool, error) {
	if fa, ok := numericValue(a); ok {
		if fb, ok := numericValue(b); ok {
			return fa == fb, nil
		}
	}
	return rdf.TermsEqual(a, b), nil
}

// valueCompare implements the ordering operators. Numbers compare by
// value, string literals and literals of the same datatype by lexical
// form. Anything else is a type error.
func valueCompare(a, b rdf.Term) (int, error) {
	if fa, ok := numericValue(a); ok {
		if fb, ok := numericValue(b); ok {
			return compareFloat(fa, fb), nil
		}
		return 0, typeErrorf("cannot compare %s with %s", a, b)
	}
	la, aok := a.(rdf.Literal)
	lb, bok := b.(rdf.Literal)
	if !aok || !bok {
		return 0, typeErrorf("cannot compare %s with %s", a, b)
	}
	if isStringLiteral(la) && isStringLiteral(lb) && la.Lang == lb.Lang {
		return strings.Compare(la.Lexical, lb.Lexical), nil
	}
	if la.Datatype == lb.Datatype {
		return strings.Compare(la.Lexical, lb.Lexical), nil
	}
	return 0, typeErrorf("cannot compare %s with %s", a, b)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func evalCall(c *queryir.Call, mu binding) (rdf.Term, error) {
	if c.Func == "BOUND" {
		v, ok := c.Args[0].(*queryir.VarExpr)
		if !ok {
			return nil, typeErrorf("BOUND needs a variable")
		}
		_, bound := mu[v.Name]
		return boolTerm(bound), nil
	}

	args := make([]rdf.Term, len(c.Args))
	for i, a := range c.Args {
		v, err := evalExpr(a, mu)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch c.Func {
	case "ISIRI", "ISURI":
		return boolTerm(args[0].Kind() == rdf.KindIRI), nil
	case "ISBLANK":
		return boolTerm(args[0].Kind() == rdf.KindBlank), nil
	case "ISLITERAL":
		return boolTerm(args[0].Kind() == rdf.KindLiteral), nil
	case "STR":
		switch t := args[0].(type) {
		case rdf.IRI:
			return rdf.NewLiteral(string(t)), nil
		case rdf.Literal:
			return rdf.NewLiteral(t.Lexical), nil
		}
		return nil, typeErrorf("STR of blank node")
	case "LANG":
		lit, ok := args[0].(rdf.Literal)
		if !ok {
			return nil, typeErrorf("LANG of non-literal")
		}
		return rdf.NewLiteral(lit.Lang), nil
	case "DATATYPE":
		lit, ok := args[0].(rdf.Literal)
		if !ok {
			return nil, typeErrorf("DATATYPE of non-literal")
		}
		switch {
		case lit.Lang != "":
			return rdf.RDFLangString, nil
		case lit.Datatype == "":
			return rdf.XSDString, nil
		}
		return lit.Datatype, nil
	case "REGEX":
		text, err := stringArg(args[0])
		if err != nil {
			return nil, err
		}
		pattern, err := stringArg(args[1])
		if err != nil {
			return nil, err
		}
		flags := ""
		if len(args) == 3 {
			if flags, err = stringArg(args[2]); err != nil {
				return nil, err
			}
		}
		re, err := compileRegex(pattern, flags)
		if err != nil {
			return nil, err
		}
		return boolTerm(re.MatchString(text)), nil
	case "CONTAINS", "STRSTARTS", "STRENDS":
		s, err := stringArg(args[0])
		if err != nil {
			return nil, err
		}
		sub, err := stringArg(args[1])
		if err != nil {
			return nil, err
		}
		switch c.Func {
		case "CONTAINS":
			return boolTerm(strings.Contains(s, sub)), nil
		case "STRSTARTS":
			return boolTerm(strings.HasPrefix(s, sub)), nil
		default:
			return boolTerm(strings.HasSuffix(s, sub)), nil
		}
	}
	return nil, typeErrorf("unknown function %s", c.Func)
}

func stringArg(t rdf.Term) (string, error) {
	lit, ok := t.(rdf.Literal)
	if !ok || !isStringLiteral(lit) {
		return "", typeErrorf("%s is not a string literal", t)
	}
	return lit.Lexical, nil
}

// compileRegex maps XPath regex flags onto RE2 flags. The x flag has no
// RE2 equivalent and is rejected.
func compileRegex(pattern, flags string) (*regexp.Regexp, error) {
	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 's', 'm':
			prefix.WriteRune(f)
		default:
			return nil, typeErrorf("unsupported regex flag %q", f)
		}
	}
	if prefix.Len() > 0 {
		pattern = "(?" + prefix.String() + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, typeErrorf("invalid regex: %v", err)
	}
	return re, nil
}

// compareOrder orders terms for ORDER BY:
// unbound < blank nodes < IRIs < literals.
func compareOrder(a, b rdf.Term) int {
	ra, rb := orderRank(a), orderRank(b)
	if ra != rb {
		return ra - rb
	}
	if a == nil {
		return 0
	}
	if ra == 3 {
		if c, err := valueCompare(a, b); err == nil {
			return c
		}
	}
	return strings.Compare(a.String(), b.String())
}

func orderRank(t rdf.Term) int {
	if t == nil {
		return 0
	}
	switch t.Kind() {
	case rdf.KindBlank:
		return 1
	case rdf.KindIRI:
		return 2
	}
	return 3
}
