package sparql

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/rdf"
)

// Query is a parsed query together with its prologue.
type Query struct {
	// Select is the query algebra.
	Select *queryir.Select

	// Prefixes holds the PREFIX declarations in effect. Never nil.
	Prefixes rdf.PrefixMapping

	// Base is the BASE IRI, or "" if none was declared.
	Base string
}

// Parse parses query text. Errors are *ParseError.
func Parse(text string) (*Query, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, prefixes: rdf.PrefixMapping{}}
	sel, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return &Query{Select: sel, Prefixes: p.prefixes, Base: p.base}, nil
}

type parser struct {
	toks     []token
	pos      int
	prefixes rdf.PrefixMapping
	base     string
	anon     int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &ParseError{Line: t.line, Column: t.col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) isKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

func (p *parser) acceptPunct(s string) bool {
	if p.isPunct(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) error {
	if !p.acceptPunct(s) {
		return p.errorf(p.peek(), "expected %q, found %s", s, p.peek())
	}
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		return p.errorf(p.peek(), "expected %s, found %s", kw, p.peek())
	}
	return nil
}

func (p *parser) parseQuery() (*queryir.Select, error) {
	if err := p.parsePrologue(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	sel := &queryir.Select{Limit: -1}
	switch {
	case p.acceptKeyword("DISTINCT"):
		sel.Distinct = true
	case p.acceptKeyword("REDUCED"):
		sel.Reduced = true
	}

	if p.acceptPunct("*") {
		sel.Star = true
	} else {
		for p.peek().kind == tokVar {
			sel.Vars = append(sel.Vars, p.next().text)
		}
		if len(sel.Vars) == 0 {
			return nil, p.errorf(p.peek(), "expected variables or '*' after SELECT, found %s", p.peek())
		}
	}

	p.acceptKeyword("WHERE")
	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	sel.Where = where
	if sel.Star {
		sel.Vars = queryir.GroupVariables(where)
	}

	if err := p.parseModifiers(sel); err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s after query", t)
	}
	return sel, nil
}

func (p *parser) parsePrologue() error {
	for {
		switch {
		case p.acceptKeyword("BASE"):
			t := p.next()
			if t.kind != tokIRI {
				return p.errorf(t, "expected IRI after BASE, found %s", t)
			}
			p.base = p.resolve(t.text)
		case p.acceptKeyword("PREFIX"):
			t := p.next()
			if t.kind != tokPName || !strings.HasSuffix(t.text, ":") || strings.Count(t.text, ":") != 1 {
				return p.errorf(t, "expected prefix name after PREFIX, found %s", t)
			}
			iri := p.next()
			if iri.kind != tokIRI {
				return p.errorf(iri, "expected IRI after PREFIX %s, found %s", t.text, iri)
			}
			p.prefixes.Set(strings.TrimSuffix(t.text, ":"), p.resolve(iri.text))
		default:
			return nil
		}
	}
}

// resolve resolves a relative IRI reference against BASE.
func (p *parser) resolve(ref string) string {
	if p.base == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	b, err := url.Parse(p.base)
	if err != nil {
		return ref
	}
	resolved := b.ResolveReference(r).String()
	// net/url drops an empty fragment; namespace IRIs often end in '#'.
	if strings.HasSuffix(ref, "#") && !strings.HasSuffix(resolved, "#") {
		resolved += "#"
	}
	return resolved
}

func (p *parser) parseGroup() (queryir.Group, error) {
	var g queryir.Group
	if err := p.expectPunct("{"); err != nil {
		return g, err
	}
	var current *queryir.BGP
	for {
		t := p.peek()
		switch {
		case p.acceptPunct("}"):
			return g, nil
		case t.kind == tokEOF:
			return g, p.errorf(t, "unterminated group, expected '}'")
		case p.acceptPunct("."):
		case p.acceptKeyword("FILTER"):
			expr, err := p.parseConstraint()
			if err != nil {
				return g, err
			}
			g.Filters = append(g.Filters, expr)
		case p.acceptKeyword("OPTIONAL"):
			inner, err := p.parseGroup()
			if err != nil {
				return g, err
			}
			g.Elements = append(g.Elements, &queryir.Optional{Group: inner})
			current = nil
		case p.isPunct("{"):
			return g, p.errorf(t, "nested group patterns are not supported")
		default:
			if current == nil {
				current = &queryir.BGP{}
				g.Elements = append(g.Elements, current)
			}
			patterns, err := p.parseTriplesSameSubject()
			if err != nil {
				return g, err
			}
			current.Patterns = append(current.Patterns, patterns...)
		}
	}
}

func (p *parser) parseTriplesSameSubject() ([]queryir.TriplePattern, error) {
	subj, err := p.parseNode(false)
	if err != nil {
		return nil, err
	}
	var out []queryir.TriplePattern
	for {
		verb, err := p.parseVerb()
		if err != nil {
			return nil, err
		}
		for {
			obj, err := p.parseNode(true)
			if err != nil {
				return nil, err
			}
			out = append(out, queryir.TriplePattern{S: subj, P: verb, O: obj})
			if !p.acceptPunct(",") {
				break
			}
		}
		if !p.acceptPunct(";") {
			return out, nil
		}
		// A trailing ';' before '.', '}' or a keyword is allowed.
		for p.acceptPunct(";") {
		}
		if t := p.peek(); t.kind != tokVar && t.kind != tokIRI && t.kind != tokPName && !(t.kind == tokWord && t.text == "a") {
			return out, nil
		}
	}
}

func (p *parser) parseVerb() (queryir.Node, error) {
	t := p.peek()
	switch {
	case t.kind == tokWord && t.text == "a":
		p.next()
		return queryir.Bound(rdf.RDFType), nil
	case t.kind == tokVar:
		p.next()
		return queryir.Variable(t.text), nil
	case t.kind == tokIRI || t.kind == tokPName:
		iri, err := p.parseIRI()
		if err != nil {
			return queryir.Node{}, err
		}
		return queryir.Bound(iri), nil
	}
	return queryir.Node{}, p.errorf(t, "expected predicate, found %s", t)
}

// parseNode parses a subject or object position.
func (p *parser) parseNode(allowLiteral bool) (queryir.Node, error) {
	t := p.peek()
	switch t.kind {
	case tokVar:
		p.next()
		return queryir.Variable(t.text), nil
	case tokBlank:
		p.next()
		return queryir.Variable("_b_" + t.text), nil
	case tokIRI, tokPName:
		iri, err := p.parseIRI()
		if err != nil {
			return queryir.Node{}, err
		}
		return queryir.Bound(iri), nil
	case tokPunct:
		if t.text == "[" {
			p.next()
			if err := p.expectPunct("]"); err != nil {
				return queryir.Node{}, err
			}
			p.anon++
			return queryir.Variable(fmt.Sprintf("_anon%d", p.anon)), nil
		}
	}
	if allowLiteral {
		lit, ok, err := p.parseLiteral()
		if err != nil {
			return queryir.Node{}, err
		}
		if ok {
			return queryir.Bound(lit), nil
		}
	}
	return queryir.Node{}, p.errorf(t, "expected term or variable, found %s", t)
}

func (p *parser) parseIRI() (rdf.IRI, error) {
	t := p.next()
	switch t.kind {
	case tokIRI:
		return rdf.IRI(p.resolve(t.text)), nil
	case tokPName:
		iri, ok := p.prefixes.Expand(t.text)
		if !ok {
			prefix, _, _ := strings.Cut(t.text, ":")
			return "", p.errorf(t, "undeclared prefix %q", prefix)
		}
		return iri, nil
	}
	return "", p.errorf(t, "expected IRI, found %s", t)
}

// parseLiteral parses a literal if one starts at the current token.
func (p *parser) parseLiteral() (rdf.Literal, bool, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.next()
		if lang := p.peek(); lang.kind == tokLang {
			p.next()
			return rdf.NewLangLiteral(t.text, lang.text), true, nil
		}
		if p.acceptPunct("^^") {
			dt, err := p.parseIRI()
			if err != nil {
				return rdf.Literal{}, false, err
			}
			return rdf.NewTypedLiteral(t.text, dt), true, nil
		}
		return rdf.NewLiteral(t.text), true, nil
	case tokInteger:
		p.next()
		return rdf.NewTypedLiteral(strings.TrimPrefix(t.text, "+"), rdf.XSDInteger), true, nil
	case tokDecimal:
		p.next()
		return rdf.NewTypedLiteral(strings.TrimPrefix(t.text, "+"), rdf.XSDDecimal), true, nil
	case tokDouble:
		p.next()
		return rdf.NewTypedLiteral(strings.TrimPrefix(t.text, "+"), rdf.XSDDouble), true, nil
	case tokWord:
		if strings.EqualFold(t.text, "true") || strings.EqualFold(t.text, "false") {
			p.next()
			return rdf.NewTypedLiteral(strings.ToLower(t.text), rdf.XSDBoolean), true, nil
		}
	}
	return rdf.Literal{}, false, nil
}

func (p *parser) parseConstraint() (queryir.Expression, error) {
	if p.isPunct("(") {
		return p.parseBracketted()
	}
	if t := p.peek(); t.kind == tokWord {
		return p.parseCall()
	}
	return nil, p.errorf(p.peek(), "expected '(' or function call after FILTER, found %s", p.peek())
}

func (p *parser) parseBracketted() (queryir.Expression, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) parseOr() (queryir.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptPunct("||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &queryir.Binary{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (queryir.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.acceptPunct("&&") {
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &queryir.Binary{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseRelational() (queryir.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for _, op := range []string{"=", "!=", "<", ">", "<=", ">="} {
		if p.acceptPunct(op) {
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &queryir.Binary{Op: op, Left: left, Right: right}, nil
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (queryir.Expression, error) {
	if p.acceptPunct("!") {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &queryir.Not{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (queryir.Expression, error) {
	t := p.peek()
	switch t.kind {
	case tokPunct:
		if t.text == "(" {
			return p.parseBracketted()
		}
	case tokVar:
		p.next()
		return &queryir.VarExpr{Name: t.text}, nil
	case tokIRI, tokPName:
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return &queryir.TermExpr{Term: iri}, nil
	case tokWord:
		if !strings.EqualFold(t.text, "true") && !strings.EqualFold(t.text, "false") {
			return p.parseCall()
		}
	}
	lit, ok, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.errorf(t, "expected expression, found %s", t)
	}
	return &queryir.TermExpr{Term: lit}, nil
}

func (p *parser) parseCall() (queryir.Expression, error) {
	t := p.next()
	name := strings.ToUpper(t.text)
	arity, ok := queryir.Builtins[name]
	if !ok {
		return nil, p.errorf(t, "unknown function %s", t.text)
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []queryir.Expression
	if !p.isPunct(")") {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.acceptPunct(",") {
				break
			}
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if len(args) < arity[0] || len(args) > arity[1] {
		return nil, p.errorf(t, "%s takes %s, got %d", name, arityText(arity), len(args))
	}
	if name == "BOUND" {
		if _, ok := args[0].(*queryir.VarExpr); !ok {
			return nil, p.errorf(t, "BOUND needs a variable argument")
		}
	}
	return &queryir.Call{Func: name, Args: args}, nil
}

func arityText(a [2]int) string {
	if a[0] == a[1] {
		if a[0] == 1 {
			return "1 argument"
		}
		return fmt.Sprintf("%d arguments", a[0])
	}
	return fmt.Sprintf("%d to %d arguments", a[0], a[1])
}

func (p *parser) parseModifiers(sel *queryir.Select) error {
	if p.acceptKeyword("ORDER") {
		if err := p.expectKeyword("BY"); err != nil {
			return err
		}
		for {
			key, ok, err := p.parseOrderKey()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			sel.OrderBy = append(sel.OrderBy, key)
		}
		if len(sel.OrderBy) == 0 {
			return p.errorf(p.peek(), "expected ORDER BY condition, found %s", p.peek())
		}
	}

	seenLimit, seenOffset := false, false
	for {
		switch {
		case !seenLimit && p.acceptKeyword("LIMIT"):
			n, err := p.parseCount("LIMIT")
			if err != nil {
				return err
			}
			sel.Limit = n
			seenLimit = true
		case !seenOffset && p.acceptKeyword("OFFSET"):
			n, err := p.parseCount("OFFSET")
			if err != nil {
				return err
			}
			sel.Offset = n
			seenOffset = true
		default:
			return nil
		}
	}
}

func (p *parser) parseOrderKey() (queryir.OrderKey, bool, error) {
	t := p.peek()
	switch {
	case p.isKeyword("ASC") || p.isKeyword("DESC"):
		desc := strings.EqualFold(p.next().text, "DESC")
		e, err := p.parseBracketted()
		if err != nil {
			return queryir.OrderKey{}, false, err
		}
		return queryir.OrderKey{Expr: e, Descending: desc}, true, nil
	case t.kind == tokVar:
		p.next()
		return queryir.OrderKey{Expr: &queryir.VarExpr{Name: t.text}}, true, nil
	case p.isPunct("("):
		e, err := p.parseBracketted()
		if err != nil {
			return queryir.OrderKey{}, false, err
		}
		return queryir.OrderKey{Expr: e}, true, nil
	case t.kind == tokWord && !p.isKeyword("LIMIT") && !p.isKeyword("OFFSET"):
		e, err := p.parseCall()
		if err != nil {
			return queryir.OrderKey{}, false, err
		}
		return queryir.OrderKey{Expr: e}, true, nil
	}
	return queryir.OrderKey{}, false, nil
}

func (p *parser) parseCount(kw string) (int, error) {
	t := p.next()
	if t.kind != tokInteger || strings.HasPrefix(t.text, "-") {
		return 0, p.errorf(t, "expected non-negative integer after %s, found %s", kw, t)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(t.text, "+"))
	if err != nil {
		return 0, p.errorf(t, "invalid %s: %v", kw, err)
	}
	return n, nil
}
