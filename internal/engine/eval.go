package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/rdf"
)

// binding maps variable names to terms. Unbound variables are absent.
type binding map[string]rdf.Term

func (b binding) extend(name string, t rdf.Term) binding {
	out := make(binding, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	out[name] = t
	return out
}

// evaluate runs the WHERE clause and applies the solution modifiers.
func evaluate(ctx context.Context, r graph.Reader, q *queryir.Select, vars []string) ([]binding, error) {
	sols, err := evalGroup(ctx, r, q.Where, []binding{{}})
	if err != nil {
		return nil, err
	}

	if len(q.OrderBy) > 0 {
		orderSolutions(sols, q.OrderBy)
	}

	sols = project(sols, vars)

	if q.Distinct || q.Reduced {
		sols = distinct(sols, vars)
	}

	return slice(sols, q.Offset, q.Limit), nil
}

// evalGroup evaluates a group graph pattern against each input solution.
func evalGroup(ctx context.Context, r graph.Reader, g queryir.Group, input []binding) ([]binding, error) {
	sols := input
	for _, el := range g.Elements {
		var err error
		switch e := el.(type) {
		case *queryir.BGP:
			sols, err = evalBGP(ctx, r, e.Patterns, sols)
		case queryir.BGP:
			sols, err = evalBGP(ctx, r, e.Patterns, sols)
		case *queryir.Optional:
			sols, err = evalOptional(ctx, r, e.Group, sols)
		case queryir.Optional:
			sols, err = evalOptional(ctx, r, e.Group, sols)
		default:
			err = newUnsupportedError("unknown group element: %T", el)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(g.Filters) == 0 {
		return sols, nil
	}
	out := sols[:0:0]
	for _, mu := range sols {
		if filterAll(g.Filters, mu) {
			out = append(out, mu)
		}
	}
	return out, nil
}

// evalOptional left-joins each solution with the optional group. The
// group's filters see the solution's bindings.
func evalOptional(ctx context.Context, r graph.Reader, g queryir.Group, input []binding) ([]binding, error) {
	var out []binding
	for _, mu := range input {
		ext, err := evalGroup(ctx, r, g, []binding{mu})
		if err != nil {
			return nil, err
		}
		if len(ext) == 0 {
			out = append(out, mu)
			continue
		}
		out = append(out, ext...)
	}
	return out, nil
}

func evalBGP(ctx context.Context, r graph.Reader, patterns []queryir.TriplePattern, input []binding) ([]binding, error) {
	sols := input
	for _, tp := range patterns {
		var next []binding
		for _, mu := range sols {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			matches, err := matchPattern(ctx, r, tp, mu)
			if err != nil {
				return nil, err
			}
			next = append(next, matches...)
		}
		sols = next
		if len(sols) == 0 {
			break
		}
	}
	return sols, nil
}

// matchPattern substitutes mu into tp, asks the reader for candidate
// triples, and extends mu with each consistent match.
func matchPattern(ctx context.Context, r graph.Reader, tp queryir.TriplePattern, mu binding) ([]binding, error) {
	nodes := tp.Nodes()
	var lookup [3]rdf.Term
	for i, n := range nodes {
		switch {
		case n.IsVar():
			lookup[i] = mu[n.Var]
		case n.Term != nil:
			lookup[i] = n.Term
		default:
			return nil, newUnsupportedError("triple pattern position %d is neither variable nor term", i)
		}
	}
	// Only IRIs can be predicates.
	if lookup[1] != nil && lookup[1].Kind() != rdf.KindIRI {
		return nil, nil
	}

	triples, err := r.Match(ctx, lookup[0], lookup[1], lookup[2])
	if err != nil {
		return nil, fmt.Errorf("match pattern: %w", err)
	}

	var out []binding
	for _, t := range triples {
		terms := [3]rdf.Term{t.S, t.P, t.O}
		ext := mu
		ok := true
		for i, n := range nodes {
			if !n.IsVar() {
				continue
			}
			if cur, bound := ext[n.Var]; bound {
				if !rdf.TermsEqual(cur, terms[i]) {
					ok = false
					break
				}
				continue
			}
			ext = ext.extend(n.Var, terms[i])
		}
		if ok {
			out = append(out, ext)
		}
	}
	return out, nil
}

func filterAll(filters []queryir.Expression, mu binding) bool {
	for _, f := range filters {
		v, err := evalExpr(f, mu)
		if err != nil {
			return false
		}
		ok, err := effectiveBool(v)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func orderSolutions(sols []binding, keys []queryir.OrderKey) {
	sort.SliceStable(sols, func(i, j int) bool {
		for _, k := range keys {
			a, _ := evalExpr(k.Expr, sols[i])
			b, _ := evalExpr(k.Expr, sols[j])
			c := compareOrder(a, b)
			if c == 0 {
				continue
			}
			if k.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// project keeps only the listed variables. Hidden variables generated for
// blank nodes are never projected.
func project(sols []binding, vars []string) []binding {
	out := make([]binding, len(sols))
	for i, mu := range sols {
		p := make(binding, len(vars))
		for _, v := range vars {
			if t, ok := mu[v]; ok {
				p[v] = t
			}
		}
		out[i] = p
	}
	return out
}

func distinct(sols []binding, vars []string) []binding {
	seen := make(map[string]bool, len(sols))
	out := sols[:0:0]
	for _, mu := range sols {
		var sb strings.Builder
		for _, v := range vars {
			if t, ok := mu[v]; ok {
				sb.WriteString(t.String())
			}
			sb.WriteByte(0)
		}
		key := sb.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, mu)
	}
	return out
}

func slice(sols []binding, offset, limit int) []binding {
	if offset > 0 {
		if offset >= len(sols) {
			return nil
		}
		sols = sols[offset:]
	}
	if limit >= 0 && limit < len(sols) {
		sols = sols[:limit]
	}
	return sols
}
