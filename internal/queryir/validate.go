package queryir

import (
	"fmt"
)

// ValidationResult contains the static analysis of a query.
//
// Warnings never prevent execution. They flag queries that are legal but
// probably not what the author meant.
type ValidationResult struct {
	// Clean is true when no warnings were raised.
	Clean bool

	// Warnings lists the findings in traversal order.
	Warnings []string
}

// Validate analyses a query without executing it.
//
// Checks:
//  1. Projected variables must be bound somewhere in WHERE
//  2. FILTER and ORDER BY variables must be bound somewhere in WHERE
//  3. Triple patterns in a BGP should share a variable with an earlier
//     pattern, otherwise the join is a cross product
//  4. An empty WHERE clause yields a single empty solution
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Clean:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

type validator struct {
	warnings []string
	bound    map[string]bool
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addWarning("nil query")
		return
	}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addWarning("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	v.bound = make(map[string]bool)
	for _, name := range GroupVariables(sel.Where) {
		v.bound[name] = true
	}

	if len(sel.Where.Elements) == 0 {
		v.addWarning("empty WHERE clause matches a single empty solution")
	}

	for _, name := range sel.Vars {
		if !v.bound[name] {
			v.addWarning("projected variable ?%s is never bound", name)
		}
	}

	v.validateGroup(sel.Where)

	for _, key := range sel.OrderBy {
		v.checkExpression("ORDER BY", key.Expr)
	}
}

func (v *validator) validateGroup(g Group) {
	for _, el := range g.Elements {
		switch e := el.(type) {
		case *BGP:
			v.validateBGP(*e)
		case *Optional:
			v.validateGroup(e.Group)
		default:
			v.addWarning("unknown group element: %T", el)
		}
	}
	for _, f := range g.Filters {
		v.checkExpression("FILTER", f)
	}
}

func (v *validator) validateBGP(bgp BGP) {
	seen := make(map[string]bool)
	for i, tp := range bgp.Patterns {
		vars := patternVars(tp)
		if i > 0 && len(vars) > 0 {
			shared := false
			for _, name := range vars {
				if seen[name] {
					shared = true
					break
				}
			}
			if !shared {
				v.addWarning("triple pattern %d shares no variable with earlier patterns (cross product)", i+1)
			}
		}
		for _, name := range vars {
			seen[name] = true
		}
	}
}

func (v *validator) checkExpression(clause string, e Expression) {
	for _, name := range ExpressionVariables(e) {
		if !v.bound[name] {
			v.addWarning("%s references ?%s which is never bound", clause, name)
		}
	}
}

func patternVars(tp TriplePattern) []string {
	var out []string
	for _, n := range tp.Nodes() {
		if n.IsVar() {
			out = append(out, n.Var)
		}
	}
	return out
}
