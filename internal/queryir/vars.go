package queryir

// GroupVariables returns the variables bound by a group in order of first
// appearance. Variables named with a leading "_" are generated for blank
// nodes in patterns and are never listed.
func GroupVariables(g Group) []string {
	seen := make(map[string]bool)
	var out []string
	collectGroupVars(g, seen, &out)
	return out
}

func collectGroupVars(g Group, seen map[string]bool, out *[]string) {
	for _, el := range g.Elements {
		switch e := el.(type) {
		case *BGP:
			for _, tp := range e.Patterns {
				for _, n := range tp.Nodes() {
					if n.IsVar() && !IsHidden(n.Var) && !seen[n.Var] {
						seen[n.Var] = true
						*out = append(*out, n.Var)
					}
				}
			}
		case *Optional:
			collectGroupVars(e.Group, seen, out)
		}
	}
}

// ExpressionVariables returns the variables referenced by an expression.
func ExpressionVariables(e Expression) []string {
	var out []string
	var walk func(Expression)
	walk = func(e Expression) {
		switch x := e.(type) {
		case *VarExpr:
			out = append(out, x.Name)
		case *Binary:
			walk(x.Left)
			walk(x.Right)
		case *Not:
			walk(x.Operand)
		case *Call:
			for _, a := range x.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}

// IsHidden reports whether a variable was generated for a blank node.
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '_'
}
