package queryir

import (
	"github.com/roach88/rdfkit/internal/rdf"
)

// Query represents an abstract query.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Element is one member of a group graph pattern.
//
// This is a sealed interface - only types in this package implement it.
type Element interface {
	elementNode()
}

// Expression is a FILTER or ORDER BY expression.
//
// This is a sealed interface - only types in this package implement it.
type Expression interface {
	exprNode()
}

// Select is a SELECT query.
//
// Semantics:
//
//	SELECT [DISTINCT] <Vars> WHERE <Where> ORDER BY <OrderBy> LIMIT <Limit> OFFSET <Offset>
//
// When Star is set, Vars holds every in-scope variable in order of first
// appearance in Where, which is how SELECT * columns are ordered.
type Select struct {
	Distinct bool
	Reduced  bool
	Star     bool
	Vars     []string
	Where    Group
	OrderBy  []OrderKey
	Limit    int // negative means no limit
	Offset   int
}

func (Select) queryNode() {}

// Group is a group graph pattern: elements evaluated left to right, then
// filtered by every expression in Filters.
type Group struct {
	Elements []Element
	Filters  []Expression
}

// BGP is a basic graph pattern: an inner join of triple patterns.
type BGP struct {
	Patterns []TriplePattern
}

func (BGP) elementNode() {}

// Optional is a left join of the enclosing solutions with Group.
type Optional struct {
	Group Group
}

func (Optional) elementNode() {}

// Node is one position of a triple pattern: a variable or a concrete term.
// Exactly one of Var and Term is set.
type Node struct {
	Var  string
	Term rdf.Term
}

// Variable creates a variable node.
func Variable(name string) Node { return Node{Var: name} }

// Bound creates a concrete term node.
func Bound(t rdf.Term) Node { return Node{Term: t} }

// IsVar reports whether the node is a variable.
func (n Node) IsVar() bool { return n.Var != "" }

// TriplePattern is a triple whose positions may be variables.
type TriplePattern struct {
	S, P, O Node
}

// Nodes returns the three positions in subject, predicate, object order.
func (tp TriplePattern) Nodes() [3]Node {
	return [3]Node{tp.S, tp.P, tp.O}
}

// OrderKey is one ORDER BY condition.
type OrderKey struct {
	Expr       Expression
	Descending bool
}

// VarExpr references a variable.
type VarExpr struct {
	Name string
}

func (VarExpr) exprNode() {}

// TermExpr is a constant term.
type TermExpr struct {
	Term rdf.Term
}

func (TermExpr) exprNode() {}

// Binary applies an infix operator.
// Op is one of: || && = != < > <= >=
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
}

func (Binary) exprNode() {}

// Not negates its operand.
type Not struct {
	Operand Expression
}

func (Not) exprNode() {}

// Call invokes a built-in function. Func is upper-cased.
type Call struct {
	Func string
	Args []Expression
}

func (Call) exprNode() {}

// Builtins lists the supported functions and their arity range.
var Builtins = map[string][2]int{
	"BOUND":     {1, 1},
	"ISIRI":     {1, 1},
	"ISURI":     {1, 1},
	"ISBLANK":   {1, 1},
	"ISLITERAL": {1, 1},
	"STR":       {1, 1},
	"LANG":      {1, 1},
	"DATATYPE":  {1, 1},
	"REGEX":     {2, 3},
	"CONTAINS":  {2, 2},
	"STRSTARTS": {2, 2},
	"STRENDS":   {2, 2},
}
