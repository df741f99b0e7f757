// Package sparql parses the SELECT subset of SPARQL 1.1 into queryir.
//
// Supported:
//
//	PREFIX / BASE prologue
//	SELECT [DISTINCT | REDUCED] (?v ... | *) [WHERE] { ... }
//	triple blocks with ; , and a, blank nodes as _:label or []
//	FILTER (expr) and FILTER builtin(...)
//	OPTIONAL { ... }
//	ORDER BY, LIMIT, OFFSET in any order
//
// Blank nodes in patterns become hidden variables (leading "_") that are
// never projected, including by SELECT *.
package sparql
