// Package engine executes SELECT queries against a native graph model.
//
// Execution is scoped: Engine.Execute acquires a graph.Reader from the
// model and returns an Execution that owns it. The caller must Close the
// Execution on every exit path; the reader (and for persistent stores the
// underlying SQLite transaction) is held until then.
//
// EVALUATION:
//
// Evaluation is deferred until the first call to Next. A group graph
// pattern is evaluated left to right:
//  1. BGP: index nested-loop join, one Reader.Match per pattern per solution
//  2. OPTIONAL: left join, the optional group is evaluated once per
//     incoming solution with that solution's bindings in scope
//  3. FILTER: every filter of the group is applied to the group's result
//
// Solution modifiers are then applied in SPARQL order: ORDER BY,
// projection, DISTINCT/REDUCED, OFFSET, LIMIT.
//
// DETERMINISM:
//
// Reader.Match returns triples in insertion order, joins preserve the
// order of their left input, and ORDER BY uses a stable sort. The same
// query over the same store therefore always yields the same rows in the
// same order.
//
// ENTAILMENT:
//
// Models created with graph.EntailRDFS are queried through an entailing
// reader that materializes the RDFS closure of the asserted triples when
// the first pattern is matched. Model.Size still reports asserted triples.
package engine
