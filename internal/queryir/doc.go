// Package queryir provides the query algebra executed by rdfkit stores.
//
// QueryIR is the boundary between the SPARQL text parser (internal/sparql)
// and the execution engine (internal/engine). Stores never see query text,
// only this algebra.
//
// ARCHITECTURE:
//
//	[SPARQL text] → [sparql.Parse] → [Query IR] → [engine] → [graph.Reader.Match]
//	                                                       → [querysql] (persistent stores)
//
// SUPPORTED FRAGMENT:
//
//   - Select with projection, DISTINCT / REDUCED, ORDER BY, LIMIT, OFFSET
//   - Group graph patterns made of basic graph patterns (BGP) and OPTIONAL
//   - FILTER expressions scoped to their group
//
// EXCLUDED:
//   - UNION, MINUS, property paths, sub-queries
//   - Aggregation (GROUP BY, COUNT, ...)
//   - CONSTRUCT / DESCRIBE / ASK forms
//   - Named graphs (GRAPH, FROM NAMED)
//
// SEALED INTERFACES:
//
// Query, Element and Expression are sealed interfaces using the marker
// method pattern. Only types in this package implement them, which keeps
// type switches in the engine exhaustive.
//
//	switch e := elem.(type) {
//	case *BGP:
//	    // join triple patterns
//	case *Optional:
//	    // left join
//	}
package queryir
