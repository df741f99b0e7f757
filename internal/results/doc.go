// Package results turns query solutions into string tables.
//
// A Table has a fixed column header (the projected variable names, or the
// variables declared by a result document) and one row per solution in
// solution order. Cells are rendered by Cell: IRIs are compacted through
// the query's prefix mapping, literals render as their lexical form, blank
// nodes as _:label, and unbound variables as the empty string.
//
// Result documents in the SPARQL Query Results XML and JSON formats are
// parsed into a Document, which replays its solutions through the same
// conversion as a live execution.
package results
