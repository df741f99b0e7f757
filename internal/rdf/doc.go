// Package rdf provides the RDF term and triple model used across rdfkit.
//
// This package contains value types only. All other internal packages
// import rdf; rdf imports nothing internal. This keeps the term model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Term is a sealed interface: IRI, Blank and Literal only
//   - Lexical forms and IRIs are NFC normalized before they reach a store
//   - Term identity is the N-Triples rendering (Term.String)
//   - Triple identity is a domain-separated SHA-256 of the N-Triples line
package rdf
