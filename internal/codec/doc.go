// Package codec reads and writes RDF documents.
//
// Import formats are named by the exact strings "RDF/XML" (the default),
// "N-TRIPLE", "TURTLE" and "N3". N3 documents are read with the Turtle
// grammar. Export formats are "TURTLE" and "N3"; both produce Turtle text.
//
// Parsing is delegated to github.com/knakk/rdf. The importer normalizes
// every term to NFC, relabels blank nodes with fresh labels per import,
// commits triples to the model in batches, and remembers the prefix
// declarations it saw so the writer can use them.
package codec
