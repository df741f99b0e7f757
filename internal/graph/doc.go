// Package graph defines the GraphStore abstraction and its variants.
//
// A Store is one of:
//   - EphemeralStore: an in-memory Model, optionally ontology-aware
//   - PersistentStore: a Model bound to a directory (see internal/store)
//   - EndpointStore: a handle naming a remote SPARQL endpoint
//
// Operations that need to read or write triples ask the store for its
// native Model through Store.Native. Variants without one return
// ErrNoNativeModel; callers translate that into a BACKEND_MISMATCH Error
// instead of degrading silently.
//
// Reading goes through a Reader obtained from Model.Begin. A Reader is a
// scoped handle (a snapshot or a read transaction) and must be closed on
// every exit path.
package graph
