// Package manager is the rdfkit facade: it creates stores, imports
// documents into them, runs queries locally or against remote endpoints,
// shapes solutions into result tables and serializes store content.
//
// Operations that need a store's native graph model fail with a
// BACKEND_MISMATCH *graph.Error when given a store without one. Every
// query execution handle, local or remote, is closed before the operation
// returns.
//
// The manager never closes the stores it creates; callers own them.
package manager
