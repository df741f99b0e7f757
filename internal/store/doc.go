// Package store provides the SQLite-backed native graph model used by
// persistent graph stores.
//
// The store keeps:
//   - Triples: one row per distinct triple, keyed by its content hash
//   - Namespaces: prefix declarations remembered from imported documents
//
// # Critical Patterns
//
// Set semantics
//   - id TEXT UNIQUE holds rdf.TripleID; inserts use ON CONFLICT DO NOTHING
//
// Insertion order
//   - seq INTEGER PRIMARY KEY AUTOINCREMENT records arrival order
//   - Every match query ends with ORDER BY seq ASC, id COLLATE BINARY ASC
//
// Scoped reads
//   - Begin opens a transaction; the returned Reader rolls it back on Close
//   - The pool is limited to one connection, so an unclosed Reader blocks
//     every other operation on the store
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
