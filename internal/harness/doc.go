// Package harness runs rdfkit conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: import_and_query
//	description: "Import one triple and select it back"
//	store: ephemeral            # ephemeral | ontology | persistent
//	setup:
//	  - action: import
//	    args: { file: data/people.ttl, format: TURTLE }
//	flow:
//	  - invoke: import
//	    args: { content: "...", format: BOGUS }
//	    expect: { error: UNSUPPORTED_FORMAT }
//	  - invoke: query
//	    args: { query: "SELECT * WHERE { ?s ?p ?o }" }
//	    expect: { rows: 1, columns: [s, p, o] }
//	assertions:
//	  - type: size
//	    count: 1
//	  - type: roundtrip
//	    format: TURTLE
//
// # Actions
//
//   - import: args content or file (relative to the scenario), format
//   - query: args query
//   - size: no args
//   - serialize: args format
//   - results: args document (or file) and query; parses a result document
//
// # Assertion Types
//
//   - size: the store holds exactly count asserted triples
//   - row_count: query returns exactly count rows
//   - table: query returns exactly table
//   - roundtrip: serializing in format and importing into a fresh store
//     gives the same size
//
// # Deterministic Testing
//
// Blank node labels come from a resettable sequence and every scenario
// runs against a fresh store, so the trace of a scenario is byte-identical
// between runs and can be compared against a golden file.
package harness
