package rdf

// Version constants for the rdfkit schema and tool.
const (
	// SchemaVersion is the on-disk triple schema version.
	SchemaVersion = "1"

	// ToolVersion is the rdfkit release version.
	ToolVersion = "0.1.0"
)
