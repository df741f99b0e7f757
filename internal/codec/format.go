package codec

import (
	"github.com/roach88/rdfkit/internal/graph"
)

// Format names a serialization.
type Format string

const (
	FormatRDFXML  Format = "RDF/XML"
	FormatNTriple Format = "N-TRIPLE"
	FormatTurtle  Format = "TURTLE"
	FormatN3      Format = "N3"
)

// DefaultFormat is used when no import format is given.
const DefaultFormat = FormatRDFXML

const unsupportedImportMessage = `Unknown file format. Supported are "RDF/XML", "N-TRIPLE", "TURTLE" and "N3".`

const unsupportedExportMessage = `Unknown output format. Supported are "N3" and "TURTLE".`

// ImportFormats lists the accepted import format names in documentation order.
var ImportFormats = []Format{FormatRDFXML, FormatNTriple, FormatTurtle, FormatN3}

// ExportFormats lists the accepted export format names.
var ExportFormats = []Format{FormatN3, FormatTurtle}

// ParseFormat resolves an import format name. The empty name selects
// DefaultFormat; any other name must match exactly.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return DefaultFormat, nil
	}
	for _, f := range ImportFormats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", graph.NewError(graph.ErrCodeUnsupportedFormat, unsupportedImportMessage, nil)
}

// ParseExportFormat resolves an export format name.
func ParseExportFormat(name string) (Format, error) {
	for _, f := range ExportFormats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", graph.NewError(graph.ErrCodeUnsupportedFormat, unsupportedExportMessage, nil)
}
