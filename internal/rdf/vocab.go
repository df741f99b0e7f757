package rdf

// Well-known namespaces.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
)

// Vocabulary terms referenced by the parser, serializer and entailment.
const (
	RDFType       IRI = NamespaceRDF + "type"
	RDFLangString IRI = NamespaceRDF + "langString"
	RDFProperty   IRI = NamespaceRDF + "Property"

	RDFSSubClassOf    IRI = NamespaceRDFS + "subClassOf"
	RDFSSubPropertyOf IRI = NamespaceRDFS + "subPropertyOf"
	RDFSDomain        IRI = NamespaceRDFS + "domain"
	RDFSRange         IRI = NamespaceRDFS + "range"
	RDFSClass         IRI = NamespaceRDFS + "Class"
	RDFSResource      IRI = NamespaceRDFS + "Resource"

	XSDString             IRI = NamespaceXSD + "string"
	XSDBoolean            IRI = NamespaceXSD + "boolean"
	XSDInteger            IRI = NamespaceXSD + "integer"
	XSDDecimal            IRI = NamespaceXSD + "decimal"
	XSDDouble             IRI = NamespaceXSD + "double"
	XSDFloat              IRI = NamespaceXSD + "float"
	XSDInt                IRI = NamespaceXSD + "int"
	XSDLong               IRI = NamespaceXSD + "long"
	XSDShort              IRI = NamespaceXSD + "short"
	XSDNonNegativeInteger IRI = NamespaceXSD + "nonNegativeInteger"
	XSDPositiveInteger    IRI = NamespaceXSD + "positiveInteger"
)

// StandardPrefixes returns the prefixes every serializer may fall back on.
func StandardPrefixes() PrefixMapping {
	return PrefixMapping{
		"rdf":  NamespaceRDF,
		"rdfs": NamespaceRDFS,
		"xsd":  NamespaceXSD,
		"owl":  NamespaceOWL,
	}
}
