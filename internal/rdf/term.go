package rdf

import (
	"strings"
)

// TermKind identifies the variant of a Term.
type TermKind int

const (
	KindIRI TermKind = iota + 1
	KindBlank
	KindLiteral
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "bnode"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a sealed interface representing an RDF term.
// Only IRI, Blank and Literal implement it.
type Term interface {
	// Kind reports the term variant.
	Kind() TermKind

	// Value returns the bare value: the IRI string, the blank node label
	// or the literal's lexical form.
	Value() string

	// String returns the N-Triples rendering, which is also the term's
	// identity key.
	String() string

	term() // Sealed - only these types implement it
}

// IRI is an absolute resource identifier.
type IRI string

func (IRI) term() {}
func (IRI) Kind() TermKind { return KindIRI }
func (i IRI) Value() string { return string(i) }
func (i IRI) String() string { return "<" + escapeIRI(string(i)) + ">" }

// Blank is a blank node identified by a store-local label (without "_:").
type Blank string

func (Blank) term() {}
func (Blank) Kind() TermKind { return KindBlank }
func (b Blank) Value() string { return string(b) }
func (b Blank) String() string { return "_:" + string(b) }

// Literal is an RDF literal.
//
// Simple literals have neither Lang nor Datatype. xsd:string is folded
// into the simple form by NewTypedLiteral so that both spellings share an
// identity.
type Literal struct {
	Lexical  string
	Lang     string
	Datatype IRI
}

func (Literal) term() {}
func (Literal) Kind() TermKind { return KindLiteral }
func (l Literal) Value() string { return l.Lexical }

func (l Literal) String() string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(EscapeString(l.Lexical))
	b.WriteByte('"')
	switch {
	case l.Lang != "":
		b.WriteByte('@')
		b.WriteString(l.Lang)
	case l.Datatype != "":
		b.WriteString("^^")
		b.WriteString(l.Datatype.String())
	}
	return b.String()
}

// NewLiteral creates a simple literal.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical}
}

// NewLangLiteral creates a language-tagged literal. The tag is lower-cased.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: strings.ToLower(lang)}
}

// NewTypedLiteral creates a datatyped literal.
// xsd:string and rdf:langString without a tag collapse to a simple literal.
func NewTypedLiteral(lexical string, datatype IRI) Literal {
	if datatype == XSDString || datatype == RDFLangString {
		datatype = ""
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

// IsNumeric reports whether the literal carries a numeric XSD datatype.
func (l Literal) IsNumeric() bool {
	switch l.Datatype {
	case XSDInteger, XSDDecimal, XSDDouble, XSDFloat, XSDInt, XSDLong,
		XSDShort, XSDNonNegativeInteger, XSDPositiveInteger:
		return true
	}
	return false
}

// TermsEqual reports whether two terms have the same identity.
// Two nil terms are equal.
func TermsEqual(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.String() == b.String()
}

// EscapeString escapes a lexical form for N-Triples and Turtle string
// literals.
func EscapeString(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			b.WriteString(`\u00`)
			b.WriteString(strings.ToUpper(hexByte(byte(r))))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hexByte(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}
