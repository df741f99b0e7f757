package results

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/rdfkit/internal/rdf"
)

// Media types of the SPARQL result formats.
const (
	MediaTypeXML  = "application/sparql-results+xml"
	MediaTypeJSON = "application/sparql-results+json"
)

// ErrBooleanResult is returned for ASK result documents, which have no
// variables or rows.
var ErrBooleanResult = errors.New("boolean result documents are not supported")

// Document is a parsed SELECT result document.
type Document struct {
	Vars      []string
	Solutions []map[string]rdf.Term
}

// Iter returns a Solutions view over the document.
func (d *Document) Iter() *DocumentSolutions {
	return &DocumentSolutions{doc: d, pos: -1}
}

// DocumentSolutions replays a Document's solutions in order.
type DocumentSolutions struct {
	doc *Document
	pos int
}

func (s *DocumentSolutions) Vars() []string { return s.doc.Vars }

func (s *DocumentSolutions) Next() bool {
	if s.pos+1 >= len(s.doc.Solutions) {
		return false
	}
	s.pos++
	return true
}

func (s *DocumentSolutions) Solution() map[string]rdf.Term {
	if s.pos < 0 || s.pos >= len(s.doc.Solutions) {
		return nil
	}
	return s.doc.Solutions[s.pos]
}

func (s *DocumentSolutions) Err() error { return nil }

// Parse reads a result document. The content type selects the format;
// when it names neither format the body is sniffed.
func Parse(r io.Reader, contentType string) (*Document, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return ParseJSON(r)
	case strings.Contains(ct, "xml"):
		return ParseXML(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read result document: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a result document, choosing JSON when the first
// non-space character is '{' and XML otherwise.
func ParseBytes(data []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(bytes.NewReader(trimmed))
	}
	return ParseXML(bytes.NewReader(data))
}

type xmlDocument struct {
	XMLName xml.Name `xml:"sparql"`
	Head    struct {
		Variables []struct {
			Name string `xml:"name,attr"`
		} `xml:"variable"`
	} `xml:"head"`
	Results *struct {
		Result []struct {
			Bindings []xmlBinding `xml:"binding"`
		} `xml:"result"`
	} `xml:"results"`
	Boolean *string `xml:"boolean"`
}

type xmlBinding struct {
	Name    string  `xml:"name,attr"`
	URI     *string `xml:"uri"`
	BNode   *string `xml:"bnode"`
	Literal *struct {
		Value    string `xml:",chardata"`
		Lang     string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
		Datatype string `xml:"datatype,attr"`
	} `xml:"literal"`
}

// ParseXML parses the SPARQL Query Results XML Format.
func ParseXML(r io.Reader) (*Document, error) {
	var raw xmlDocument
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode XML results: %w", err)
	}
	if raw.Boolean != nil {
		return nil, ErrBooleanResult
	}

	doc := &Document{Vars: []string{}, Solutions: []map[string]rdf.Term{}}
	for _, v := range raw.Head.Variables {
		doc.Vars = append(doc.Vars, v.Name)
	}
	if raw.Results == nil {
		return doc, nil
	}
	for i, res := range raw.Results.Result {
		sol := make(map[string]rdf.Term, len(res.Bindings))
		for _, b := range res.Bindings {
			var t rdf.Term
			switch {
			case b.URI != nil:
				t = rdf.IRI(strings.TrimSpace(*b.URI))
			case b.BNode != nil:
				t = rdf.Blank(strings.TrimSpace(*b.BNode))
			case b.Literal != nil:
				t = literal(b.Literal.Value, b.Literal.Lang, b.Literal.Datatype)
			default:
				return nil, fmt.Errorf("result %d: binding %q has no value", i+1, b.Name)
			}
			sol[b.Name] = t
		}
		doc.Solutions = append(doc.Solutions, sol)
	}
	return doc, nil
}

type jsonDocument struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []map[string]jsonTerm `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

type jsonTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang"`
	Datatype string `json:"datatype"`
}

// ParseJSON parses the SPARQL 1.1 Query Results JSON Format.
func ParseJSON(r io.Reader) (*Document, error) {
	var raw jsonDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode JSON results: %w", err)
	}
	if raw.Boolean != nil {
		return nil, ErrBooleanResult
	}

	doc := &Document{Vars: []string{}, Solutions: []map[string]rdf.Term{}}
	doc.Vars = append(doc.Vars, raw.Head.Vars...)
	if raw.Results == nil {
		return doc, nil
	}
	for i, b := range raw.Results.Bindings {
		sol := make(map[string]rdf.Term, len(b))
		for name, jt := range b {
			switch jt.Type {
			case "uri":
				sol[name] = rdf.IRI(jt.Value)
			case "bnode":
				sol[name] = rdf.Blank(jt.Value)
			case "literal", "typed-literal":
				sol[name] = literal(jt.Value, jt.Lang, jt.Datatype)
			default:
				return nil, fmt.Errorf("result %d: binding %q has unknown type %q", i+1, name, jt.Type)
			}
		}
		doc.Solutions = append(doc.Solutions, sol)
	}
	return doc, nil
}

func literal(value, lang, datatype string) rdf.Literal {
	switch {
	case lang != "":
		return rdf.NewLangLiteral(value, lang)
	case datatype != "":
		return rdf.NewTypedLiteral(value, rdf.IRI(datatype))
	}
	return rdf.NewLiteral(value)
}
