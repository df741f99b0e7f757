package testutil

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/roach88/rdfkit/internal/rdf"
)

// RecordedRequest is one request seen by a SPARQLEndpoint.
type RecordedRequest struct {
	Method  string
	Query   string
	Timeout string
	Accept  string
}

// SPARQLEndpoint is an httptest server that answers every query with a
// fixed result document and records what it was asked.
type SPARQLEndpoint struct {
	server *httptest.Server

	mu          sync.Mutex
	status      int
	contentType string
	body        string
	requests    []RecordedRequest
}

// NewSPARQLEndpoint starts an endpoint serving body with contentType. It
// is closed when the test ends.
func NewSPARQLEndpoint(t testing.TB, contentType, body string) *SPARQLEndpoint {
	t.Helper()
	e := &SPARQLEndpoint{status: http.StatusOK, contentType: contentType, body: body}
	e.server = httptest.NewServer(http.HandlerFunc(e.serve))
	t.Cleanup(e.server.Close)
	return e
}

// URL returns the endpoint URL.
func (e *SPARQLEndpoint) URL() string {
	return e.server.URL + "/sparql"
}

// Host returns host:port of the endpoint.
func (e *SPARQLEndpoint) Host() string {
	return strings.TrimPrefix(e.server.URL, "http://")
}

// Respond replaces the canned response.
func (e *SPARQLEndpoint) Respond(status int, contentType, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = status
	e.contentType = contentType
	e.body = body
}

// Requests returns the requests received so far.
func (e *SPARQLEndpoint) Requests() []RecordedRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RecordedRequest(nil), e.requests...)
}

func (e *SPARQLEndpoint) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	e.mu.Lock()
	e.requests = append(e.requests, RecordedRequest{
		Method:  r.Method,
		Query:   r.Form.Get("query"),
		Timeout: r.Form.Get("timeout"),
		Accept:  r.Header.Get("Accept"),
	})
	status, contentType, body := e.status, e.contentType, e.body
	e.mu.Unlock()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ResultsXML renders a SPARQL results XML document. Rows map variable
// names to bound terms; absent variables are unbound.
func ResultsXML(vars []string, rows []map[string]rdf.Term) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>` + "\n")
	b.WriteString(`<sparql xmlns="http://www.w3.org/2005/sparql-results#">` + "\n")
	b.WriteString("  <head>\n")
	for _, v := range vars {
		b.WriteString(`    <variable name="` + escape(v) + `"/>` + "\n")
	}
	b.WriteString("  </head>\n  <results>\n")
	for _, row := range rows {
		b.WriteString("    <result>\n")
		names := make([]string, 0, len(row))
		for name := range row {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(`      <binding name="` + escape(name) + `">`)
			b.WriteString(xmlTerm(row[name]))
			b.WriteString("</binding>\n")
		}
		b.WriteString("    </result>\n")
	}
	b.WriteString("  </results>\n</sparql>\n")
	return b.String()
}

func xmlTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return "<uri>" + escape(string(v)) + "</uri>"
	case rdf.Blank:
		return "<bnode>" + escape(string(v)) + "</bnode>"
	case rdf.Literal:
		attrs := ""
		if v.Lang != "" {
			attrs = ` xml:lang="` + escape(v.Lang) + `"`
		} else if v.Datatype != "" {
			attrs = ` datatype="` + escape(string(v.Datatype)) + `"`
		}
		return "<literal" + attrs + ">" + escape(v.Lexical) + "</literal>"
	}
	return ""
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
