package codec

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/rdf"
)

const writeErrorMessage = "Error while writing RDF."

var (
	localNameRe  = regexp.MustCompile(`^([A-Za-z0-9_]([A-Za-z0-9_.-]*[A-Za-z0-9_-])?)?$`)
	blankLabelRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Serialize writes every asserted triple of model to w in the given
// export format.
//
// Output is deterministic: used prefixes are declared in sorted order,
// subjects appear in insertion order with their predicates grouped, and
// rdf:type is written as "a". Prefixes come from the model's recorded
// namespaces, falling back to rdf, rdfs, xsd and owl.
//
// Errors are *graph.Error: SERIALIZATION_ERROR when w fails, IO_ERROR
// when the model cannot be read.
func Serialize(ctx context.Context, w io.Writer, model graph.Model, format Format) error {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return err
	}

	ns, err := model.Namespaces(ctx)
	if err != nil {
		return graph.NewError(graph.ErrCodeIO, "could not read namespaces", err)
	}
	prefixes := rdf.StandardPrefixes()
	for _, std := range prefixes.Prefixes() {
		for _, p := range ns.Prefixes() {
			if ns[p] == prefixes[std] {
				delete(prefixes, std)
				break
			}
		}
	}
	prefixes.Merge(ns)

	reader, err := model.Begin(ctx)
	if err != nil {
		return graph.NewError(graph.ErrCodeIO, "could not read store", err)
	}
	triples, err := reader.Match(ctx, nil, nil, nil)
	reader.Close()
	if err != nil {
		return graph.NewError(graph.ErrCodeIO, "could not read store", err)
	}

	tw := &turtleWriter{prefixes: prefixes, used: map[string]bool{}}
	body := tw.body(triples)

	bw := bufio.NewWriter(w)
	for _, p := range prefixes.Prefixes() {
		if !tw.used[p] {
			continue
		}
		bw.WriteString("@prefix " + p + ": <" + prefixes[p] + "> .\n")
	}
	if len(tw.used) > 0 && body != "" {
		bw.WriteString("\n")
	}
	bw.WriteString(body)
	if err := bw.Flush(); err != nil {
		return graph.NewError(graph.ErrCodeSerialization, writeErrorMessage, err)
	}
	return nil
}

type turtleWriter struct {
	prefixes rdf.PrefixMapping
	used     map[string]bool
}

type subjectGroup struct {
	subject rdf.Term
	preds   []rdf.IRI
	objects map[rdf.IRI][]rdf.Term
}

// body renders the triple statements, grouping by subject then predicate
// in order of first appearance.
func (tw *turtleWriter) body(triples []rdf.Triple) string {
	var groups []*subjectGroup
	index := make(map[string]*subjectGroup)
	for _, t := range triples {
		key := t.S.String()
		g, ok := index[key]
		if !ok {
			g = &subjectGroup{subject: t.S, objects: map[rdf.IRI][]rdf.Term{}}
			index[key] = g
			groups = append(groups, g)
		}
		if _, seen := g.objects[t.P]; !seen {
			g.preds = append(g.preds, t.P)
		}
		g.objects[t.P] = append(g.objects[t.P], t.O)
	}

	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(tw.term(g.subject))
		for j, p := range g.preds {
			if j == 0 {
				sb.WriteString(" ")
			} else {
				sb.WriteString(" ;\n    ")
			}
			sb.WriteString(tw.predicate(p))
			for k, o := range g.objects[p] {
				if k == 0 {
					sb.WriteString(" ")
				} else {
					sb.WriteString(" , ")
				}
				sb.WriteString(tw.term(o))
			}
		}
		sb.WriteString(" .\n")
	}
	return sb.String()
}

func (tw *turtleWriter) predicate(p rdf.IRI) string {
	if p == rdf.RDFType {
		return "a"
	}
	return tw.iri(p)
}

func (tw *turtleWriter) term(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return tw.iri(v)
	case rdf.Blank:
		return blankLabel(v)
	case rdf.Literal:
		s := `"` + rdf.EscapeString(v.Lexical) + `"`
		switch {
		case v.Lang != "":
			s += "@" + v.Lang
		case v.Datatype != "":
			s += "^^" + tw.iri(v.Datatype)
		}
		return s
	}
	return t.String()
}

// iri writes a prefixed name when the local part is a valid Turtle local
// name and an IRI reference otherwise.
func (tw *turtleWriter) iri(i rdf.IRI) string {
	compact := tw.prefixes.Compact(string(i))
	if compact != string(i) {
		prefix, local, _ := strings.Cut(compact, ":")
		if localNameRe.MatchString(local) {
			tw.used[prefix] = true
			return compact
		}
	}
	return i.String()
}

func blankLabel(b rdf.Blank) string {
	if blankLabelRe.MatchString(string(b)) {
		return b.String()
	}
	var sb strings.Builder
	sb.WriteString("_:x")
	for _, c := range []byte(b) {
		sb.WriteString(hexDigits[c>>4 : c>>4+1])
		sb.WriteString(hexDigits[c&0x0f : c&0x0f+1])
	}
	return sb.String()
}

const hexDigits = "0123456789abcdef"
