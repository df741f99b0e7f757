package codec

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/rdf"
)

func TestImport_AllFormats(t *testing.T) {
	rdfxml, err := os.ReadFile("testdata/people.rdf")
	require.NoError(t, err)

	tests := []struct {
		name     string
		format   Format
		doc      string
		want     int64
		prefixes rdf.PrefixMapping
	}{
		{
			name:     "rdf/xml",
			format:   FormatRDFXML,
			doc:      string(rdfxml),
			want:     2,
			prefixes: rdf.PrefixMapping{"rdf": rdf.NamespaceRDF, "ex": "http://example.org/"},
		},
		{
			name:     "n-triple",
			format:   FormatNTriple,
			doc:      "<http://example.org/a> <http://example.org/b> <http://example.org/c> .\n",
			want:     1,
			prefixes: rdf.PrefixMapping{},
		},
		{
			name:     "turtle",
			format:   FormatTurtle,
			doc:      "@prefix ex: <http://example.org/> . ex:a ex:b ex:c .",
			want:     1,
			prefixes: rdf.PrefixMapping{"ex": "http://example.org/"},
		},
		{
			name:     "n3",
			format:   FormatN3,
			doc:      "@prefix ex: <http://example.org/> .\nex:a ex:b \"x\" , \"y\" .\n",
			want:     2,
			prefixes: rdf.PrefixMapping{"ex": "http://example.org/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel()
			res, err := seqImporter().Import(context.Background(), m, strings.NewReader(tt.doc), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sizeOf(t, m))
			assert.Equal(t, int(tt.want), res.Parsed)
			assert.Equal(t, int(tt.want), res.Added)
			assert.Equal(t, tt.prefixes, res.Prefixes)

			ns, err := m.Namespaces(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.prefixes, ns)
		})
	}
}

func TestImport_SetSemantics(t *testing.T) {
	m := newModel()
	doc := "<http://example.org/a> <http://example.org/b> <http://example.org/c> .\n"
	for i := 0; i < 2; i++ {
		_, err := seqImporter().Import(context.Background(), m, strings.NewReader(doc), FormatNTriple)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), sizeOf(t, m))
}

func TestImport_BlankNodesAreFreshPerImport(t *testing.T) {
	m := newModel()
	im := seqImporter()
	doc := "_:x <http://example.org/p> _:x .\n"
	for i := 0; i < 2; i++ {
		_, err := im.Import(context.Background(), m, strings.NewReader(doc), FormatNTriple)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), sizeOf(t, m))

	r, err := m.Begin(context.Background())
	require.NoError(t, err)
	defer r.Close()
	all, err := r.Match(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []rdf.Triple{
		{S: rdf.Blank("b0"), P: "http://example.org/p", O: rdf.Blank("b0")},
		{S: rdf.Blank("b1"), P: "http://example.org/p", O: rdf.Blank("b1")},
	}, all)
}

func TestImport_NormalizesToNFC(t *testing.T) {
	m := newModel()
	doc := "<http://example.org/a> <http://example.org/b> \"cafe\u0301\" .\n"
	_, err := seqImporter().Import(context.Background(), m, strings.NewReader(doc), FormatNTriple)
	require.NoError(t, err)

	r, err := m.Begin(context.Background())
	require.NoError(t, err)
	defer r.Close()
	got, err := r.Match(context.Background(), nil, nil, rdf.NewLiteral("caf\u00e9"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestImport_MalformedTurtle(t *testing.T) {
	m := newModel()
	_, err := seqImporter().Import(context.Background(), m, strings.NewReader("ex:a ex:b ex:c ."), FormatTurtle)
	require.Error(t, err)
	assert.True(t, graph.IsMalformedInput(err))

	var ge *graph.Error
	require.ErrorAs(t, err, &ge)
	diagnostic, ok := strings.CutPrefix(ge.Message, "Error while parsing file: ")
	require.True(t, ok, ge.Message)
	assert.NotEmpty(t, diagnostic)
	assert.Equal(t, "MALFORMED_INPUT: "+ge.Message, err.Error(), "diagnostic is printed once")
}

func TestImport_MalformedRDFXML(t *testing.T) {
	_, err := seqImporter().Import(context.Background(), newModel(), strings.NewReader("<not-rdf"), FormatRDFXML)
	require.Error(t, err)
	assert.True(t, graph.IsMalformedInput(err))

	var ge *graph.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "File format is not correct.", ge.Message)
}

func TestImport_RDFXMLNeedsAnElement(t *testing.T) {
	tests := map[string]string{
		"text":             "this is not xml",
		"empty":            "",
		"declaration only": "<?xml version=\"1.0\"?>\n<!-- nothing -->\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := seqImporter().Import(context.Background(), newModel(), strings.NewReader(doc), FormatRDFXML)
			require.Error(t, err)
			assert.True(t, graph.IsMalformedInput(err))

			var ge *graph.Error
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, "File format is not correct.", ge.Message)
		})
	}

	res, err := seqImporter().Import(context.Background(), newModel(),
		strings.NewReader(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`), FormatRDFXML)
	require.NoError(t, err, "an empty rdf:RDF element is a valid document")
	assert.Equal(t, 0, res.Parsed)
}

func TestImport_MalformedInputStopsLexer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	docs := []struct {
		format Format
		doc    string
	}{
		{FormatNTriple, "<http://e/a> <http://e/b> .\n<http://e/c> <http://e/d> <http://e/e> .\n"},
		{FormatTurtle, "@prefix ex: <http://e/> .\nex:a ex:b\nex:c ex:d ex:e .\n"},
		{FormatN3, "@prefix ex: <http://e/> . ex:a"},
	}
	for _, d := range docs {
		_, err := seqImporter().Import(context.Background(), newModel(), strings.NewReader(d.doc), d.format)
		require.Error(t, err, d.doc)
		assert.True(t, graph.IsMalformedInput(err), d.doc)
	}

	// A model failure stops the import before the document is consumed.
	doc := strings.Repeat("<http://e/a> <http://e/b> <http://e/c> .\n", 10)
	_, err := seqImporter(WithBatchSize(1)).Import(context.Background(), rejectingModel{newModel()}, strings.NewReader(doc), FormatNTriple)
	assert.Equal(t, graph.ErrCodeIO, graph.CodeOf(err))
}

func TestRootWatcher(t *testing.T) {
	for doc, want := range map[string]bool{
		"<rdf:RDF/>":        true,
		"<?xml?><a/>":       true,
		"<!-- c --><_x/>":   true,
		"text only":         false,
		"<?xml?><!-- c -->": false,
		"1 < 2":             false,
	} {
		w := &rootWatcher{}
		for i := 0; i < len(doc); i++ {
			_, _ = w.Write([]byte{doc[i]})
		}
		assert.Equal(t, want, w.seen, doc)
	}
}

func TestImport_PartialCommitOnError(t *testing.T) {
	m := newModel()
	doc := "<http://example.org/a> <http://example.org/b> <http://example.org/c> .\nthis is not n-triples\n"
	_, err := seqImporter(WithBatchSize(1)).Import(context.Background(), m, strings.NewReader(doc), FormatNTriple)
	require.Error(t, err)
	assert.True(t, graph.IsMalformedInput(err))
	assert.Equal(t, int64(1), sizeOf(t, m))
}

func TestImport_ModelFailureIsIOError(t *testing.T) {
	m := rejectingModel{newModel()}
	doc := "<http://example.org/a> <http://example.org/b> <http://example.org/c> .\n"
	_, err := seqImporter().Import(context.Background(), m, strings.NewReader(doc), FormatNTriple)
	require.Error(t, err)
	assert.Equal(t, graph.ErrCodeIO, graph.CodeOf(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestImport_UnsupportedFormat(t *testing.T) {
	_, err := seqImporter().Import(context.Background(), newModel(), strings.NewReader(""), Format("BOGUS"))
	assert.True(t, graph.IsUnsupportedFormat(err))
}

func TestImport_ReaderFailure(t *testing.T) {
	doc := "<http://example.org/a> <http://example.org/b> <http://example.org/c> .\n"

	t.Run("plain error is IO_ERROR", func(t *testing.T) {
		r := io.MultiReader(strings.NewReader(doc), iotest.ErrReader(errors.New("connection reset")))
		_, err := seqImporter().Import(context.Background(), newModel(), r, FormatNTriple)
		require.Error(t, err)
		assert.Equal(t, graph.ErrCodeIO, graph.CodeOf(err))
		assert.False(t, graph.IsMalformedInput(err))
	})

	t.Run("coded error keeps its code", func(t *testing.T) {
		cause := graph.NewError(graph.ErrCodeNetwork, "Unknown or unresponsive host: example.org", nil)
		r := io.MultiReader(strings.NewReader(doc), iotest.ErrReader(cause))
		_, err := seqImporter().Import(context.Background(), newModel(), r, FormatNTriple)
		assert.True(t, graph.IsNetworkError(err))
	})
}

func TestPrefixSniffer_SplitWrites(t *testing.T) {
	s := newPrefixSniffer(FormatTurtle)
	doc := "@prefix ex: <http://example.org/> .\nPREFIX foaf: <http://xmlns.com/foaf/0.1/>\n@prefix : <http://default/> ."
	for i := 0; i < len(doc); i += 7 {
		end := i + 7
		if end > len(doc) {
			end = len(doc)
		}
		_, err := s.Write([]byte(doc[i:end]))
		require.NoError(t, err)
	}
	assert.Equal(t, rdf.PrefixMapping{
		"ex":   "http://example.org/",
		"foaf": "http://xmlns.com/foaf/0.1/",
		"":     "http://default/",
	}, s.Prefixes())
}

func TestPrefixSniffer_NTriplesIgnored(t *testing.T) {
	s := newPrefixSniffer(FormatNTriple)
	_, err := s.Write([]byte("@prefix ex: <http://example.org/> .\n"))
	require.NoError(t, err)
	assert.Empty(t, s.Prefixes())
}
