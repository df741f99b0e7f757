package results

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/rdf"
)

func wantPeople() *Document {
	return &Document{
		Vars: []string{"person", "name", "friend"},
		Solutions: []map[string]rdf.Term{
			{
				"person": rdf.IRI("http://example.org/alice"),
				"name":   rdf.NewLangLiteral("Alice", "en"),
				"friend": rdf.Blank("r1"),
			},
			{
				"person": rdf.IRI("http://example.org/bob"),
				"name":   rdf.NewLiteral("Bob"),
			},
		},
	}
}

func TestParseXML(t *testing.T) {
	f, err := os.Open("testdata/people.srx")
	require.NoError(t, err)
	defer f.Close()

	doc, err := ParseXML(f)
	require.NoError(t, err)
	if diff := cmp.Diff(wantPeople(), doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON(t *testing.T) {
	f, err := os.Open("testdata/people.srj")
	require.NoError(t, err)
	defer f.Close()

	doc, err := ParseJSON(f)
	require.NoError(t, err)
	if diff := cmp.Diff(wantPeople(), doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes_Sniffs(t *testing.T) {
	for _, name := range []string{"testdata/people.srx", "testdata/people.srj"} {
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(name)
			require.NoError(t, err)
			doc, err := ParseBytes(data)
			require.NoError(t, err)
			assert.Len(t, doc.Solutions, 2)
		})
	}
}

func TestParse_ContentType(t *testing.T) {
	data, err := os.ReadFile("testdata/people.srj")
	require.NoError(t, err)

	doc, err := Parse(strings.NewReader(string(data)), "application/sparql-results+json; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"person", "name", "friend"}, doc.Vars)

	_, err = Parse(strings.NewReader(string(data)), MediaTypeXML)
	assert.Error(t, err, "JSON body under an XML content type does not parse")
}

func TestParse_EmptyResults(t *testing.T) {
	doc, err := ParseBytes([]byte(`<sparql xmlns="http://www.w3.org/2005/sparql-results#"><head><variable name="x"/></head><results/></sparql>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, doc.Vars)
	assert.Empty(t, doc.Solutions)
}

func TestParse_BooleanRejected(t *testing.T) {
	_, err := ParseBytes([]byte(`{"head":{},"boolean":true}`))
	assert.ErrorIs(t, err, ErrBooleanResult)

	_, err = ParseBytes([]byte(`<sparql><head/><boolean>true</boolean></sparql>`))
	assert.ErrorIs(t, err, ErrBooleanResult)
}

func TestParse_Malformed(t *testing.T) {
	for _, body := range []string{"", "not a document", `{"head":`, `<sparql><results><result><binding name="x"/></result></results></sparql>`} {
		_, err := ParseBytes([]byte(body))
		assert.Error(t, err, "body %q", body)
	}
}
